package acl

import (
	"bufio"
	"io"
	"strings"
)

// Polarity is whether a rule adds or removes matching paths.
type Polarity int

const (
	// Include marks a rule that grants matching paths.
	Include Polarity = iota
	// Exclude marks a rule that revokes matching paths.
	Exclude
)

func (p Polarity) String() string {
	if p == Exclude {
		return "exclude"
	}

	return "include"
}

// Rule is one line of a user's access_control file: a signed glob pattern.
type Rule struct {
	Polarity Polarity
	Pattern  *Pattern
	Text     string // the pattern text as written, without the leading '!'
	Raw      string // the full line as evaluated, including any leading '!'
}

// ParseRules reads an ordered list of rules from r, skipping comment and
// blank lines. user names the owning ACL file, used only in error messages.
func ParseRules(user string, r io.Reader) ([]Rule, error) {
	var rules []Rule

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		trimmedLeft := strings.TrimLeft(line, " \t")

		if trimmedLeft == "" || strings.HasPrefix(trimmedLeft, "#") {
			continue
		}

		polarity := Include

		text := trimmedLeft
		if strings.HasPrefix(text, "!") {
			polarity = Exclude
			text = text[1:]
		}

		text = strings.TrimRight(text, " \t")

		pattern, err := Compile(text)
		if err != nil {
			return nil, &ErrBadGlob{User: user, Line: lineNo, Pattern: text, Reason: err.Error()}
		}

		rules = append(rules, Rule{
			Polarity: polarity,
			Pattern:  pattern,
			Text:     text,
			Raw:      strings.TrimRight(trimmedLeft, " \t"),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// implicitTail returns the three rules appended after every user's own
// rules to enforce per-user namespace isolation.
func implicitTail(user string) []Rule {
	texts := []struct {
		polarity Polarity
		pattern  string
	}{
		{Exclude, "*/users/**"},
		{Include, "*/users/" + user},
		{Include, "*/users/" + user + "/**"},
	}

	tail := make([]Rule, 0, len(texts))

	for _, t := range texts {
		pattern, err := Compile(t.pattern)
		if err != nil {
			// The tail patterns are fixed and always well-formed.
			panic(err)
		}

		raw := t.pattern
		if t.polarity == Exclude {
			raw = "!" + raw
		}

		tail = append(tail, Rule{Polarity: t.polarity, Pattern: pattern, Text: t.pattern, Raw: raw})
	}

	return tail
}
