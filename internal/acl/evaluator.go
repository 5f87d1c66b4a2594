package acl

import (
	"sort"

	"github.com/xunleii/kubevault/internal/vault"
)

// Status is the outcome of evaluating a user's rules against one path.
type Status int

const (
	// NotMatched means no rule, including the implicit tail, matched.
	NotMatched Status = iota
	// Allowed means the last matching rule was an include.
	Allowed
	// Denied means the last matching rule was an exclude.
	Denied
)

func (s Status) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "not matched"
	}
}

// UserRules is a user's parsed rule file plus the fixed implicit tail
// appended after it.
type UserRules struct {
	UserName     string
	Rules        []Rule
	ImplicitTail []Rule
}

// NewUserRules builds a UserRules from a user's parsed own rules, appending
// the implicit tail.
func NewUserRules(userName string, rules []Rule) UserRules {
	return UserRules{UserName: userName, Rules: rules, ImplicitTail: implicitTail(userName)}
}

// all returns the user's own rules followed by the implicit tail, the order
// in which the evaluator applies them.
func (u UserRules) all() []Rule {
	all := make([]Rule, 0, len(u.Rules)+len(u.ImplicitTail))
	all = append(all, u.Rules...)
	all = append(all, u.ImplicitTail...)

	return all
}

// RuleText joins the user's own rules and the implicit tail, in evaluation
// order, as the text preserved in the kubevault.chezmoi.sh/rules annotation.
func (u UserRules) RuleText() []string {
	all := u.all()
	lines := make([]string, len(all))

	for i, r := range all {
		lines[i] = r.Raw
	}

	return lines
}

// Decision is the outcome of evaluating one user's rules against one path.
type Decision struct {
	Path   vault.SecretPath
	Status Status
	Winner *Rule // the rule that decided Status, nil if NotMatched
	// WinnerIndex is Winner's 0-based position among the user's own rules
	// followed by the implicit tail, -1 if NotMatched.
	WinnerIndex int
}

// Evaluate applies u's rules, last-match-wins, against every path in
// catalog and returns one Decision per path, sorted by path.
func Evaluate(u UserRules, catalog []vault.SecretEntry) []Decision {
	rules := u.all()
	decisions := make([]Decision, len(catalog))

	for i, entry := range catalog {
		status := NotMatched
		winnerIdx := -1

		var winner *Rule

		for j := range rules {
			rule := rules[j]
			if rule.Pattern.Match(entry.Path.String()) {
				if rule.Polarity == Include {
					status = Allowed
				} else {
					status = Denied
				}

				winner = &rule
				winnerIdx = j
			}
		}

		decisions[i] = Decision{Path: entry.Path, Status: status, Winner: winner, WinnerIndex: winnerIdx}
	}

	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].Path.Compare(decisions[j].Path) < 0
	})

	return decisions
}

// AllowedPaths returns the sorted set of original paths u is allowed to
// read, given decisions from Evaluate.
func AllowedPaths(decisions []Decision) []vault.SecretPath {
	var allowed []vault.SecretPath

	for _, d := range decisions {
		if d.Status == Allowed {
			allowed = append(allowed, d.Path)
		}
	}

	return allowed
}

// AllowedNames returns the sorted set of mangled resource names u is
// allowed to read, given the catalog and decisions from Evaluate.
func AllowedNames(catalog []vault.SecretEntry, decisions []Decision) []string {
	nameByPath := make(map[string]string, len(catalog))
	for _, entry := range catalog {
		nameByPath[entry.Path.String()] = entry.Name
	}

	var names []string

	for _, d := range decisions {
		if d.Status == Allowed {
			names = append(names, nameByPath[d.Path.String()])
		}
	}

	sort.Strings(names)

	return names
}
