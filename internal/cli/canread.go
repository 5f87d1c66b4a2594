package cli

import (
	"fmt"
	"io"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/xunleii/kubevault/internal/acl"
	"github.com/xunleii/kubevault/internal/config"
	"github.com/xunleii/kubevault/internal/vault"
)

type canReadOptions struct {
	showOnlyAllowed bool
	showDenied      bool
	diffUser        string
}

func newCanReadCommand() *cobra.Command {
	opts := &canReadOptions{}

	cmd := &cobra.Command{
		Use:   "can-read <user> [path]",
		Short: "Report which secrets a user can read",
		Long: `can-read evaluates a user's access_control/ rule file against the
vault's secret catalog and reports the result.

Given a path, it prints that path's status and the rule text that decided
it. Without a path, it prints every catalog path with its mangled name and
status, sorted by path; --show-only-allowed keeps only the allowed paths,
and --show-denied adds the winning rule to each line.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}

			return runCanRead(cmd, opts, args[0], path)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.showOnlyAllowed, "show-only-allowed", false, "omit denied and not-matched entries")
	f.BoolVar(&opts.showDenied, "show-denied", false, "print every path with its status and winning rule")
	f.StringVar(&opts.diffUser, "diff", "", "print a unified diff of this user's allowed paths against another user")

	return cmd
}

func runCanRead(cmd *cobra.Command, opts *canReadOptions, user, path string) error {
	cfg := config.FromContext(cmd.Context())

	v, err := vault.Open(cfg.VaultDir)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	catalog, err := v.Catalog()
	if err != nil {
		return exitErrorFor(err)
	}

	userRules, err := loadUserRules(v, user)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	decisions := acl.Evaluate(userRules, catalog)

	out := cmd.OutOrStdout()

	if opts.diffUser != "" {
		return runCanReadDiff(out, v, catalog, userRules, opts.diffUser)
	}

	nameByPath := namesByPath(catalog)

	if path != "" {
		return printSinglePathDecision(out, decisions, nameByPath, path)
	}

	printDecisionList(out, decisions, nameByPath, opts)

	return nil
}

// namesByPath maps every catalog entry's path to its mangled resource name,
// the same lookup acl.AllowedNames builds internally.
func namesByPath(catalog []vault.SecretEntry) map[string]string {
	names := make(map[string]string, len(catalog))
	for _, entry := range catalog {
		names[entry.Path.String()] = entry.Name
	}

	return names
}

// loadUserRules parses user's rule file and builds its evaluator input,
// returning *acl.ErrUnknownUser if the file does not exist.
func loadUserRules(v *vault.Vault, user string) (acl.UserRules, error) {
	if err := vault.ValidateUserName(user); err != nil {
		return acl.UserRules{}, err
	}

	rules, err := parseUserRuleFile(v, user)
	if err != nil {
		return acl.UserRules{}, err
	}

	return acl.NewUserRules(user, rules), nil
}

// printSinglePathDecision prints the status of exactly one path, per
// spec.md §4.8's single-path form.
func printSinglePathDecision(w io.Writer, decisions []acl.Decision, nameByPath map[string]string, path string) error {
	for _, d := range decisions {
		if d.Path.String() != path {
			continue
		}

		fmt.Fprintf(w, "%s (%s): %s\n", d.Path.String(), nameByPath[d.Path.String()], d.Status)
		fmt.Fprintf(w, "  rule: %s\n", winnerText(d.Winner))

		return nil
	}

	fmt.Fprintf(w, "%s: not matched\n", path)
	fmt.Fprintln(w, "  rule: (default deny)")

	return nil
}

// printDecisionList prints the user's decisions over the whole catalog, per
// spec.md §4.8's no-path form: each line carries the path and its mangled
// resource name, further refined by --show-only-allowed and --show-denied.
// With --show-denied the winning rule is numbered from 1 over the user's own
// rules followed by the implicit tail; a path no rule matched shows
// "rule #0: (default deny)".
func printDecisionList(w io.Writer, decisions []acl.Decision, nameByPath map[string]string, opts *canReadOptions) {
	for _, d := range decisions {
		name := nameByPath[d.Path.String()]

		switch {
		case opts.showOnlyAllowed && d.Status != acl.Allowed:
			continue
		case opts.showDenied:
			fmt.Fprintf(w, "%s\t%s\t%s\trule #%d: %s\n", d.Path.String(), name, d.Status, d.WinnerIndex+1, winnerText(d.Winner))
		case d.Status == acl.Allowed:
			fmt.Fprintf(w, "%s\t%s\tallowed\n", d.Path.String(), name)
		default:
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Path.String(), name, d.Status)
		}
	}
}

// winnerText renders a decision's winning rule, or the fixed "(default
// deny)" text when no rule matched.
func winnerText(winner *acl.Rule) string {
	if winner == nil {
		return "(default deny)"
	}

	return winner.Raw
}

// runCanReadDiff prints a unified diff between user's allowed paths and
// otherUser's, per SPEC_FULL.md §12.2.
func runCanReadDiff(w io.Writer, v *vault.Vault, catalog []vault.SecretEntry, userRules acl.UserRules, otherUser string) error {
	otherRules, err := loadUserRules(v, otherUser)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	a := acl.AllowedPaths(acl.Evaluate(userRules, catalog))
	b := acl.AllowedPaths(acl.Evaluate(otherRules, catalog))

	diff := difflib.UnifiedDiff{
		A:        pathLines(a),
		B:        pathLines(b),
		FromFile: userRules.UserName,
		ToFile:   otherUser,
		Context:  0,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	fmt.Fprint(w, text)

	return nil
}

func pathLines(paths []vault.SecretPath) []string {
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = p.String()
	}

	return lines
}
