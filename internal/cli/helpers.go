package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/xunleii/kubevault/internal/acl"
	"github.com/xunleii/kubevault/internal/vault"
)

// listUsers returns the sorted set of usernames with a rule file under
// v's access_control/ directory.
func listUsers(v *vault.Vault) ([]string, error) {
	entries, err := os.ReadDir(v.AccessControlDir())
	if err != nil {
		return nil, &vault.ErrUnreadableFile{Path: v.AccessControlDir(), Err: err}
	}

	users := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		users = append(users, e.Name())
	}

	sort.Strings(users)

	return users, nil
}

// parseUserRuleFile reads and parses the rule file for user under v's
// access_control/ directory.
func parseUserRuleFile(v *vault.Vault, user string) ([]acl.Rule, error) {
	path := filepath.Join(v.AccessControlDir(), user)

	f, err := os.Open(path)
	if err != nil {
		return nil, &acl.ErrUnknownUser{User: user}
	}
	defer f.Close()

	return acl.ParseRules(user, f)
}
