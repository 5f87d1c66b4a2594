package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xunleii/kubevault/internal/acl"
	"github.com/xunleii/kubevault/internal/config"
	"github.com/xunleii/kubevault/internal/emit"
	"github.com/xunleii/kubevault/internal/logging"
	"github.com/xunleii/kubevault/internal/vault"
	"github.com/xunleii/kubevault/internal/version"
)

type generateOptions struct {
	outputDir      string
	minVaultSchema string
	watch          bool
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile the vault directory into Kubernetes manifests",
		Long: `generate reads the vault directory (kvstore/ and access_control/),
evaluates every user's ACL against the secret catalog, and emits the
resulting Secret, ServiceAccount, token Secret, Role, and RoleBinding
manifests as a YAML stream, or as one file per object under --output-dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.String("namespace", config.DefaultNamespace, "namespace emitted manifests are placed in")
	f.StringVar(&opts.outputDir, "output-dir", "", "write one file per object to this directory instead of stdout")
	f.StringVar(&opts.minVaultSchema, "min-vault-schema", "", "require the vault to satisfy this semver constraint")
	f.BoolVar(&opts.watch, "watch", false, "watch the vault directory and regenerate on change")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	cfg := config.FromContext(cmd.Context())
	logger := logging.FromContext(cmd.Context())

	if opts.minVaultSchema != "" {
		if err := checkVaultSchema(cfg.VaultDir, opts.minVaultSchema); err != nil {
			return exitErrorFor(err)
		}
	}

	if opts.watch {
		return runGenerateWatch(cmd, cfg, opts)
	}

	docs, err := buildDocuments(cfg)
	if err != nil {
		return err
	}

	if opts.outputDir != "" {
		if err := emit.ToDirectory(opts.outputDir, docs); err != nil {
			return &ExitError{Code: 2, Err: err}
		}

		logger.Info("manifests written", slog.String("dir", opts.outputDir), slog.Int("documents", len(docs)))

		return nil
	}

	if err := emit.ToStream(cmd.OutOrStdout(), docs); err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	return nil
}

// checkVaultSchema enforces --min-vault-schema (SPEC_FULL.md §12.4): it
// reads the vault's optional vault.yaml and, when it declares a
// schemaVersion, requires that version to satisfy constraint. An absent
// vault.yaml is a no-op, regardless of constraint.
func checkVaultSchema(vaultDir, constraint string) error {
	v := &vault.Vault{Dir: vaultDir}

	declared, err := v.SchemaVersion()
	if err != nil {
		return err
	}

	if err := version.CheckVaultSchemaConstraint(constraint, declared); err != nil {
		return &vault.ErrVaultStructureInvalid{Path: vaultDir, Reason: err.Error()}
	}

	return nil
}

// buildDocuments runs the full vault -> acl -> manifest -> emit pipeline and
// returns the stably ordered document list.
func buildDocuments(cfg *config.Config) ([]emit.Document, error) {
	v, err := vault.Open(cfg.VaultDir)
	if err != nil {
		return nil, &ExitError{Code: 1, Err: err}
	}

	catalog, err := v.Catalog()
	if err != nil {
		return nil, exitErrorFor(err)
	}

	userFiles, err := listUsers(v)
	if err != nil {
		return nil, exitErrorFor(err)
	}

	bundles := make([]emit.UserBundle, 0, len(userFiles))

	for _, user := range userFiles {
		if err := vault.ValidateUserName(user); err != nil {
			return nil, &ExitError{Code: 1, Err: err}
		}

		rules, err := parseUserRuleFile(v, user)
		if err != nil {
			return nil, &ExitError{Code: 1, Err: err}
		}

		userRules := acl.NewUserRules(user, rules)
		decisions := acl.Evaluate(userRules, catalog)

		bundles = append(bundles, emit.UserBundle{
			User:         user,
			AllowedNames: acl.AllowedNames(catalog, decisions),
			RuleText:     userRules.RuleText(),
		})
	}

	return emit.BuildDocuments(cfg.Namespace, catalog, bundles), nil
}

func runGenerateWatch(cmd *cobra.Command, cfg *config.Config, opts *generateOptions) error {
	return runGenerateWatchLoop(cmd, cfg, opts)
}
