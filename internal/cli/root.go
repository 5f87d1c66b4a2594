// Package cli implements the cobra command tree for kubevault.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xunleii/kubevault/internal/config"
	"github.com/xunleii/kubevault/internal/logging"
	"github.com/xunleii/kubevault/internal/vault"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitErrorFor classifies err per spec.md §6/§7: I/O failures (an
// unreadable file or directory under the vault tree) exit 2, every other
// validation failure exits 1.
func exitErrorFor(err error) *ExitError {
	var unreadable *vault.ErrUnreadableFile
	if errors.As(err, &unreadable) {
		return &ExitError{Code: 2, Err: err}
	}

	return &ExitError{Code: 1, Err: err}
}

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "kubevault",
		Short: "Compile a directory of secrets and ACL rules into Kubernetes manifests",
		Long: `kubevault turns a Kubernetes cluster into a lightweight secret store.

It compiles a vault directory holding a kvstore/ tree of secret files and an
access_control/ tree of per-user glob ACL files into a coherent set of
Kubernetes manifests: namespace-scoped Secrets, ServiceAccounts, token
Secrets, Roles, and RoleBindings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("vaultDir", cfg.VaultDir),
				slog.String("namespace", cfg.Namespace),
				slog.String("logLevel", cfg.LogLevel),
			)

			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .kubevault.yaml)")
	pf.String("vault-dir", config.DefaultVaultDir, "vault directory holding kvstore/ and access_control/")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newVersionCommand(),
		newGenerateCommand(),
		newCanReadCommand(),
		newCompletionCommand(),
	)

	return cmd
}
