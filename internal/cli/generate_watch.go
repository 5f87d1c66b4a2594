package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/xunleii/kubevault/internal/config"
	"github.com/xunleii/kubevault/internal/emit"
	"github.com/xunleii/kubevault/internal/logging"
	"github.com/xunleii/kubevault/internal/manifest"
	"github.com/xunleii/kubevault/internal/watch"
)

// runGenerateWatchLoop watches cfg.VaultDir and re-runs the generation
// pipeline on every relevant change, writing the result the same way a
// one-shot run would (stdout stream or --output-dir).
func runGenerateWatchLoop(cmd *cobra.Command, cfg *config.Config, opts *generateOptions) error {
	logger := logging.FromContext(cmd.Context())

	watchOpts := watch.DefaultOptions()
	watchOpts.Dir = cfg.VaultDir
	watchOpts.Logger = logger
	watchOpts.Out = cmd.ErrOrStderr()

	runFn := func(_ context.Context) (*watch.RunResult, error) {
		docs, err := buildDocuments(cfg)
		if err != nil {
			return nil, err
		}

		if opts.outputDir != "" {
			if err := emit.ToDirectory(opts.outputDir, docs); err != nil {
				return nil, err
			}
		} else if err := emit.ToStream(cmd.OutOrStdout(), docs); err != nil {
			return nil, err
		}

		secretCount, userCount := countDocuments(docs)

		return &watch.RunResult{SecretCount: secretCount, UserCount: userCount}, nil
	}

	if err := watch.Run(cmd.Context(), watchOpts, runFn); err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	return nil
}

// countDocuments reports how many kvstore Secret objects and distinct
// ServiceAccounts (one per user) are represented in docs, for the watch
// loop's status line.
func countDocuments(docs []emit.Document) (secretCount, userCount int) {
	for _, d := range docs {
		switch {
		case manifest.IsDataSecret(d.Object):
			secretCount++
		case manifest.IsServiceAccount(d.Object):
			userCount++
		}
	}

	return secretCount, userCount
}
