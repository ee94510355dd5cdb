package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/launchdash/launchdash/server/internal/app"
	"github.com/launchdash/launchdash/server/internal/config"
	"github.com/launchdash/launchdash/server/internal/dataset"
	"github.com/launchdash/launchdash/server/internal/metrics"
)

// ServeOptions holds the serve command's flags.
type ServeOptions struct {
	ConfigPath string
	Data       string
	UIDir      string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Long: `Run the dashboard: the page, the REST API, WebSocket sessions and
Prometheus metrics on one HTTP port.

The launch table is loaded once at startup; a table that cannot be loaded
stops the server with exit code 1. Edits to the config file change the log
level without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "path to config file")
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "launch table, overrides dataset.source")
	cmd.Flags().StringVar(&opts.UIDir, "ui-dir", "", "serve the page from this directory instead of the embedded one")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts *ServeOptions) error {
	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), &slog.HandlerOptions{Level: level})))

	slog.Info("launchdash starting", "config", opts.ConfigPath)

	cfg, watch, err := loadServeConfig(opts.ConfigPath, cmd.Flags().Changed("config"))
	if err != nil {
		slog.Error("failed to load config", "err", err)
		return WrapExitError(ExitFailure, "load config", err)
	}
	if opts.Data != "" {
		cfg.Dataset.Source = opts.Data
	}
	if opts.UIDir != "" {
		cfg.Server.UIDir = opts.UIDir
	}
	level.Set(cfg.Server.SlogLevel())

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"dataset", cfg.Dataset.Source,
		"log_level", cfg.Server.LogLevel,
	)

	if watch {
		go func() {
			err := config.Watch(ctx, opts.ConfigPath, func(next *config.Config) {
				level.Set(next.Server.SlogLevel())
				slog.Info("config reloaded", "log_level", next.Server.LogLevel)
			})
			if err != nil {
				slog.Warn("config watch stopped", "err", err)
			}
		}()
	}

	s3cfg := dataset.S3Config{
		Region:          cfg.Dataset.S3.Region,
		Endpoint:        cfg.Dataset.S3.Endpoint,
		PathStyle:       cfg.Dataset.S3.PathStyle,
		AccessKeyID:     cfg.Dataset.S3.AccessKeyID(),
		SecretAccessKey: cfg.Dataset.S3.SecretAccessKey(),
	}
	ds, err := loadDataset(ctx, cfg.Dataset.Source, s3cfg)
	if err != nil {
		slog.Error("failed to load dataset", "source", cfg.Dataset.Source, "err", err)
		return err
	}
	slog.Info("dataset loaded",
		"source", ds.Source(),
		"records", ds.Len(),
		"sites", len(ds.Sites()),
		"min_payload", ds.MinPayload(),
		"max_payload", ds.MaxPayload(),
	)

	m := metrics.New()
	m.SetDatasetRecords(ds.Len())

	if err := app.Run(ctx, cfg, ds, m); err != nil {
		slog.Error("server stopped", "err", err)
		return WrapExitError(ExitFailure, "serve", err)
	}
	return nil
}

// loadServeConfig reads path. A missing file is only an error when the path
// was given explicitly; otherwise defaults apply and nothing is watched.
func loadServeConfig(path string, explicit bool) (cfg *config.Config, watch bool, err error) {
	cfg, err = config.Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		slog.Info("no config file, using defaults", "config", path)
		return config.Default(), false, nil
	}
	return nil, false, err
}
