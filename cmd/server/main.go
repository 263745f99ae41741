// Command server runs the snippets REST service.
//
//	snippets serve --port 8080 --prefix /snippets --db-url postgres://...
//
// Running the binary without a subcommand is the same as "serve". Flags win
// over environment variables, which win over a .env file in the working
// directory, which wins over the built-in defaults.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sakif/snippets/internal/config"
	"github.com/sakif/snippets/internal/connwatch"
	"github.com/sakif/snippets/internal/server"
	"github.com/sakif/snippets/internal/store"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:           "snippets",
		Short:         "CRUD REST service for code snippets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v)
		},
	}
	bindFlags(root, v)

	root.AddCommand(newServeCommand(v))
	return root
}

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v)
		},
	}
	return cmd
}

// bindFlags registers persistent flags so both the root command and serve
// accept them.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.Int("port", config.DefaultPort, "HTTP listen port")
	flags.String("prefix", config.DefaultPrefix, "path prefix for the snippet routes")
	flags.String("db-url", config.DefaultDatabaseURL, "database URL (postgres://, sqlite: or :memory:)")
	flags.String("ssl", "false", `use TLS for the database connection ("true" or "1")`)
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "text", "text or json")

	for key, name := range map[string]string{
		config.KeyPort:        "port",
		config.KeyPrefix:      "prefix",
		config.KeyDatabaseURL: "db-url",
		config.KeySSL:         "ssl",
		config.KeyLogLevel:    "log-level",
		config.KeyLogFormat:   "log-format",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func serve(ctx context.Context, v *viper.Viper) error {
	config.LoadDotEnv()

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return err
	}

	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	// Failing to connect at startup is fatal; later outages are the watcher's job.
	st, err := store.Open(ctx, cfg.DatabaseURL, cfg.SSL, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		return err
	}
	logger.Info("connected to database")

	watcher := connwatch.New(st, cfg.HealthInterval, connwatch.NewExponentialBackoff(cfg.MaxRetries), logger)

	srv := server.New(server.Config{Port: cfg.Port, Prefix: cfg.Prefix}, st, watcher, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
