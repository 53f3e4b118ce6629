package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valdisz/PyToJs/pkg/server"
	"github.com/valdisz/PyToJs/pkg/transpile"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.DefaultConfig()
			cfg.Addr = a.cfg.Server.Addr
			cfg.RateLimit = a.cfg.Server.RateLimit
			cfg.Burst = a.cfg.Server.Burst
			if addr != "" {
				cfg.Addr = addr
			}

			opts := transpile.Options{
				Translate:      a.cfg.TranslateOptions(),
				ValidateOutput: a.cfg.Translator.ValidateOutput,
				IncludePrelude: a.cfg.Translator.IncludePrelude,
				LogDiagnostics: true,
				Cache:          a.cache,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", cfg.Addr)
			return server.New(cfg, transpile.New(opts)).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
