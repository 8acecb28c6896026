package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"publicsuffix/config"
	"publicsuffix/engine"
	"publicsuffix/parser"
	"publicsuffix/server"
	"publicsuffix/updater"
)

var (
	configPath string
	dataDir    string
)

func main() {
	root := &cobra.Command{
		Use:           "publicsuffix",
		Short:         "Public Suffix List engine and query service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	root.PersistentFlags().StringVar(&dataDir, "data", "", "Path to data directory for cached lists (overrides config)")

	root.AddCommand(serveCmd(), checkCmd(), suffixesCmd(), updateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and wires the engine and loader.
func setup() (*config.Config, *engine.Engine, *parser.Loader, *zap.SugaredLogger) {
	logger, _ := zap.NewDevelopment()
	log := logger.Sugar()

	cfgMgr := config.NewManager(configPath)
	if err := cfgMgr.Load(); err != nil {
		log.Warnw("failed to load config, using defaults", "error", err)
	}
	cfg := cfgMgr.Get()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	eng := engine.NewEngine(cfg, log)
	loader := parser.NewLoader(cfg.DataDir, log)
	return cfg, eng, loader, log
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, eng, loader, log := setup()

			// 1. Initial load
			if err := eng.ReloadRules(loader); err != nil {
				log.Warnw("initial rule load failed, serving implicit rule only", "error", err)
			}

			// 2. Background refresh
			upd := updater.NewUpdater(cfg, eng, loader, log)
			upd.Run()

			// 3. Query server
			srv := server.NewServer(cfg.Server.ListenAddr, eng, log)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalw("query server failed", "error", err)
				}
			}()

			// Wait for shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			s := <-sigChan
			log.Infow("shutting down", "signal", s)

			upd.Stop()
			return srv.Stop()
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check HOST...",
		Short: "Print the public suffix and registered domain of each host",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, loader, _ := setup()
			if err := eng.ReloadRules(loader); err != nil {
				return err
			}

			for _, host := range args {
				res, err := eng.Resolve(host)
				if err != nil {
					return fmt.Errorf("%s: %w", host, err)
				}
				domain := res.RegisteredDomain
				if domain == "" {
					domain = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\ttld=%s\tdomain=%s\n", host, res.PublicSuffix, domain)
			}
			return nil
		},
	}
}

func suffixesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suffixes",
		Short: "Dump the loaded public suffixes as fully-qualified names",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, loader, _ := setup()
			if err := eng.ReloadRules(loader); err != nil {
				return err
			}

			for _, suffix := range eng.Suffixes() {
				// Exceptions name registrable domains, not suffixes.
				if strings.HasPrefix(suffix, "!") {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), dns.Fqdn(suffix))
			}
			return nil
		},
	}
}

func updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Refresh the cached rule lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, loader, log := setup()
			if err := eng.ReloadRules(loader); err != nil {
				return err
			}
			log.Infow("rule lists refreshed", "rules", eng.Index().Len())
			return nil
		},
	}
}
