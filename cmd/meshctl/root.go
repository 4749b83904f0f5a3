package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lumina/internal/config"
	"lumina/internal/fixtures"
	"lumina/internal/service"
	"lumina/internal/service/simulate"
)

// app is built lazily by the root command's PersistentPreRunE
type app struct {
	cfg      *config.Config
	services *service.Services
	logger   *slog.Logger
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		configFile string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "meshctl",
		Short:         "Query the Lumina knowledge mesh",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			var err error
			if configFile != "" {
				a.cfg, err = config.LoadFile(configFile)
			} else {
				a.cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			set, err := fixtures.Load()
			if err != nil {
				return fmt.Errorf("load fixtures: %w", err)
			}

			a.services, err = service.SetupServices(a.cfg, set, simulate.NewRealClock(), a.logger)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.services != nil {
				a.services.Sessions.CloseAll()
			}
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./lumina.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log service activity to stderr")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newSearchCmd(a),
		newAskCmd(a),
		newHistoryCmd(a),
		newInsightsCmd(a),
	)
	return root
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
