package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/interview-sim/backend/internal/app"
	"github.com/zhouzirui/interview-sim/backend/internal/config"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel    string
		assumeYes   bool
		scenarioKey string
	)

	root := &cobra.Command{
		Use:   "simctl",
		Short: "Practice a client interview from the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			zerolog.SetGlobalLevel(lvl)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !isatty.IsTerminal(os.Stderr.Fd())})
			_ = godotenv.Load()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := build(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			interactive := isatty.IsTerminal(os.Stdin.Fd())
			confirmer := newConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), interactive, assumeYes)
			r := newREPL(application.Simulations, application.Scenarios, cmd.InOrStdin(), cmd.OutOrStdout(), confirmer)
			return r.run(ctx, scenario.Key(scenarioKey))
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.Flags().BoolVarP(&assumeYes, "yes", "y", false, "confirm remote session recovery without asking")
	root.Flags().StringVarP(&scenarioKey, "scenario", "s", "", "start this scenario right away")

	root.AddCommand(newScenariosCmd())
	return root
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the available interview scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store := scenario.NewMemoryStore(scenario.Seed())
			if cfg.Session.ScenariosFile != "" {
				items, err := scenario.LoadFile(cfg.Session.ScenariosFile)
				if err != nil {
					return err
				}
				store = scenario.NewMemoryStore(items)
			}
			printScenarios(cmd.OutOrStdout(), store.List())
			return nil
		},
	}
}

func build(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	application, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize services: %w", err)
	}
	return application, nil
}
