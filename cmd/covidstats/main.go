package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"covidstats/api"
	analyticsdomain "covidstats/internal/analytics/domain"
	"covidstats/internal/bootstrap"
	"covidstats/internal/config"
	exportdomain "covidstats/internal/export/domain"
	sharedinfra "covidstats/internal/shared/infrastructure"
)

var (
	// Global flags
	envFile  string
	logLevel string

	// report flags
	format  string
	outPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "covidstats",
	Short: "Rapports COVID-19: décès, infections et vaccinations",
	Long: `covidstats charge les tables cas/décès et vaccinations (CSV ou PostgreSQL)
puis calcule les vues du rapport: décès par pays et par continent, taux
d'infection et de mortalité, cumuls glissants de vaccination.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger, err = sharedinfra.NewLogger(cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Liste les vues disponibles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.New(cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		for _, name := range app.Views.Views() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [view]",
	Short: "Calcule une vue et l'écrit en CSV, JSON ou Parquet",
	Example: `  covidstats report deaths_by_country
  covidstats report vaccinations_by_continent --format parquet --out vacc.parquet`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Démarre l'API HTTP en lecture seule",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "fichier d'environnement")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "niveau de log (debug, info, warn, error)")

	reportCmd.Flags().StringVarP(&format, "format", "f", "csv", "format de sortie (csv, json, parquet)")
	reportCmd.Flags().StringVarP(&outPath, "out", "o", "", "fichier de sortie (stdout par défaut)")

	rootCmd.AddCommand(viewsCmd, reportCmd, serveCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	exportFormat, err := exportdomain.ParseExportFormat(format)
	if err != nil {
		return err
	}
	job, err := exportdomain.NewExportJob(analyticsdomain.ViewName(args[0]), exportFormat)
	if err != nil {
		return err
	}

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.Reload(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := app.Exports.Export(ctx, job, out); err != nil {
		return err
	}
	if outPath != "" {
		logger.Info("report written", zap.String("path", outPath))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.Reload(ctx); err != nil {
		return err
	}
	handlers := api.NewHandlers(app.Store, app.Views, app.Exports, logger)
	return api.Serve(ctx, cfg.HTTPAddr, handlers.Routes(), logger)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
