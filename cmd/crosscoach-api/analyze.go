package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katherineChen0/crosscoach/backend/internal/config"
	"github.com/katherineChen0/crosscoach/backend/internal/logger"
	"github.com/katherineChen0/crosscoach/backend/internal/repository"
	"github.com/katherineChen0/crosscoach/backend/internal/service"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the correlation analysis batch",
	Long: `Recompute correlation insights from stored log points.

Runs for a single user with --user, or for every known user with --all.
The --weekly flag narrows the window to the trailing 7 days with a
relaxed overlap minimum, matching the scheduled weekly batch.`,
	RunE: runAnalyze,
}

var (
	analyzeUser   string
	analyzeAll    bool
	analyzeWeekly bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeUser, "user", "", "Analyze a single user by ID")
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "Analyze every known user")
	analyzeCmd.Flags().BoolVar(&analyzeWeekly, "weekly", false, "Use the 7-day weekly window")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeUser == "" && !analyzeAll {
		return fmt.Errorf("either --user or --all is required")
	}
	if analyzeUser != "" && analyzeAll {
		return fmt.Errorf("--user and --all are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.SetDefault(logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}))

	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	logRepo := repository.NewLogPointRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	userRepo := repository.NewUserRepository(db)
	analysisService := service.NewAnalysisService(logRepo, insightRepo, userRepo)

	opts := service.OptionsFromConfig(cfg.Analysis)
	if analyzeWeekly {
		opts = opts.Weekly()
	}

	ctx := cmd.Context()

	if analyzeAll {
		return analysisService.RunForAllUsers(ctx, opts)
	}

	report, err := analysisService.RunForUser(ctx, analyzeUser, opts)
	if err != nil {
		return fmt.Errorf("analysis failed for user %s: %w", analyzeUser, err)
	}

	fmt.Printf("Analyzed %d log points across %d metrics (%d pairs tested)\n",
		report.TotalPoints, report.TotalMetrics, report.PairsTested)
	fmt.Printf("Stored %d insights (%d positive, %d negative)\n",
		len(report.Insights), report.PositiveCount, report.NegativeCount)
	for _, insight := range report.Insights {
		fmt.Printf("  - %s\n", insight.Description)
	}

	return nil
}
