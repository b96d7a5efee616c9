package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/dafibh/fortuna/fortuna-coach/internal/engine"
	"github.com/dafibh/fortuna/fortuna-coach/internal/repository/cache"
	"github.com/dafibh/fortuna/fortuna-coach/internal/repository/marketfeed"
	"github.com/dafibh/fortuna/fortuna-coach/internal/repository/sqlite"
	"github.com/dafibh/fortuna/fortuna-coach/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// commandTimeout bounds history and market feed I/O per command
const commandTimeout = 30 * time.Second

type rootOptions struct {
	dbPath         string
	classifierFile string
	ratesURL       string
	verbose        bool
}

// NewRootCommand builds the coach command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "coach",
		Short: "Personal finance coach",
		Long:  "Reconcile a monthly allocation, compare debt payoff strategies and track progress month to month.",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level)
		},
		SilenceUsage: true,
	}

	defaultDB, err := sqlite.DefaultPath()
	if err != nil {
		defaultDB = "fortuna-coach.db"
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", defaultDB, "Snapshot history database")
	root.PersistentFlags().StringVar(&opts.classifierFile, "classifier", os.Getenv("CLASSIFIER_FILE"), "TOML file with expense scaling keywords")
	root.PersistentFlags().StringVar(&opts.ratesURL, "rates-url", os.Getenv("MARKET_RATES_URL"), "Market rate JSON feed")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(
		newPlanCommand(opts),
		newSimulateCommand(opts),
		newHistoryCommand(opts),
	)
	return root
}

// Execute runs the coach CLI
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// session holds what a command needs to talk to the coach
type session struct {
	coach   *service.CoachService
	reports *service.ReportService
	history *sqlite.SnapshotRepository
}

func (s *session) Close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close history database")
		}
	}
}

// openSession wires the coach against local history. withHistory=false skips the database.
func openSession(opts *rootOptions, withHistory bool) (*session, error) {
	classifier := engine.DefaultClassifier()
	if opts.classifierFile != "" {
		c, err := engine.LoadClassifier(opts.classifierFile)
		if err != nil {
			return nil, err
		}
		classifier = c
	}

	var provider domain.RateProvider
	if opts.ratesURL != "" {
		feed, err := marketfeed.NewHTTPProvider(opts.ratesURL)
		if err != nil {
			return nil, err
		}
		provider = feed
	}
	rates := service.NewMarketRateService(cache.NewMemoryRateCache(), provider, 0)

	s := &session{reports: service.NewReportService(nil, 0)}
	var snapshots domain.SnapshotRepository
	if withHistory {
		repo, err := sqlite.Open(opts.dbPath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", opts.dbPath).Msg("Opened history database")
		s.history = repo
		snapshots = repo
	}

	s.coach = service.NewCoachService(classifier, snapshots, rates, service.NewAdviceService())
	return s, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, commandTimeout)
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
