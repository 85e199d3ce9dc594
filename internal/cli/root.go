// Package cli implements the cobra command tree shared by cmd/scholartriage:
// flag parsing, config-builder wiring, and the --schedule cron loop.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/scholartriage/pipeline/internal/build"
	"github.com/scholartriage/pipeline/internal/config"
	"github.com/scholartriage/pipeline/internal/scheduler"
)

var (
	root            string
	sourcesFile     string
	criteriaFile    string
	rulesFile       string
	trackingDir     string
	userAgent       string
	timeout         time.Duration
	concurrency     int
	chunkSize       int
	maxRetries      int
	schedule        string
	showVersion     bool
)

var rootCmd = &cobra.Command{
	Use:   "scholartriage",
	Short: "Scholarship-lead discovery, classification, and triage pipeline.",
	Long: `scholartriage crawls a curated set of university, government, and
aggregator sources, extracts structured scholarship records, deduplicates
them across runs, scores them against a profile, and sorts them into
action buckets (Apply Now / Prepare / Rejected / Missed) with auditable
reasons.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println(build.FullVersion())
			return nil
		}
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		if schedule != "" {
			return runScheduled(cfg)
		}
		return runOnce(cfg)
	},
}

// Execute runs the root command; called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&root, "root", ".", "working directory containing sources.yml/criteria.yml/rules.yaml and the tracking directory")
	rootCmd.PersistentFlags().StringVar(&sourcesFile, "sources-file", "", "override path to sources.yml")
	rootCmd.PersistentFlags().StringVar(&criteriaFile, "criteria-file", "", "override path to criteria.yml")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules-file", "", "override path to rules.yaml")
	rootCmd.PersistentFlags().StringVar(&trackingDir, "tracking-dir", "", "override path to the tracking output directory")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string presented to every fetch")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request fetch timeout")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "bounded-pool concurrency for source dispatch/discovery")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "chunk size for polite, paced fetch batches")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", 0, "maximum fetch retries per URL")
	rootCmd.PersistentFlags().StringVar(&schedule, "schedule", "", "cron expression to run the pipeline on a recurring schedule instead of once")
	rootCmd.PersistentFlags().BoolVar(&showVersion, "version", false, "print version and exit")
}

// InitConfigWithError builds a config.Config from the default plus any
// flag overrides, the same WithDefault->WithXxx->Build chain the teacher's
// InitConfigWithError uses.
func InitConfigWithError() (config.Config, error) {
	builder := config.WithDefault(root)

	if sourcesFile != "" {
		builder = builder.WithSourcesFile(sourcesFile)
	}
	if criteriaFile != "" {
		builder = builder.WithCriteriaFile(criteriaFile)
	}
	if rulesFile != "" {
		builder = builder.WithRulesFile(rulesFile)
	}
	if trackingDir != "" {
		builder = builder.WithTrackingDir(trackingDir)
	}
	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if timeout > 0 {
		builder = builder.WithTimeout(timeout)
	}
	if concurrency > 0 {
		builder = builder.WithConcurrency(concurrency)
	}
	if chunkSize > 0 {
		builder = builder.WithChunkSize(chunkSize)
	}
	if maxRetries > 0 {
		builder = builder.WithMaxRetries(maxRetries)
	}
	if schedule != "" {
		builder = builder.WithSchedule(schedule)
	}

	return builder.Build()
}

func runOnce(cfg config.Config) error {
	sched, err := scheduler.New(cfg)
	if err != nil {
		return err
	}
	defer sched.Close()

	summary, err := sched.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("dispatched %d sources, %d leads total (%d new), %d candidates discovered, %d errors, took %s\n",
		summary.SourcesDispatched, summary.LeadsTotal, summary.LeadsNew, summary.CandidatesDiscovered, summary.Errors, summary.Duration)
	return nil
}

// runScheduled wires cfg.Schedule() into a robfig/cron/v3 loop, running one
// full pipeline pass per fire instead of a single exit-on-completion run.
func runScheduled(cfg config.Config) error {
	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule(), func() {
		if runErr := runOnce(cfg); runErr != nil {
			fmt.Fprintf(os.Stderr, "scheduled run failed: %s\n", runErr)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule expression %q: %w", cfg.Schedule(), err)
	}
	c.Start()
	select {}
}

// ResetFlags restores every package-level flag variable to its flag default
// (root to ".", every other flag to its zero value), used between CLI tests
// the same way the teacher's ResetFlags is.
func ResetFlags() {
	root = "."
	sourcesFile = ""
	criteriaFile = ""
	rulesFile = ""
	trackingDir = ""
	userAgent = ""
	timeout = 0
	concurrency = 0
	chunkSize = 0
	maxRetries = 0
	schedule = ""
	showVersion = false
}

// Test helper functions to set flag values from tests, mirroring the
// teacher's SetXxxForTest helpers.
func SetRootForTest(r string)        { root = r }
func SetConcurrencyForTest(n int)    { concurrency = n }
func SetScheduleForTest(expr string) { schedule = expr }
