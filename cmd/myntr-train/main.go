// Command myntr-train builds the fine-tune corpus and submits it to the configured fine-tuning backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/myntr-ai/myntr/internal/app"
	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
)

type options struct {
	configPath string
	outputDir  string
	seed       int64
	seedSet    bool
	dryRun     bool
	wait       bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("myntr-train", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "path to myntr.toml")
	fs.StringVar(&opts.outputDir, "output", "", "output directory (overrides training.output_dir)")
	fs.Int64Var(&opts.seed, "seed", 0, "random seed for pairing and split (overrides training.seed)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "write the corpus and manifest without submitting a job")
	fs.BoolVar(&opts.wait, "wait", false, "poll the fine-tune job until it finishes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seedSet = true
		}
	})
	return opts, nil
}

func run(ctx context.Context, opts *options) error {
	config, logger, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.seedSet {
		config.Training.Seed = opts.seed
	}
	if opts.outputDir != "" {
		config.Training.OutputDir = opts.outputDir
	}

	common.PrintBanner(config, logger, "train")

	manifest, err := app.NewTrainingService(config, logger).Run(ctx, interfaces.TrainingOptions{
		OutputDir: config.Training.OutputDir,
		DryRun:    opts.dryRun,
		Wait:      opts.wait,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Training pipeline failed")
		return err
	}

	event := logger.Info().
		Str("run_id", manifest.RunID).
		Int("train", manifest.TrainCount).
		Int("validation", manifest.ValidationCount).
		Bool("dry_run", manifest.DryRun)
	if manifest.Job != nil {
		event = event.Str("job_id", manifest.Job.ID).Str("status", manifest.Job.Status)
	}
	event.Msg("Training pipeline complete")
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "myntr-train: %v\n", err)
		stop()
		os.Exit(1)
	}
}
