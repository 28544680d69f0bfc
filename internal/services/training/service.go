// Package training builds the fine-tune corpus and submits it to a fine-tuning backend.
package training

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/models"
)

// Output file names inside the run directory.
const (
	TrainFile      = "train.jsonl"
	ValidationFile = "validation.jsonl"
	ManifestFile   = "manifest.json"
)

var (
	// ErrNoExamples is returned when the dataset yields no QA pairs.
	ErrNoExamples = errors.New("no training examples")

	// ErrJobFailed is returned when a polled fine-tune job ends in a non-success state.
	ErrJobFailed = errors.New("fine-tune job did not succeed")
)

// Service implements TrainingService
type Service struct {
	cfg          common.TrainingConfig
	country      string
	indicators   interfaces.IndicatorStore
	dataset      interfaces.DatasetClient
	tuner        interfaces.FineTuner
	pollInterval time.Duration
	logger       *common.Logger
	now          func() time.Time
}

// NewService creates a training pipeline.
// indicators may be nil (examples get no context); tuner may be nil (dry run only).
func NewService(cfg common.TrainingConfig, country string, indicators interfaces.IndicatorStore, dataset interfaces.DatasetClient, tuner interfaces.FineTuner, logger *common.Logger) *Service {
	return &Service{
		cfg:          cfg,
		country:      country,
		indicators:   indicators,
		dataset:      dataset,
		tuner:        tuner,
		pollInterval: cfg.GetPollInterval(),
		logger:       logger,
		now:          time.Now,
	}
}

// Run executes the pipeline and returns the written manifest.
func (s *Service) Run(ctx context.Context, opts interfaces.TrainingOptions) (*models.TrainingManifest, error) {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = s.cfg.OutputDir
	}
	dryRun := opts.DryRun || s.tuner == nil

	manifest := &models.TrainingManifest{
		RunID:           uuid.New().String()[:8],
		BaseModel:       s.cfg.BaseModel,
		Dataset:         s.datasetName(),
		Country:         s.country,
		Seed:            s.cfg.Seed,
		SpecialTokens:   models.SpecialTokens,
		Hyperparameters: s.hyperparameters(),
		TrainFile:       filepath.Join(outputDir, TrainFile),
		ValidationFile:  filepath.Join(outputDir, ValidationFile),
		DryRun:          dryRun,
		StartedAt:       s.now().UTC(),
	}
	log := &common.Logger{Logger: s.logger.With().Str("run_id", manifest.RunID).Logger()}

	contexts := s.loadContexts()
	manifest.ContextCount = len(contexts)
	log.Info().Int("contexts", len(contexts)).Str("country", s.country).Msg("Loaded market contexts")

	pairs, err := s.dataset.FetchQAPairs(ctx, s.cfg.Dataset, s.cfg.DatasetConfig, s.cfg.Split)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", manifest.Dataset, err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoExamples, manifest.Dataset)
	}
	manifest.QACount = len(pairs)

	combined := Combine(contexts, pairs, rand.New(rand.NewSource(s.cfg.Seed)))
	train, validation := Split(combined, s.cfg.ValidationFraction, rand.New(rand.NewSource(s.cfg.Seed)))

	var cutTrain, cutVal int
	train, cutTrain = Truncate(train, s.cfg.MaxExampleChars)
	validation, cutVal = Truncate(validation, s.cfg.MaxExampleChars)
	manifest.TrainCount = len(train)
	manifest.ValidationCount = len(validation)
	manifest.TruncatedCount = cutTrain + cutVal

	if err := WriteJSONL(manifest.TrainFile, train); err != nil {
		return nil, err
	}
	if err := WriteJSONL(manifest.ValidationFile, validation); err != nil {
		return nil, err
	}
	log.Info().
		Int("train", manifest.TrainCount).
		Int("validation", manifest.ValidationCount).
		Int("truncated", manifest.TruncatedCount).
		Str("dir", outputDir).
		Msg("Corpus written")

	var jobErr error
	if !dryRun {
		jobErr = s.submit(ctx, manifest, opts.Wait, log)
		if jobErr != nil && manifest.Job == nil {
			return nil, jobErr
		}
	} else {
		log.Info().Msg("Dry run, fine-tune submission skipped")
	}

	manifest.CompletedAt = s.now().UTC()
	if err := writeManifest(filepath.Join(outputDir, ManifestFile), manifest); err != nil {
		return nil, err
	}

	if jobErr != nil {
		return manifest, jobErr
	}
	return manifest, nil
}

// submit uploads the corpus, creates the job and optionally polls it to a terminal state.
// A polling failure after creation leaves manifest.Job set.
func (s *Service) submit(ctx context.Context, manifest *models.TrainingManifest, wait bool, log *common.Logger) error {
	trainID, err := s.tuner.UploadFile(ctx, manifest.TrainFile)
	if err != nil {
		return fmt.Errorf("upload %s: %w", TrainFile, err)
	}
	manifest.TrainFileID = trainID

	if manifest.ValidationCount > 0 {
		valID, err := s.tuner.UploadFile(ctx, manifest.ValidationFile)
		if err != nil {
			return fmt.Errorf("upload %s: %w", ValidationFile, err)
		}
		manifest.ValidationFileID = valID
	}

	job, err := s.tuner.CreateJob(ctx, interfaces.FineTuneRequest{
		BaseModel:        s.cfg.BaseModel,
		TrainFileID:      manifest.TrainFileID,
		ValidationFileID: manifest.ValidationFileID,
		Epochs:           s.cfg.Epochs,
		Suffix:           s.cfg.Suffix,
	})
	if err != nil {
		return fmt.Errorf("create fine-tune job: %w", err)
	}
	manifest.Job = job
	log.Info().Str("job_id", job.ID).Str("status", job.Status).Msg("Fine-tune job created")

	if !wait {
		return nil
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for !job.Terminal() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("poll fine-tune job %s: %w", job.ID, ctx.Err())
		case <-ticker.C:
		}

		next, err := s.tuner.GetJob(ctx, job.ID)
		if err != nil {
			return fmt.Errorf("poll fine-tune job %s: %w", job.ID, err)
		}
		if next.Status != job.Status {
			log.Info().Str("job_id", next.ID).Str("status", next.Status).Msg("Fine-tune job status changed")
		}
		job = next
		manifest.Job = job
	}

	if job.Status != models.JobStatusSucceeded {
		return fmt.Errorf("%w: %s %s", ErrJobFailed, job.ID, job.Status)
	}
	log.Info().Str("job_id", job.ID).Str("model", job.FineTunedModel).Msg("Fine-tune job succeeded")
	return nil
}

// loadContexts formats every complete indicator row for the configured country.
func (s *Service) loadContexts() []string {
	if s.indicators == nil {
		s.logger.Warn().Msg("No indicator table, examples will carry no context")
		return nil
	}
	rows, err := s.indicators.Rows(s.country)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read indicator rows")
		return nil
	}

	contexts := make([]string, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if !row.Complete() {
			skipped++
			continue
		}
		contexts = append(contexts, FormatContext(row))
	}
	if skipped > 0 {
		s.logger.Debug().Int("skipped", skipped).Msg("Skipped incomplete indicator rows")
	}
	return contexts
}

func (s *Service) datasetName() string {
	if s.cfg.LocalDataset != "" {
		return s.cfg.LocalDataset
	}
	return s.cfg.Dataset
}

func (s *Service) hyperparameters() models.Hyperparameters {
	return models.Hyperparameters{
		Epochs:         s.cfg.Epochs,
		BatchSize:      s.cfg.BatchSize,
		WarmupSteps:    s.cfg.WarmupSteps,
		WeightDecay:    s.cfg.WeightDecay,
		MaxLength:      s.cfg.MaxLength,
		EvalSteps:      s.cfg.EvalSteps,
		SaveSteps:      s.cfg.SaveSteps,
		SaveTotalLimit: s.cfg.SaveTotalLimit,
	}
}

// Ensure Service implements TrainingService
var _ interfaces.TrainingService = (*Service)(nil)
