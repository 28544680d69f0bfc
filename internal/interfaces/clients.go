// Package interfaces defines service contracts for Myntr
package interfaces

import (
	"context"

	"github.com/myntr-ai/myntr/internal/models"
)

// GenerationParams holds the sampling parameters for one generation call.
type GenerationParams struct {
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
}

// TextGenerator is an inference backend that continues a raw prompt.
type TextGenerator interface {
	// Generate returns the decoded continuation for prompt.
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)

	// Model names the model the backend serves.
	Model() string
}

// QuoteProvider fetches live quote fields for a ticker.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// DatasetClient reads question/answer rows from a hosted dataset.
type DatasetClient interface {
	// FetchQAPairs returns every row of the dataset split.
	FetchQAPairs(ctx context.Context, dataset, config, split string) ([]models.QAPair, error)
}

// FineTuner submits corpus files to a fine-tuning backend.
type FineTuner interface {
	// UploadFile uploads a local JSONL file and returns the backend file id.
	UploadFile(ctx context.Context, path string) (string, error)

	// CreateJob starts a fine-tuning job.
	CreateJob(ctx context.Context, req FineTuneRequest) (*models.FineTuneJob, error)

	// GetJob fetches the current state of a job.
	GetJob(ctx context.Context, id string) (*models.FineTuneJob, error)
}

// FineTuneRequest describes a fine-tuning job submission.
type FineTuneRequest struct {
	BaseModel        string
	TrainFileID      string
	ValidationFileID string
	Epochs           int
	Suffix           string
}
