package interfaces

import (
	"context"

	"github.com/myntr-ai/myntr/internal/models"
)

// AdviceService answers financial questions.
type AdviceService interface {
	// Analyze never fails: any internal failure degrades to a fallback advice.
	Analyze(ctx context.Context, query models.FinancialQuery) *models.FinancialAdvice
}

// MarketService serves live quotes.
type MarketService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// TrainingService runs the corpus build and fine-tune submission pipeline.
type TrainingService interface {
	Run(ctx context.Context, opts TrainingOptions) (*models.TrainingManifest, error)
}

// TrainingOptions overrides pipeline behavior for a single run.
type TrainingOptions struct {
	OutputDir string
	DryRun    bool
	Wait      bool // poll the fine-tune job until it reaches a terminal state
}
