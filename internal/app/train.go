package app

import (
	"github.com/myntr-ai/myntr/internal/clients/hfdatasets"
	"github.com/myntr-ai/myntr/internal/clients/oaicompat"
	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/services/training"
)

// NewTrainingService wires the fine-tune corpus pipeline.
// Without a fine-tune API key the service only writes the corpus and manifest.
func NewTrainingService(config *common.Config, logger *common.Logger) *training.Service {
	var dataset interfaces.DatasetClient
	if config.Training.LocalDataset != "" {
		dataset = hfdatasets.FileSource{Path: config.Training.LocalDataset}
	} else {
		hf := config.Clients.HFDatasets
		dataset = hfdatasets.NewClient(
			hfdatasets.WithBaseURL(hf.BaseURL),
			hfdatasets.WithToken(hf.Token),
			hfdatasets.WithRateLimit(hf.RateLimit),
			hfdatasets.WithPageSize(hf.PageSize),
			hfdatasets.WithTimeout(hf.GetTimeout()),
			hfdatasets.WithLogger(logger),
		)
	}

	var tuner interfaces.FineTuner
	if ft := config.Training.FineTune; ft.APIKey != "" {
		tuner = oaicompat.NewClient(ft.APIKey, ft.BaseURL, oaicompat.WithLogger(logger))
	} else {
		logger.Warn().Msg("Fine-tune API key not configured - dry run only")
	}

	return training.NewService(
		config.Training,
		config.Context.Country,
		loadIndicators(config.Storage.Indicators.Path, logger),
		dataset,
		tuner,
		logger,
	)
}
