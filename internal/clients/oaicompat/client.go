// Package oaicompat provides a client for OpenAI-compatible inference and fine-tuning APIs
// (OpenAI itself, vLLM, TGI and similar servers).
package oaicompat

import (
	"context"
	"fmt"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/models"
)

// Generation modes.
const (
	ModeCompletion = "completion" // raw prompt continuation via /completions
	ModeChat       = "chat"       // single user message via /chat/completions
)

// PurposeFineTune is the file purpose accepted by fine-tuning jobs.
const PurposeFineTune = "fine-tune"

// Client wraps go-openai for generation and fine-tune submission
type Client struct {
	api    *openai.Client
	model  string
	mode   string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model used for generation
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithMode selects completion or chat generation
func WithMode(mode string) ClientOption {
	return func(c *Client) {
		if mode == ModeChat || mode == ModeCompletion {
			c.mode = mode
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the API rooted at baseURL (e.g. "http://localhost:8080/v1").
func NewClient(apiKey, baseURL string, opts ...ClientOption) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	c := &Client{
		api:    openai.NewClientWithConfig(cfg),
		mode:   ModeCompletion,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Model returns the configured generation model
func (c *Client) Model() string {
	return c.model
}

// Generate continues prompt using the configured mode
func (c *Client) Generate(ctx context.Context, prompt string, params interfaces.GenerationParams) (string, error) {
	c.logger.Debug().Str("model", c.model).Str("mode", c.mode).Int("prompt_len", len(prompt)).Msg("Generating content")

	if c.mode == ModeChat {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: float32(params.Temperature),
			TopP:        float32(params.TopP),
			MaxTokens:   params.MaxOutputTokens,
			N:           1,
		})
		if err != nil {
			return "", fmt.Errorf("failed to create chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no content generated")
		}
		return resp.Choices[0].Message.Content, nil
	}

	resp, err := c.api.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: float32(params.Temperature),
		TopP:        float32(params.TopP),
		MaxTokens:   params.MaxOutputTokens,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	return resp.Choices[0].Text, nil
}

// UploadFile uploads a JSONL corpus file for fine-tuning
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	file, err := c.api.CreateFile(ctx, openai.FileRequest{
		FileName: filepath.Base(path),
		FilePath: path,
		Purpose:  PurposeFineTune,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filepath.Base(path), err)
	}

	c.logger.Info().Str("file", filepath.Base(path)).Str("file_id", file.ID).Msg("Uploaded fine-tune file")
	return file.ID, nil
}

// CreateJob starts a fine-tuning job
func (c *Client) CreateJob(ctx context.Context, req interfaces.FineTuneRequest) (*models.FineTuneJob, error) {
	jobReq := openai.FineTuningJobRequest{
		TrainingFile:   req.TrainFileID,
		ValidationFile: req.ValidationFileID,
		Model:          req.BaseModel,
		Suffix:         req.Suffix,
	}
	if req.Epochs > 0 {
		jobReq.Hyperparameters = &openai.Hyperparameters{Epochs: req.Epochs}
	}

	job, err := c.api.CreateFineTuningJob(ctx, jobReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create fine-tuning job: %w", err)
	}

	return toJob(job), nil
}

// GetJob fetches a fine-tuning job by id
func (c *Client) GetJob(ctx context.Context, id string) (*models.FineTuneJob, error) {
	job, err := c.api.RetrieveFineTuningJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve fine-tuning job %s: %w", id, err)
	}
	return toJob(job), nil
}

func toJob(job openai.FineTuningJob) *models.FineTuneJob {
	return &models.FineTuneJob{
		ID:             job.ID,
		Status:         job.Status,
		FineTunedModel: job.FineTunedModel,
	}
}

var (
	_ interfaces.TextGenerator = (*Client)(nil)
	_ interfaces.FineTuner     = (*Client)(nil)
)
