// Package hfdatasets provides a client for the Hugging Face datasets-server rows API
package hfdatasets

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/models"
)

const (
	DefaultBaseURL   = "https://datasets-server.huggingface.co"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5   // requests per second
	DefaultPageSize  = 100 // server maximum
)

// Client implements the DatasetClient interface
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithToken sets the bearer token for gated datasets
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithPageSize sets the number of rows requested per page
func WithPageSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 && size <= DefaultPageSize {
			c.pageSize = size
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new datasets-server client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		pageSize: DefaultPageSize,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("datasets-server API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

type rowsResponse struct {
	Rows []struct {
		RowIdx int             `json:"row_idx"`
		Row    json.RawMessage `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().Str("url", reqURL).Msg("datasets-server request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// FetchQAPairs pages through every row of dataset/config/split.
// Rows without a question or answer are skipped.
func (c *Client) FetchQAPairs(ctx context.Context, dataset, config, split string) ([]models.QAPair, error) {
	var pairs []models.QAPair
	skipped := 0

	for offset := 0; ; {
		params := url.Values{}
		params.Set("dataset", dataset)
		params.Set("config", config)
		params.Set("split", split)
		params.Set("offset", strconv.Itoa(offset))
		params.Set("length", strconv.Itoa(c.pageSize))

		var page rowsResponse
		if err := c.get(ctx, "/rows", params, &page); err != nil {
			return nil, fmt.Errorf("fetch rows offset %d: %w", offset, err)
		}
		if len(page.Rows) == 0 {
			break
		}

		for _, r := range page.Rows {
			var pair models.QAPair
			if err := json.Unmarshal(r.Row, &pair); err != nil || pair.Question == "" || pair.Answer == "" {
				skipped++
				continue
			}
			pairs = append(pairs, pair)
		}

		offset += len(page.Rows)
		if page.NumRowsTotal > 0 && offset >= page.NumRowsTotal {
			break
		}
	}

	c.logger.Info().
		Str("dataset", dataset).
		Str("split", split).
		Int("rows", len(pairs)).
		Int("skipped", skipped).
		Msg("Fetched dataset rows")

	return pairs, nil
}

// ReadJSONL reads {"question","answer"} objects, one per line, from a local file.
func ReadJSONL(path string) ([]models.QAPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var pairs []models.QAPair
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var pair models.QAPair
		if err := json.Unmarshal([]byte(text), &pair); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		if pair.Question == "" || pair.Answer == "" {
			continue
		}
		pairs = append(pairs, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pairs, nil
}

// FileSource serves QA pairs from a local JSONL file, ignoring dataset coordinates.
type FileSource struct {
	Path string
}

// FetchQAPairs reads the whole file.
func (f FileSource) FetchQAPairs(ctx context.Context, _, _, _ string) ([]models.QAPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadJSONL(f.Path)
}

// Ensure Client and FileSource implement DatasetClient
var (
	_ interfaces.DatasetClient = (*Client)(nil)
	_ interfaces.DatasetClient = FileSource{}
)
