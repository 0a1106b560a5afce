package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prepmate/prepmate-api/internal/config"
	"github.com/prepmate/prepmate-api/internal/generation"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"
)

// extractPrompt asks the model to transcribe an image.
const extractPrompt = "Extract all text from this image exactly as written, " +
	"including equations and answer options. Return only the extracted text."

// Generator talks to the Gemini API.
type Generator struct {
	client     *genai.Client
	model      string
	maxRetries int
	retryBase  time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ generation.Generator     = (*Generator)(nil)
	_ generation.TextExtractor = (*Generator)(nil)
)

// Option customizes a Generator.
type Option func(*options)

type options struct {
	httpClient *http.Client
	baseURL    string
	retryBase  time.Duration
}

// WithHTTPClient sets the client used for API calls and image downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithBaseURL overrides the Gemini API endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithRetryBase overrides the first backoff delay taken from the config.
func WithRetryBase(d time.Duration) Option {
	return func(o *options) { o.retryBase = d }
}

// NewGenerator creates a Generator from cfg.
func NewGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger, opts ...Option) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: max retries cannot be negative", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := options{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		retryBase:  time.Duration(max(cfg.RetryDelaySeconds, 1)) * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if o.baseURL != "" {
		clientConfig.HTTPOptions.BaseURL = o.baseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		client:     client,
		model:      cfg.ModelName,
		maxRetries: cfg.MaxRetries,
		retryBase:  o.retryBase,
		httpClient: o.httpClient,
		logger:     logger.With(slog.String("component", "gemini_generator")),
	}, nil
}

// Generate sends a text prompt and returns the model's text reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", generation.ErrGenerationFailed)
	}
	return g.generate(ctx, genai.Text(prompt))
}

// ExtractText downloads the image at imageURL and asks the model to
// transcribe it.
func (g *Generator) ExtractText(ctx context.Context, imageURL string) (string, error) {
	data, mimeType, err := fetchImage(ctx, g.httpClient, imageURL)
	if err != nil {
		logger.FromContextOrDefault(ctx, g.logger).Warn("failed to fetch image",
			slog.String("error", err.Error()))
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(extractPrompt),
		}, genai.RoleUser),
	}
	return g.generate(ctx, contents)
}

func (g *Generator) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	backoff := retry.WithMaxRetries(uint64(g.maxRetries),
		retry.WithJitterPercent(50, retry.NewExponential(g.retryBase)))

	attempt := 0
	text, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (string, error) {
		attempt++
		log.Debug("calling Gemini API",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", g.maxRetries+1))

		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
		if err != nil {
			if isTransient(err) {
				log.Warn("transient Gemini API error",
					slog.Int("attempt", attempt),
					slog.String("error", err.Error()))
				return "", retry.RetryableError(fmt.Errorf("%w: %v", generation.ErrTransientFailure, err))
			}
			return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
		return responseText(resp)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, generation.ErrTransientFailure) {
			err = fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctxErr)
		}
		log.Error("Gemini API call failed",
			slog.Int("attempts", attempt),
			slog.String("error", err.Error()))
		return "", err
	}

	log.Debug("Gemini API call succeeded",
		slog.Int("attempts", attempt),
		slog.Int("response_length", len(text)))
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", generation.ErrContentBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return text, nil
}

// isTransient reports whether a failed API call is worth retrying.
func isTransient(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	// Anything that is not an API error is a transport failure.
	return true
}
