package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/utils"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3
	maxQuotaWait      = 30 * time.Second
	pdfMIMEType       = "application/pdf"
)

//go:embed prompt.md
var transcriptionPrompt string

var wait = utils.WaitFor

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Transcriber sends the PDF inline to Gemini and asks for a verbatim
// transcription of the pages.
type Transcriber struct {
	models     contentModels
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewTranscriber creates a Transcriber configured for the Gemini API backend.
func NewTranscriber(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Transcriber, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Transcriber{
		models:     client.Models,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithStrategy(log, "ocr/gemini"),
	}, nil
}

func (t *Transcriber) Name() string { return "gemini" }

func (t *Transcriber) Available() bool { return t != nil && t.models != nil }

// Model returns the configured model name.
func (t *Transcriber) Model() string {
	if t == nil {
		return ""
	}
	return t.model
}

// Transcribe returns the text Gemini reads from the document. Temporary API
// failures are retried with exponential backoff.
func (t *Transcriber) Transcribe(ctx context.Context, pdf []byte) (string, error) {
	if !t.Available() {
		return "", errors.New("gemini transcriber is not initialized")
	}
	if len(pdf) == 0 {
		return "", errors.New("document must not be empty")
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			genai.NewPartFromBytes(pdf, pdfMIMEType),
			genai.NewPartFromText("Transcribe this resume."),
		},
	}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(transcriptionPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
	}

	var lastErr error
	for attempt := 1; attempt <= t.maxRetries; attempt++ {
		resp, err := t.models.GenerateContent(ctx, t.model, contents, config)
		if err == nil {
			text, err := responseText(resp)
			if err != nil {
				return "", err
			}
			t.logger.Debug("transcription received",
				zap.Int("attempt", attempt),
				zap.String("preview", utils.TruncateForLog(text, 120)),
			)
			return text, nil
		}

		lastErr = err
		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == t.maxRetries {
			break
		}

		t.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

// retryDelay decides whether err is temporary and how long to wait.
// Quota errors asking for a long pause are not retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		m := retryAfterPattern.FindStringSubmatch(apiErr.Message)
		if m == nil {
			return backoff, true
		}
		seconds, parseErr := strconv.ParseFloat(m[1], 64)
		if parseErr != nil {
			return backoff, true
		}
		hint := time.Duration(seconds * float64(time.Second))
		if hint > maxQuotaWait {
			return 0, false
		}
		return hint, true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return backoff, true
	default:
		return 0, false
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
