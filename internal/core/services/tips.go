// internal/core/services/tips.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

const (
	tipPromptTemplate = `Generate a short, engaging usage tip or sustainability fact about "%s" for a university reuse hub. Focus on responsible consumption and environmental benefits. Keep it concise, around 1-2 sentences.`

	tipMaxAttempts = 3
	tipBaseDelay   = 1 * time.Second
)

// TipServiceConfig configures the upstream text generation API.
type TipServiceConfig struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// TipService generates usage tips and sustainability facts for items by
// calling an external text generation API. Rate limit responses are
// retried with exponential backoff; any other failure is surfaced
// immediately since retrying would not help.
type TipService struct {
	config TipServiceConfig
	client *http.Client
	logger *slog.Logger

	// sleep is swapped out in tests to keep retries instant.
	sleep func(ctx context.Context, d time.Duration) error
}

// Statically assert that *TipService implements the TipService interface.
var _ ports.TipService = (*TipService)(nil)

// NewTipService creates a new tip service
func NewTipService(config TipServiceConfig, logger *slog.Logger) *TipService {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &TipService{
		config: config,
		client: &http.Client{Timeout: timeout},
		logger: logger.With(slog.String("service", "tips")),
		sleep:  sleepCtx,
	}
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateTip produces a short tip or fact about the named item. Only
// rate limiting is retried: up to three attempts with the delay doubling
// from one second. Exhausting the budget returns
// domain.ErrTipRetriesExhausted; every other failure returns
// domain.ErrTipUnavailable.
func (s *TipService) GenerateTip(ctx context.Context, itemName string) (string, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return "", fmt.Errorf("item name is required: %w", domain.ErrTipUnavailable)
	}

	prompt := fmt.Sprintf(tipPromptTemplate, itemName)

	delay := tipBaseDelay
	for attempt := 1; attempt <= tipMaxAttempts; attempt++ {
		tip, retryable, err := s.callOnce(ctx, prompt)
		if err == nil {
			s.logger.InfoContext(ctx, "generated tip",
				slog.String("item_name", itemName),
				slog.Int("attempt", attempt))
			return tip, nil
		}

		if !retryable {
			s.logger.WarnContext(ctx, "tip generation failed",
				slog.String("item_name", itemName),
				slog.Any("error", err))
			return "", fmt.Errorf("%w: %v", domain.ErrTipUnavailable, err)
		}

		s.logger.WarnContext(ctx, "tip generation rate limited",
			slog.String("item_name", itemName),
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay))

		if attempt == tipMaxAttempts {
			break
		}
		if err := s.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrTipUnavailable, err)
		}
		delay *= 2
	}

	return "", domain.ErrTipRetriesExhausted
}

// callOnce performs a single generation request. retryable is true only
// for HTTP 429.
func (s *TipService) callOnce(ctx context.Context, prompt string) (tip string, retryable bool, err error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []generateContent{{
			Role:  "user",
			Parts: []generatePart{{Text: prompt}},
		}},
	})
	if err != nil {
		return "", false, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(s.config.Endpoint, "/"), s.config.Model, s.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, fmt.Errorf("rate limited (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", false, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("response carried no candidates")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", false, fmt.Errorf("response carried empty text")
	}

	return text, false, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
