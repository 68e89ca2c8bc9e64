package regen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tagcheck/internal/diagnostic"
	"tagcheck/internal/filewalker"
	"tagcheck/internal/textutil"
)

const (
	geminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta/models"
	errorBodyRunes = 300
)

// GeminiProvider regenerates a translation from the original script through
// the Google Gemini API, listing the previous findings in the prompt.
type GeminiProvider struct {
	apiKey     string
	model      string
	language   string
	baseURL    string
	httpClient *http.Client

	// MaxRetries bounds API calls per regeneration; Backoff grows linearly
	// between them.
	MaxRetries int
	Backoff    time.Duration
}

// NewGeminiProvider creates a provider translating into language.
func NewGeminiProvider(apiKey, model, language string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:   apiKey,
		model:    model,
		language: language,
		baseURL:  geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		MaxRetries: 3,
		Backoff:    2 * time.Second,
	}
}

// WithBaseURL points the provider at another endpoint.
func (g *GeminiProvider) WithBaseURL(url string) *GeminiProvider {
	g.baseURL = strings.TrimSuffix(url, "/")
	return g
}

// --- Gemini API request/response types ---

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  *genConfig      `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata *geminiUsage      `json:"usageMetadata,omitempty"`
	Error         *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Regenerate implements Provider. It translates the original file and writes
// the result over the translated file.
func (g *GeminiProvider) Regenerate(ctx context.Context, pair filewalker.Pair, diags []diagnostic.Diagnostic) error {
	if g.apiKey == "" {
		return fmt.Errorf("gemini: no API key configured")
	}

	source, err := filewalker.ReadText(pair.Original)
	if err != nil {
		return err
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: SystemPrompt(g.language, diags)}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: source}},
			},
		},
		GenerationConfig: &genConfig{
			MaxOutputTokens: 65536,
			Temperature:     0.3,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal gemini request: %w", err)
	}

	translated, err := g.generate(ctx, bodyBytes)
	if err != nil {
		return err
	}

	if err := os.WriteFile(pair.Translated, []byte(translated+"\n"), 0644); err != nil {
		return fmt.Errorf("write translation: %w", err)
	}
	return nil
}

func (g *GeminiProvider) generate(ctx context.Context, bodyBytes []byte) (string, error) {
	var lastErr error
	retries := max(g.MaxRetries, 1)

	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * g.Backoff
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying Gemini request")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, retryable, err := g.doRequest(ctx, bodyBytes)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Don't retry on context cancellation or client errors.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !retryable {
			break
		}
	}

	return "", fmt.Errorf("gemini request failed: %w", lastErr)
}

func (g *GeminiProvider) doRequest(ctx context.Context, bodyBytes []byte) (string, bool, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("retryable error (status %d): %s", resp.StatusCode, textutil.Truncate(string(respBody), errorBodyRunes))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("API error (status %d): %s", resp.StatusCode, textutil.Truncate(string(respBody), errorBodyRunes))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", false, fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return "", false, fmt.Errorf("API error [%s]: %s", apiResp.Error.Status, apiResp.Error.Message)
	}
	if len(apiResp.Candidates) == 0 {
		return "", true, fmt.Errorf("empty response: no candidates")
	}

	var result strings.Builder
	for _, p := range apiResp.Candidates[0].Content.Parts {
		result.WriteString(p.Text)
	}

	if apiResp.UsageMetadata != nil {
		log.Debug().
			Int("prompt_tokens", apiResp.UsageMetadata.PromptTokenCount).
			Int("output_tokens", apiResp.UsageMetadata.CandidatesTokenCount).
			Msg("Regeneration complete")
	}

	return stripFence(strings.TrimSpace(result.String())), false, nil
}

// stripFence removes a markdown code fence wrapped around the whole reply.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		return s
	}
	return strings.TrimSpace(body)
}
