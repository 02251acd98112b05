// Package llm invokes the Gemini text-understanding service to turn
// free-text notice content into fixed-schema records.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sarkari/ingest-service/internal/model"
	"sarkari/ingest-service/internal/retry"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Gemini generateContent endpoint with a bounded retry
// policy and validates the JSON payload it returns.
type Client struct {
	// BaseURL may be overridden in tests.
	BaseURL string

	apiKey    string
	modelName string
	client    *http.Client
	policy    retry.Policy
}

// NewClient constructs a Client with a per-call timeout and the given
// retry policy.
func NewClient(apiKey, modelName string, timeout time.Duration, policy retry.Policy) *Client {
	return &Client{
		BaseURL:   defaultBaseURL,
		apiKey:    apiKey,
		modelName: modelName,
		client:    &http.Client{Timeout: timeout},
		policy:    policy,
	}
}

// geminiRequest mirrors the generateContent request envelope.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse mirrors the slice of the response envelope we consume.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractStructured submits the category-specific prompt for a verified
// title and extracted body text, and returns the parsed field mapping.
//
// Transport failures and 5xx responses are retried under the client's
// policy; 4xx responses and confirmed-empty payloads terminate
// immediately, since retrying cannot fix a malformed request or a
// confirmed-empty answer. The returned extraction is untrusted: the
// caller must overwrite authoritative fields (title, sourceUrl, dates).
func (c *Client) ExtractStructured(ctx context.Context, category model.Category, title, body string) (*model.RawExtraction, error) {
	prompt, err := BuildPrompt(category, title, body)
	if err != nil {
		return nil, err
	}

	var payload string
	call := func() error {
		var callErr error
		payload, callErr = c.generate(ctx, prompt)
		return callErr
	}
	if err := c.policy.Do(ctx, call); err != nil {
		return nil, err
	}

	return parsePayload(category, payload)
}

// generate performs one generateContent call and returns the model's
// text payload.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.modelName, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &model.UpstreamError{Op: "gemini call", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.UpstreamError{Op: "gemini read", Err: err}
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", &model.UpstreamError{
			Op:  "gemini call",
			Err: fmt.Errorf("service returned %d", resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("gemini call: client error %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var envelope geminiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", &model.ContentError{Op: "gemini response", Detail: "unparseable envelope: " + err.Error()}
	}

	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return "", &model.ContentError{Op: "gemini response", Detail: "empty payload"}
	}

	return envelope.Candidates[0].Content.Parts[0].Text, nil
}

// parsePayload strips any code fences, parses the payload as a JSON
// object and validates the category's required keys.
func parsePayload(category model.Category, payload string) (*model.RawExtraction, error) {
	cleaned := StripFences(payload)
	if cleaned == "" {
		return nil, &model.ContentError{Op: "gemini payload", Detail: "empty payload"}
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &model.ContentError{Op: "gemini payload", Detail: "invalid JSON: " + err.Error()}
	}

	extraction := model.NewRawExtraction(fields, json.RawMessage(cleaned))
	for _, key := range RequiredKeys(category) {
		if _, ok := extraction.Get(key); !ok {
			return nil, &model.ContentError{
				Op:     "gemini payload",
				Detail: fmt.Sprintf("missing required key %q for category %s", key, category),
			}
		}
	}

	return extraction, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "…"
}
