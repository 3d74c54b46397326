package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPClient implements Client over the Gemini REST API.
type HTTPClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a Gemini client for the given key and model.
// An empty model selects DefaultModel.
func NewHTTPClient(apiKey, model string) *HTTPClient {
	if model == "" {
		model = DefaultModel
	}

	return &HTTPClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
}

// WithBaseURL points the client at another endpoint, e.g. a proxy or a test server.
func (c *HTTPClient) WithBaseURL(baseURL string) *HTTPClient {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}

	return c
}

// Generate sends prompt to the generateContent method.
// Returns the text of the first candidate in case of success.
func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancelFunc context.CancelFunc
		ctx, cancelFunc = context.WithTimeout(ctx, timeoutGenerate)
		defer cancelFunc()
	}

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}

	rawResp, err := c.doRequest(ctx, "generateContent", req)
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err = json.Unmarshal(rawResp, &resp); err != nil {
		return "", fmt.Errorf("failed to decode generateContent response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return sb.String(), nil
}

// doRequest calls method on the configured model.
// Returns the raw response body in case of success.
func (c *HTTPClient) doRequest(
	ctx context.Context,
	method string,
	params any,
) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:%s", c.baseURL, c.model, method)

	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to do post request for method %s: %w", method, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body for method %s: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classify(resp.StatusCode, data)
	}

	return data, nil
}

// classify maps a failed response to ErrOverloaded, ErrPermissionDenied or *APIError.
func classify(statusCode int, body []byte) error {
	var errResp errorResponse
	_ = json.Unmarshal(body, &errResp)

	apiErr := &APIError{
		StatusCode: statusCode,
		Status:     errResp.Error.Status,
		Message:    errResp.Error.Message,
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	switch {
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden,
		apiErr.Status == "PERMISSION_DENIED",
		apiErr.Status == "UNAUTHENTICATED":
		return fmt.Errorf("%w: %w", ErrPermissionDenied, apiErr)
	case statusCode == http.StatusServiceUnavailable,
		statusCode == http.StatusTooManyRequests,
		apiErr.Status == "UNAVAILABLE",
		apiErr.Status == "RESOURCE_EXHAUSTED",
		strings.Contains(strings.ToLower(apiErr.Message), "overloaded"):
		return fmt.Errorf("%w: %w", ErrOverloaded, apiErr)
	}

	return apiErr
}
