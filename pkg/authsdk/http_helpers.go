package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// jsonBody encodes v as a request body. A nil v yields no body.
func jsonBody(v any) (io.Reader, map[string]string, error) {
	if v == nil {
		return nil, nil, nil
	}

	buf, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(buf), map[string]string{"Content-Type": "application/json"}, nil
}

// doRequest performs an HTTP request with the SDKClient's HTTP client.
// This is for unauthenticated requests (no Authorization header).
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set custom headers
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// postJSON sends payload as JSON and decodes the expected answer into target.
func (c *SDKClient) postJSON(ctx context.Context, path string, payload, target any, expectedStatus int) error {
	body, headers, err := jsonBody(payload)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, body, headers)
	if err != nil {
		return err
	}

	return decodeJSON(resp, target, expectedStatus)
}

// doAuthRequest performs an authenticated HTTP request using the session's
// access token, refreshing it first if it is about to expire.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	payload any,
) (*http.Response, error) {
	// Get a valid access token (auto-refresh if expired)
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	body, headers, err := jsonBody(payload)
	if err != nil {
		return nil, err
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set Authorization header
	req.Header.Set("Authorization", "Bearer "+token)

	// Set additional headers
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	// Execute request
	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// decodeJSON decodes a JSON response into the target interface.
// Returns an *APIError if the response status is not expectedStatus.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	// Read body once for both error parsing and success decoding
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}

	// Decode successful response
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
