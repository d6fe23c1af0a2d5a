package secrets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPManager talks to an external secrets service over its JSON API
type HTTPManager struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPManager creates a secrets manager backed by the service at baseURL
func NewHTTPManager(baseURL, token string) *HTTPManager {
	return &HTTPManager{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateSecret stores the secret remotely and returns its opaque ID. The
// error never contains the secret material.
func (m *HTTPManager) CreateSecret(ctx context.Context, secret *Secret) (string, error) {
	body, err := json.Marshal(secret)
	if err != nil {
		return "", fmt.Errorf("failed to encode secret: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/v1/secrets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.token)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("%w: empty credential id", ErrUnavailable)
	}

	return result.ID, nil
}

// GeneratePassword generates the password locally; the plaintext never
// travels to the secrets service.
func (m *HTTPManager) GeneratePassword(length int) (string, error) {
	return GeneratePassword(length)
}
