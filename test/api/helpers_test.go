//go:build integration

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var client = &http.Client{Timeout: 10 * time.Second}

// APIResponse represents the API response structure
type APIResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (r APIResponse) IsSuccess() bool {
	return r.Status == "success"
}

func baseURL() string {
	if u := os.Getenv("API_URL"); u != "" {
		return u + "/api/v1"
	}
	return "http://localhost:8080/api/v1"
}

func makeRequest(t *testing.T, method, path string, body interface{}, token string) (int, APIResponse, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL()+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out APIResponse
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out, raw
}

func login(t *testing.T, email, password string) string {
	t.Helper()
	code, resp, raw := makeRequest(t, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, code, string(raw))

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &tokens))
	return tokens.AccessToken
}
