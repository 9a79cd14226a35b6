// Authenticated HTTP client for the Forma API.
//
// Wraps net/http with bearer token injection and a single
// refresh-and-retry pass when the server answers 401.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/formahq/forma/internal/shared"
)

const defaultBaseURL = "http://localhost:8000"

// Client makes authenticated requests to the Forma API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

// NewClient creates a Client for the API at baseURL backed by the given
// token store. The HTTP client defaults to [http.DefaultClient].
func NewClient(baseURL string, httpClient *http.Client, tokens TokenStore) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs an authenticated GET request to the specified path.
func (c *Client) Get(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

// Post performs an authenticated POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, data any) (*APIResponse, error) {
	body, err := marshalBody(data)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", body)
}

// Patch performs an authenticated PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, data any) (*APIResponse, error) {
	body, err := marshalBody(data)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPatch, path, "application/json", body)
}

// Delete performs an authenticated DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return c.do(ctx, http.MethodDelete, path, "", nil)
}

// PatchMultipart performs an authenticated PATCH request with a multipart
// form body. fields holds plain form values and files maps form field names
// to local file paths.
func (c *Client) PatchMultipart(ctx context.Context, path string, fields map[string]string, files map[string]string) (*APIResponse, error) {
	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPatch, path, contentType, body)
}

func marshalBody(data any) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return body, nil
}

// buildMultipart assembles a multipart form body so it can be replayed if
// the request needs a refresh-and-retry pass.
func buildMultipart(fields map[string]string, files map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	for name, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read upload file: %w", err)
		}
		part, err := writer.CreateFormFile(name, filepath.Base(path))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", name, err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// do sends the request once, and on a 401 performs at most one refresh
// followed by a single replay. A failed refresh clears both stored tokens
// and surfaces the original 401.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) (*APIResponse, error) {
	resp, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.refresh(ctx) {
			retry, err := c.send(ctx, method, path, contentType, body)
			if err != nil {
				return nil, err
			}
			resp = retry
		} else if c.tokens != nil {
			if err := c.tokens.Clear(); err != nil {
				return nil, fmt.Errorf("failed to clear stored tokens: %w", err)
			}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, decodeAPIError(resp)
	}

	return resp, nil
}

// send performs a single request attempt with the current access token.
func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte) (*APIResponse, error) {
	apiURL := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		apiURL = c.baseURL + path
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token, err := c.tokens.AccessToken(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// refresh exchanges the stored refresh token for a new access token.
// Returns false when no refresh token exists or the exchange fails.
func (c *Client) refresh(ctx context.Context) bool {
	if c.tokens == nil {
		return false
	}
	refreshToken, err := c.tokens.RefreshToken()
	if err != nil || refreshToken == "" {
		return false
	}

	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/token/refresh/", bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Access == "" {
		return false
	}

	if err := c.tokens.SetAccessToken(out.Access); err != nil {
		return false
	}

	return true
}
