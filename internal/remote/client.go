// Package remote implements the HTTP client for the note store's admin
// API: authenticated JSON requests, response parsing, and failure
// classification into the apperr taxonomy.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// Store is the remote operation surface the sync engine depends on.
type Store interface {
	// CreateNote publishes a new note and returns the assigned remote id.
	CreateNote(ctx context.Context, payload models.NotePayload) (string, error)
	// UpdateNote replaces the remote note identified by id with payload.
	UpdateNote(ctx context.Context, id string, payload models.NotePayload) error
	// ListCategories fetches the category list for configuration display.
	ListCategories(ctx context.Context) ([]models.RemoteCategory, error)
}

// Client talks to the remote store. It performs no retries; retry policy
// belongs to the caller.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ Store = (*Client)(nil)

// NewClient creates a Client for the given base URL and bearer token. The
// token may be empty at construction time; requests fail with a
// ConfigError until one is set.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

// CreateNote implements Store.
func (c *Client) CreateNote(ctx context.Context, payload models.NotePayload) (string, error) {
	res, err := c.request(ctx, http.MethodPost, "/v1/admin/notes", payload)
	if err != nil {
		return "", err
	}
	id := stringID(res["id"])
	if id == "" {
		return "", &apperr.RemoteError{Status: http.StatusOK, Message: "create response carried no id"}
	}
	return id, nil
}

// stringID renders the loosely-typed id field. Servers answer with either a
// string or a number; both become the text form stored in frontmatter.
func stringID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// UpdateNote implements Store.
func (c *Client) UpdateNote(ctx context.Context, id string, payload models.NotePayload) error {
	_, err := c.request(ctx, http.MethodPut, "/v1/admin/notes/"+id, payload)
	return err
}

// ListCategories implements Store.
func (c *Client) ListCategories(ctx context.Context) ([]models.RemoteCategory, error) {
	res, err := c.request(ctx, http.MethodGet, "/v1/admin/categories", nil)
	if err != nil {
		return nil, err
	}
	// Round-trip the loosely-typed items through JSON into the typed form.
	raw, err := json.Marshal(res["items"])
	if err != nil {
		return nil, fmt.Errorf("remote: encode categories: %w", err)
	}
	var items []models.RemoteCategory
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("remote: decode categories: %w", err)
	}
	return items, nil
}

// request issues one authenticated JSON request and classifies the outcome:
// 2xx/3xx parses the body as JSON (empty body is an empty result), 4xx/5xx
// becomes a RemoteError carrying the server's message, and transport
// failures become a NetworkError naming the attempted URL.
func (c *Client) request(ctx context.Context, method, path string, body interface{}) (map[string]interface{}, error) {
	if c.token == "" {
		return nil, &apperr.ConfigError{Reason: "access token is not configured"}
	}

	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("remote: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &apperr.RemoteError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]interface{}{}, nil
	}
	// UseNumber keeps numeric ids as their exact literal digits instead of
	// a float64 rounding.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var parsed map[string]interface{}
	if err := dec.Decode(&parsed); err != nil {
		return nil, &apperr.RemoteError{Status: resp.StatusCode, Message: "response is not valid JSON"}
	}
	return parsed, nil
}

// errorMessage extracts a human-readable message from an error response:
// the JSON "message" field when present, else the raw text payload, else a
// generic "HTTP <status>".
func errorMessage(status int, body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
