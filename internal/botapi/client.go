package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the hearthd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBackend   = "127.0.0.1:8765"
	defaultUserAgent = "hearth/0.1"
	requestTimeout   = 10 * time.Second
)

// APIError is a backend-reported failure carrying the original status code
// and the message from its {"error": "..."} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// NewClient builds a Client using the provided backend host:port or URL.
func NewClient(backend string) (*Client, error) {
	base, err := parseBaseURL(backend)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// EventsURL returns the absolute URL of the backend's SSE stream.
func (c *Client) EventsURL() string {
	return c.baseURL.ResolveReference(&url.URL{Path: "/events"}).String()
}

// BaseURL returns the normalized backend base URL.
func (c *Client) BaseURL() *url.URL {
	copied := *c.baseURL
	return &copied
}

// --- memories ---

// ListMemories retrieves all memories.
func (c *Client) ListMemories(ctx context.Context) ([]Memory, error) {
	var payload []Memory
	if err := c.do(ctx, http.MethodGet, "/memories", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateMemory records a new memory and returns the backend's copy.
func (c *Client) CreateMemory(ctx context.Context, item, location string) (*Memory, error) {
	body := map[string]string{"item": item, "location": location}
	var payload Memory
	if err := c.do(ctx, http.MethodPost, "/memories", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateMemory applies a partial update and returns the confirmed record.
func (c *Client) UpdateMemory(ctx context.Context, id string, patch map[string]any) (*Memory, error) {
	var payload Memory
	if err := c.do(ctx, http.MethodPut, "/memories/"+url.PathEscape(id), nil, patch, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteMemory removes a memory by id.
func (c *Client) DeleteMemory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/memories/"+url.PathEscape(id), nil, nil, nil)
}

// --- stock ---

// ListStock retrieves the stock collection.
func (c *Client) ListStock(ctx context.Context) ([]StockItem, error) {
	var payload []StockItem
	if err := c.do(ctx, http.MethodGet, "/stock", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateStock adds a stock item and returns the backend's copy.
func (c *Client) CreateStock(ctx context.Context, item, quantity, level string) (*StockItem, error) {
	body := map[string]string{"item": item, "quantity": quantity, "stock_level": level}
	var payload StockItem
	if err := c.do(ctx, http.MethodPost, "/stock", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateStock applies a partial update and returns the confirmed record.
func (c *Client) UpdateStock(ctx context.Context, id string, patch map[string]any) (*StockItem, error) {
	var payload StockItem
	if err := c.do(ctx, http.MethodPut, "/stock/"+url.PathEscape(id), nil, patch, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteStock removes a stock item by id.
func (c *Client) DeleteStock(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/stock/"+url.PathEscape(id), nil, nil, nil)
}

// --- freezer ---

// ListFreezer retrieves freezer items, optionally filtered by search.
func (c *Client) ListFreezer(ctx context.Context, search string) ([]FreezerItem, error) {
	var values url.Values
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		values = url.Values{"search": []string{trimmed}}
	}
	var payload []FreezerItem
	if err := c.do(ctx, http.MethodGet, "/freezer", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateFreezerItem adds a freezer item. A duplicate code is rejected by the
// backend with a validation error.
func (c *Client) CreateFreezerItem(ctx context.Context, code, description string) (*FreezerItem, error) {
	body := map[string]string{"code": code, "description": description}
	var payload FreezerItem
	if err := c.do(ctx, http.MethodPost, "/freezer", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PatchFreezerItem applies a partial update keyed by code.
func (c *Client) PatchFreezerItem(ctx context.Context, code string, patch map[string]any) (*FreezerItem, error) {
	var payload FreezerItem
	if err := c.do(ctx, http.MethodPatch, "/freezer/"+url.PathEscape(code), nil, patch, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteFreezerItem removes a freezer item by code.
func (c *Client) DeleteFreezerItem(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodDelete, "/freezer/"+url.PathEscape(code), nil, nil, nil)
}

// --- todos ---

// ListTodos retrieves todos, including completed ones when asked.
func (c *Client) ListTodos(ctx context.Context, includeCompleted bool) ([]Todo, error) {
	var values url.Values
	if includeCompleted {
		values = url.Values{"include_completed": []string{"true"}}
	}
	var payload []Todo
	if err := c.do(ctx, http.MethodGet, "/todos", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateTodo adds a todo and returns the backend's copy.
func (c *Client) CreateTodo(ctx context.Context, content string) (*Todo, error) {
	body := map[string]string{"content": content}
	var payload Todo
	if err := c.do(ctx, http.MethodPost, "/todos", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PatchTodo applies a partial update and returns the confirmed record.
func (c *Client) PatchTodo(ctx context.Context, id string, patch map[string]any) (*Todo, error) {
	var payload Todo
	if err := c.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(id), nil, patch, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteTodo removes a todo by id.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil, nil)
}

// --- clients / gating ---

// ListClients retrieves the known client profiles.
func (c *Client) ListClients(ctx context.Context) ([]ClientProfile, error) {
	var payload []ClientProfile
	if err := c.do(ctx, http.MethodGet, "/clients", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SelectClient tells the backend which client profile is active.
func (c *Client) SelectClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/clients/select", nil, map[string]string{"id": id}, nil)
}

// GatingModes retrieves the available gating modes.
func (c *Client) GatingModes(ctx context.Context) ([]GatingMode, error) {
	var payload []GatingMode
	if err := c.do(ctx, http.MethodGet, "/gating/modes", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GatingStart activates the named gating mode.
func (c *Client) GatingStart(ctx context.Context, mode string) error {
	return c.do(ctx, http.MethodPost, "/gating/start", nil, map[string]string{"mode": mode}, nil)
}

// GatingStop deactivates gating.
func (c *Client) GatingStop(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/gating/stop", nil, nil, nil)
}

// --- chat ---

// OpenChatSession creates a chat session and returns its id.
func (c *Client) OpenChatSession(ctx context.Context) (*ChatSession, error) {
	var payload ChatSession
	if err := c.do(ctx, http.MethodPost, "/chat/session", nil, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CloseChatSession closes a chat session by id.
func (c *Client) CloseChatSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/chat/session/"+url.PathEscape(id), nil, nil, nil)
}

// SendChatMessage delivers a user message to the backend. The reply text may
// be empty when the backend answers asynchronously over the event stream.
func (c *Client) SendChatMessage(ctx context.Context, sessionID, text string) (*ChatReply, error) {
	body := map[string]string{"session_id": sessionID, "text": text}
	var payload ChatReply
	if err := c.do(ctx, http.MethodPost, "/chat/message", nil, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// --- version ---

// Version retrieves the backend's version information.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	var payload VersionInfo
	if err := c.do(ctx, http.MethodGet, "/version", nil, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// --- plumbing ---

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}

	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}

func parseBaseURL(backend string) (*url.URL, error) {
	trimmed := strings.TrimSpace(backend)
	if trimmed == "" {
		trimmed = defaultBackend
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend %q: %w", backend, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
