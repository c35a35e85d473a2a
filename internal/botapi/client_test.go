package botapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultBackend {
		t.Fatalf("host = %q, want %q", u.Host, defaultBackend)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotFreezerQuery url.Values
	var gotTodoQuery url.Values
	var gotPatchBody map[string]any
	var gotPatchPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/memories":
			_ = json.NewEncoder(w).Encode([]Memory{{ID: "m1", Item: "keys", Location: "bowl"}})
		case r.Method == http.MethodGet && r.URL.Path == "/freezer":
			gotFreezerQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode([]FreezerItem{{Code: "ABC", Description: "beef stew"}})
		case r.Method == http.MethodGet && r.URL.Path == "/todos":
			gotTodoQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode([]Todo{{ID: "t1", Content: "water plants"}})
		case r.Method == http.MethodPatch && r.URL.Path == "/todos/t 1":
			gotPatchPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotPatchBody)
			_ = json.NewEncoder(w).Encode(Todo{ID: "t 1", Content: "water plants", Completed: true})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	memories, err := c.ListMemories(ctx)
	if err != nil {
		t.Fatalf("ListMemories returned error: %v", err)
	}
	if len(memories) != 1 || memories[0].Item != "keys" {
		t.Fatalf("ListMemories payload = %#v, want one keys memory", memories)
	}

	if _, err := c.ListFreezer(ctx, "stew"); err != nil {
		t.Fatalf("ListFreezer returned error: %v", err)
	}
	if gotFreezerQuery.Get("search") != "stew" {
		t.Fatalf("freezer query = %v, want search=stew", gotFreezerQuery)
	}

	if _, err := c.ListTodos(ctx, true); err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if gotTodoQuery.Get("include_completed") != "true" {
		t.Fatalf("todo query = %v, want include_completed=true", gotTodoQuery)
	}

	// Path params are escaped before forwarding.
	updated, err := c.PatchTodo(ctx, "t 1", map[string]any{"completed": true})
	if err != nil {
		t.Fatalf("PatchTodo returned error: %v", err)
	}
	if gotPatchPath != "/todos/t 1" {
		t.Fatalf("patch path = %q, want /todos/t 1", gotPatchPath)
	}
	if done, ok := gotPatchBody["completed"].(bool); !ok || !done {
		t.Fatalf("patch body = %#v, want completed=true", gotPatchBody)
	}
	if !updated.Completed {
		t.Fatalf("updated todo = %#v, want completed", updated)
	}
}

func TestClient_DecodesBackendError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "code ABC already exists"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.CreateFreezerItem(context.Background(), "ABC", "chili")
	if err == nil {
		t.Fatal("CreateFreezerItem succeeded, want conflict error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v (%T), want *APIError", err, err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Fatalf("Status = %d, want %d", apiErr.Status, http.StatusConflict)
	}
	if apiErr.Message != "code ABC already exists" {
		t.Fatalf("Message = %q, want backend message", apiErr.Message)
	}
}

func TestClient_EventsURL(t *testing.T) {
	c, err := NewClient("hearthd.local:8765")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.EventsURL(); got != "http://hearthd.local:8765/events" {
		t.Fatalf("EventsURL = %q", got)
	}
}
