package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

func payload() models.NotePayload {
	return models.NotePayload{
		Title:    "Hello",
		Slug:     "hello",
		Markdown: "# Hello",
		Tags:     []string{"go"},
		Status:   models.StatusDraft,
	}
}

func TestCreateNote_SendsAuthAndBody(t *testing.T) {
	var gotAuth string
	var gotBody models.NotePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/admin/notes" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"note-1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	id, err := c.CreateNote(context.Background(), payload())
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if id != "note-1" {
		t.Errorf("id = %q, want note-1", id)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody.Title != "Hello" || gotBody.Slug != "hello" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestCreateNote_NumericID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9007199254740993}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	id, err := c.CreateNote(context.Background(), payload())
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	// The exact digits survive, including values beyond float64 precision.
	if id != "9007199254740993" {
		t.Errorf("id = %q, want 9007199254740993", id)
	}
}

func TestCreateNote_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	_, err := c.CreateNote(context.Background(), payload())
	var remoteErr *apperr.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
}

func TestUpdateNote_EmptyBodyIsOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/v1/admin/notes/note-9" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	if err := c.UpdateNote(context.Background(), "note-9", payload()); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
}

func TestRequest_MissingTokenNoNetworkCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.CreateNote(context.Background(), payload())
	var cfgErr *apperr.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
	if called {
		t.Error("request must not reach the network without a token")
	}
}

func TestRequest_JSONErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.UpdateNote(context.Background(), "gone", payload())
	var remoteErr *apperr.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
	if remoteErr.Status != http.StatusNotFound || remoteErr.Message != "not found" {
		t.Errorf("got status=%d message=%q", remoteErr.Status, remoteErr.Message)
	}
}

func TestRequest_RawTextErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("oops"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.UpdateNote(context.Background(), "x", payload())
	var remoteErr *apperr.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
	if remoteErr.Message != "oops" {
		t.Errorf("message = %q, want oops", remoteErr.Message)
	}
}

func TestRequest_EmptyErrorBodyGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.UpdateNote(context.Background(), "x", payload())
	var remoteErr *apperr.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error = %v, want RemoteError", err)
	}
	if remoteErr.Message != "HTTP 502" {
		t.Errorf("message = %q, want HTTP 502", remoteErr.Message)
	}
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "secret")
	_, err := c.CreateNote(context.Background(), payload())
	var netErr *apperr.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if netErr.URL != srv.URL+"/v1/admin/notes" {
		t.Errorf("url = %q", netErr.URL)
	}
}

func TestListCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/admin/categories" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"c1","name":"Tech","slug":"tech","parentId":"root"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 1 || cats[0].ID != "c1" || cats[0].Name != "Tech" || cats[0].ParentID != "root" {
		t.Errorf("categories = %+v", cats)
	}
}
