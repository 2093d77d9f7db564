package bright

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewStripsTrailingSlash(t *testing.T) {
	client, err := New("http://localhost:3000/")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if client.BaseURL() != "http://localhost:3000" {
		t.Fatalf("expected trailing slash stripped, got %q", client.BaseURL())
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected an error for empty base URL")
	}
}

func TestDoInjectsDefaultHeaders(t *testing.T) {
	var gotAuth, gotContentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}, WithAPIKey("secret"))

	if err := client.do(context.Background(), http.MethodGet, "/indexes", nil, nil, nil, nil); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected JSON content type, got %q", gotContentType)
	}
}

func TestDoOmitsBearerWithoutAPIKey(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	if err := client.do(context.Background(), http.MethodGet, "/indexes", nil, nil, nil, nil); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestDoCallerHeadersWin(t *testing.T) {
	var gotContentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	})

	header := http.Header{}
	header.Set("Content-Type", "application/msgpack")

	if err := client.do(context.Background(), http.MethodPost, "/indexes/x/documents", nil, header, strings.NewReader("x"), nil); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotContentType != "application/msgpack" {
		t.Fatalf("expected caller content type to win, got %q", gotContentType)
	}
}

func TestDoNoContentSkipsDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out SearchResponse
	if err := client.do(context.Background(), http.MethodDelete, "/indexes/x", nil, nil, nil, &out); err != nil {
		t.Fatalf("expected no error on 204, got %v", err)
	}
	if out.TotalHits != 0 || out.Hits != nil {
		t.Fatalf("expected untouched output value, got %+v", out)
	}
}

func TestDoClassifiesErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"index not found","code":"INDEX_NOT_FOUND"}`))
	})

	err := client.do(context.Background(), http.MethodGet, "/indexes/x", nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	be, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if be.Code != ErrorCodeIndexNotFound || !be.IsNotFound() {
		t.Fatalf("unexpected classification: %+v", be)
	}
	if be.Message != "index not found" {
		t.Fatalf("expected message from envelope, got %q", be.Message)
	}
}

func TestDoDowngradesMalformedErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("the proxy ate the body"))
	})

	err := client.do(context.Background(), http.MethodGet, "/indexes", nil, nil, nil, nil)
	be, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if be.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("expected status text message, got %q", be.Message)
	}
	if !be.IsInternal() {
		t.Fatalf("expected internal category, got %s", be.Category)
	}
}

func TestDoEmptyErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.do(context.Background(), http.MethodGet, "/indexes", nil, nil, nil, nil)
	be, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !be.IsCluster() || be.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected classification: %+v", be)
	}
}

func TestDoDecodesSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"movies","primaryKey":"id"}`))
	})

	var config IndexConfig
	if err := client.do(context.Background(), http.MethodGet, "/indexes/movies", nil, nil, nil, &config); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if config.ID != "movies" || config.PrimaryKey != "id" {
		t.Fatalf("unexpected config: %+v", config)
	}
}
