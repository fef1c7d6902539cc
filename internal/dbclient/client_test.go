package dbclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cstortz/monorepo-trading-bot/internal/model"
)

// TestPrepared tests the prepared-statement request/response cycle.
func TestPrepared(t *testing.T) {
	t.Run("select sends sql and positional parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %q, want POST", r.Method)
			}
			if r.URL.Path != "/crud/prepared/select" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/crud/prepared/select")
			}
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
			}

			var req preparedRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if !strings.Contains(req.SQL, "SELECT") {
				t.Errorf("sql = %q, want SELECT statement", req.SQL)
			}
			if req.Parameters["1"] != "BTC/USD" {
				t.Errorf(`parameters["1"] = %v, want "BTC/USD"`, req.Parameters["1"])
			}
			if req.Parameters["2"] != float64(10) {
				t.Errorf(`parameters["2"] = %v, want 10`, req.Parameters["2"])
			}

			json.NewEncoder(w).Encode(QueryResult{
				Success: true,
				Data:    []map[string]any{{"symbol": "BTC/USD"}},
			})
		}))
		defer server.Close()

		c := NewClient(server.URL)
		result, err := c.Select(context.Background(), "SELECT * FROM symbols WHERE symbol = $1 LIMIT $2", "BTC/USD", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Rows()) != 1 {
			t.Errorf("rows = %d, want 1", len(result.Rows()))
		}
	})

	t.Run("insert hits insert endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/crud/prepared/insert" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/crud/prepared/insert")
			}
			json.NewEncoder(w).Encode(QueryResult{Success: true})
		}))
		defer server.Close()

		c := NewClient(server.URL)
		if _, err := c.Insert(context.Background(), "INSERT INTO t VALUES ($1)", 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("http error is upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`boom`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.Select(context.Background(), "SELECT 1")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !model.IsUpstream(err) {
			t.Errorf("expected UpstreamError, got %T: %v", err, err)
		}
	})

	t.Run("success false is upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(QueryResult{Success: false, Error: "relation does not exist"})
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.Select(context.Background(), "SELECT 1")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "relation does not exist") {
			t.Errorf("error should carry service message, got %v", err)
		}
	})

	t.Run("unreachable service is upstream error", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1")
		_, err := c.Select(context.Background(), "SELECT 1")
		if !model.IsUpstream(err) {
			t.Errorf("expected UpstreamError, got %T: %v", err, err)
		}
	})
}

// TestHealth tests the health endpoint check.
func TestHealth(t *testing.T) {
	t.Run("healthy service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/admin/health" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/admin/health")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		if err := c.Health(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-200 is upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL)
		err := c.Health(context.Background())
		if !model.IsUpstream(err) {
			t.Errorf("expected UpstreamError, got %T: %v", err, err)
		}
	})

	t.Run("unreachable service is upstream error", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1")
		err := c.Health(context.Background())
		if !model.IsUpstream(err) {
			t.Errorf("expected UpstreamError, got %T: %v", err, err)
		}
	})
}

// TestPositional tests parameter map construction.
func TestPositional(t *testing.T) {
	m := positional([]any{"a", 2, nil})
	if len(m) != 3 {
		t.Fatalf("len = %d, want 3", len(m))
	}
	if m["1"] != "a" {
		t.Errorf(`m["1"] = %v, want "a"`, m["1"])
	}
	if m["2"] != 2 {
		t.Errorf(`m["2"] = %v, want 2`, m["2"])
	}
	if m["3"] != nil {
		t.Errorf(`m["3"] = %v, want nil`, m["3"])
	}
}
