package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fortify-solutions/compliance-hub/internal/model"
)

const fetchTestPage = `<html><body>
<p>Each bank shall file a report of any suspicious transaction relevant to a possible violation of law.</p>
</body></html>`

func testFetcher() *Fetcher {
	return NewFetcher(model.DefaultConfig().Ingest)
}

func TestFetchDocument(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fetchTestPage))
	}))
	defer server.Close()

	clauses, err := testFetcher().FetchDocument(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(clauses) != 1 {
		t.Fatalf("Expected 1 clause, got %d", len(clauses))
	}
	if !strings.Contains(clauses[0].Text, "shall file a report") {
		t.Errorf("Unexpected clause: %q", clauses[0].Text)
	}
	if !strings.Contains(gotUserAgent, "ComplianceHub") {
		t.Errorf("Expected identifying User-Agent, got %q", gotUserAgent)
	}
}

func TestFetchDocument_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := testFetcher().FetchDocument(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404 response")
	}
}

func TestFetchDocument_RejectsNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	_, err := testFetcher().FetchDocument(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for non-HTML content type")
	}
	if !strings.Contains(err.Error(), "content type") {
		t.Errorf("Error should name the content type problem, got %v", err)
	}
}

func TestFetchDocument_RespectsBodyLimit(t *testing.T) {
	cfg := model.DefaultConfig().Ingest
	cfg.MaxBodyBytes = 32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(fetchTestPage))
	}))
	defer server.Close()

	// Truncated HTML still parses, but the clause text is cut off and dropped.
	clauses, err := NewFetcher(cfg).FetchDocument(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(clauses) != 0 {
		t.Errorf("Expected truncated body to yield no clauses, got %d", len(clauses))
	}
}
