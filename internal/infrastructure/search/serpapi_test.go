package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSerpAPIRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewSerpAPI(SerpAPIConfig{}); err == nil {
		t.Fatal("NewSerpAPI with empty key succeeded, want error")
	}
}

func TestSerpAPISearch(t *testing.T) {
	t.Parallel()

	var gotQuery, gotKey, gotNum string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("api_key")
		gotNum = r.URL.Query().Get("num")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organic_results": [
				{"link": "https://www.ria.ru/1", "title": " Нефть ", "snippet": "рост цен"},
				{"link": "ftp://bad.example", "title": "skip"},
				{"link": "https://example.com/2", "title": "Example", "snippet": ""}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	s, err := NewSerpAPI(SerpAPIConfig{APIKey: "test-key", APIURL: srv.URL})
	if err != nil {
		t.Fatalf("NewSerpAPI: %v", err)
	}

	results, err := s.Search(context.Background(), "нефть", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery != "нефть" || gotKey != "test-key" || gotNum != "5" {
		t.Errorf("request params q=%q api_key=%q num=%q", gotQuery, gotKey, gotNum)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2 (non-http link dropped)", results)
	}
	if results[0].URL != "https://www.ria.ru/1" || results[0].Title != "Нефть" || results[0].Snippet != "рост цен" {
		t.Errorf("first result = %+v", results[0])
	}
}

func TestSerpAPISearchLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results": [
			{"link": "https://a.example/1", "title": "A"},
			{"link": "https://b.example/2", "title": "B"},
			{"link": "https://c.example/3", "title": "C"}
		]}`))
	}))
	t.Cleanup(srv.Close)

	s, err := NewSerpAPI(SerpAPIConfig{APIKey: "k", APIURL: srv.URL})
	if err != nil {
		t.Fatalf("NewSerpAPI: %v", err)
	}

	results, err := s.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len = %d, want 2", len(results))
	}
}

func TestSerpAPIHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	s, err := NewSerpAPI(SerpAPIConfig{APIKey: "bad", APIURL: srv.URL})
	if err != nil {
		t.Fatalf("NewSerpAPI: %v", err)
	}

	_, err = s.Search(context.Background(), "q", 5)
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("err = %v, want BackendError", err)
	}
	if backendErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", backendErr.StatusCode)
	}
}

func TestSerpAPIDecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	t.Cleanup(srv.Close)

	s, err := NewSerpAPI(SerpAPIConfig{APIKey: "k", APIURL: srv.URL})
	if err != nil {
		t.Fatalf("NewSerpAPI: %v", err)
	}

	_, err = s.Search(context.Background(), "q", 5)
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("err = %v, want BackendError", err)
	}
}
