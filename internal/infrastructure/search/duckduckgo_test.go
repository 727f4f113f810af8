package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const tokenPage = `<html><script>DDG.deep.initialize('/d.js?q=x&vqd="1234-567890"');</script></html>`

const resultPage = `<html><body>
<div class="result">
  <a rel="nofollow" class="result__a" href="https://www.ria.ru/news/1">Нефть &amp; рынок</a>
</div>
<div class="result">
  <a rel="nofollow" class="result__a" href="https://example.com/post"><b>Example</b> story</a>
</div>
<div class="result">
  <a rel="nofollow" class="result__a" href="javascript:void(0)">skip me</a>
</div>
</body></html>`

func newTestDDG(t *testing.T, tokenHandler, resultHandler http.HandlerFunc) (*DuckDuckGo, *httptest.Server, *httptest.Server) {
	t.Helper()

	tokenSrv := httptest.NewServer(tokenHandler)
	t.Cleanup(tokenSrv.Close)
	resultSrv := httptest.NewServer(resultHandler)
	t.Cleanup(resultSrv.Close)

	d, err := NewDuckDuckGo(DuckDuckGoConfig{
		BaseURL: tokenSrv.URL,
		HTMLURL: resultSrv.URL,
	}, NewCooldown(0))
	if err != nil {
		t.Fatalf("NewDuckDuckGo: %v", err)
	}
	return d, tokenSrv, resultSrv
}

func TestDuckDuckGoSearch(t *testing.T) {
	t.Parallel()

	var gotTokenQuery, gotVQD, gotFormQuery, gotRegion string
	d, _, _ := newTestDDG(t,
		func(w http.ResponseWriter, r *http.Request) {
			gotTokenQuery = r.URL.Query().Get("q")
			w.Write([]byte(tokenPage))
		},
		func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			gotVQD = r.PostFormValue("vqd")
			gotFormQuery = r.PostFormValue("q")
			gotRegion = r.PostFormValue("kl")
			w.Write([]byte(resultPage))
		},
	)

	results, err := d.Search(context.Background(), "нефть цена", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotTokenQuery != "нефть цена" {
		t.Errorf("token request query = %q", gotTokenQuery)
	}
	if gotVQD != "1234-567890" {
		t.Errorf("vqd forwarded = %q, want 1234-567890", gotVQD)
	}
	if gotFormQuery != "нефть цена" || gotRegion != "wt-wt" {
		t.Errorf("form q=%q kl=%q", gotFormQuery, gotRegion)
	}

	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2 entries", results)
	}
	if results[0].URL != "https://www.ria.ru/news/1" || results[0].Title != "Нефть & рынок" {
		t.Errorf("first result = %+v", results[0])
	}
	if results[1].Title != "Example story" {
		t.Errorf("nested tags not stripped: %+v", results[1])
	}
}

func TestDuckDuckGoSearchLimit(t *testing.T) {
	t.Parallel()

	d, _, _ := newTestDDG(t,
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(tokenPage)) },
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(resultPage)) },
	)

	results, err := d.Search(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len = %d, want 1", len(results))
	}
}

func TestDuckDuckGoCaptchaOnTokenPage(t *testing.T) {
	t.Parallel()

	d, _, _ := newTestDDG(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>please prove you are not a robot</html>`))
		},
		func(w http.ResponseWriter, r *http.Request) { t.Error("result endpoint must not be called") },
	)

	_, err := d.Search(context.Background(), "q", 5)
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("err = %v, want BlockedError", err)
	}
	if blocked.Marker != "captcha" {
		t.Errorf("marker = %q, want captcha", blocked.Marker)
	}
}

func TestDuckDuckGoBlockedOnResultPage(t *testing.T) {
	t.Parallel()

	d, _, _ := newTestDDG(t,
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(tokenPage)) },
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>your IP address has been temporarily limited</html>`))
		},
	)

	_, err := d.Search(context.Background(), "q", 5)
	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("err = %v, want BlockedError", err)
	}
}

func TestDuckDuckGoTokenMissing(t *testing.T) {
	t.Parallel()

	d, _, _ := newTestDDG(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>nothing useful here</html>`))
		},
		func(w http.ResponseWriter, r *http.Request) { t.Error("result endpoint must not be called") },
	)

	_, err := d.Search(context.Background(), "q", 5)
	var tokenErr *TokenExtractionError
	if !errors.As(err, &tokenErr) {
		t.Fatalf("err = %v, want TokenExtractionError", err)
	}
}

func TestDuckDuckGoHTTPError(t *testing.T) {
	t.Parallel()

	d, _, _ := newTestDDG(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		func(w http.ResponseWriter, r *http.Request) { t.Error("result endpoint must not be called") },
	)

	_, err := d.Search(context.Background(), "q", 5)
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("err = %v, want BackendError", err)
	}
	if backendErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", backendErr.StatusCode)
	}
}

func TestDuckDuckGoRespectsCooldown(t *testing.T) {
	t.Parallel()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tokenPage))
	}))
	t.Cleanup(tokenSrv.Close)
	resultSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultPage))
	}))
	t.Cleanup(resultSrv.Close)

	d, err := NewDuckDuckGo(DuckDuckGoConfig{
		BaseURL: tokenSrv.URL,
		HTMLURL: resultSrv.URL,
	}, NewCooldown(DefaultCooldownInterval))
	if err != nil {
		t.Fatalf("NewDuckDuckGo: %v", err)
	}

	if _, err := d.Search(context.Background(), "q", 5); err != nil {
		t.Fatalf("first search: %v", err)
	}

	_, err = d.Search(context.Background(), "q", 5)
	var rateLimited *RateLimitedError
	if !errors.As(err, &rateLimited) {
		t.Fatalf("second search err = %v, want RateLimitedError", err)
	}
}

func TestParseResultPageVariants(t *testing.T) {
	t.Parallel()

	// relative and empty links are dropped
	page := `<a class="result__a" href="/relative">rel</a>
<a class="result__a" href="https://ok.example/1">Valid</a>
<a class="result__a" href="https://ok.example/2"></a>`
	got := parseResultPage(page, 0)
	if len(got) != 1 || got[0].URL != "https://ok.example/1" {
		t.Errorf("parseResultPage = %+v, want only the valid entry", got)
	}
}
