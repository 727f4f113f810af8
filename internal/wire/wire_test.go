package wire

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"find-origin-api/internal/application/pipeline"
	"find-origin-api/internal/config"
	"find-origin-api/internal/domain/entity"
)

// linksModeConfig assembles the app without external credentials so the
// links product mode never touches a search backend.
func linksModeConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Pipeline.Mode = string(pipeline.ModeLinks)
	cfg.Pipeline.MaxTotal = 15
	return cfg
}

func postSearch(t *testing.T, app *App, body string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Router.Engine().ServeHTTP(w, req)
	return w
}

func TestInitializeAppSelectsLinksModeFromConfig(t *testing.T) {
	app, err := InitializeApp(context.Background(), linksModeConfig())
	if err != nil {
		t.Fatalf("InitializeApp: %v", err)
	}

	w := postSearch(t, app, `{"text":"Источник тут https://www.ria.ru/article"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data pipeline.SearchResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Data.Candidates) != 1 || resp.Data.Candidates[0].SourceType != entity.SourceNews {
		t.Errorf("candidates = %+v, want the lifted link only", resp.Data.Candidates)
	}
}

func TestInitializeAppLinksModeWithoutLinks(t *testing.T) {
	app, err := InitializeApp(context.Background(), linksModeConfig())
	if err != nil {
		t.Fatalf("InitializeApp: %v", err)
	}

	// in links mode a link-free text fails without any backend call
	w := postSearch(t, app, `{"text":"Достаточно длинный текст чтобы построить запрос для поиска"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			ErrorCode string `json:"error_code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error.ErrorCode != "2003" {
		t.Errorf("error_code = %q, want no candidates code", resp.Error.ErrorCode)
	}
}
