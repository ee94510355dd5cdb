package ui_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchdash/launchdash/server/internal/ui"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHandler_Embedded(t *testing.T) {
	rr := get(t, ui.Handler(""), "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "SpaceX Launch Records Dashboard") {
		t.Error("page heading missing")
	}
}

func TestHandler_Dir_FallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>custom</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := ui.Handler(dir)

	if body := get(t, h, "/some/route").Body.String(); !strings.Contains(body, "custom") {
		t.Errorf("fallback: got %q, want index.html", body)
	}
	if body := get(t, h, "/app.js").Body.String(); body != "console.log(1)" {
		t.Errorf("app.js: got %q", body)
	}
}
