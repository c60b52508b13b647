package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDashboard(t *testing.T) {
	dir := t.TempDir()
	page := "<html><body>LGPD Sentinel</body></html>"
	if err := os.WriteFile(filepath.Join(dir, "dashboard.html"), []byte(page), 0o644); err != nil {
		t.Fatalf("Failed to write dashboard page: %v", err)
	}

	handler := Dashboard(dir)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Unexpected content type: %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Dashboard should not be cached, got %q", cc)
	}
	if !strings.Contains(rec.Body.String(), "LGPD Sentinel") {
		t.Errorf("Unexpected body: %q", rec.Body.String())
	}
}

func TestDashboardDefaultDir(t *testing.T) {
	handler := Dashboard("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	// The bundled page is not reachable from the package directory, but the
	// handler must still answer rather than panic.
	if rec.Code != http.StatusOK && rec.Code != http.StatusNotFound {
		t.Fatalf("Unexpected status: %d", rec.Code)
	}
}
