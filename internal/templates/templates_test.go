package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/poc3/api-backend/internal/models"
)

func newRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer() error = %v", err)
	}
	return r
}

var checkedAt = time.Date(2025, 11, 10, 14, 30, 0, 0, time.UTC)

// TestRenderStatusChange tests both alert bodies
func TestRenderStatusChange(t *testing.T) {
	r := newRenderer(t)

	down := NewStatusChangeData(models.CheckStatusHealthy, models.ServiceResult{
		Name:   "Java API",
		URL:    "http://localhost:8080",
		Status: models.CheckStatusError,
		Error:  "request failed with status code 503",
	}, checkedAt)

	if down.Recovered {
		t.Fatal("a failing result should not be reported as recovered")
	}
	if got := StatusChangeSubject(down); got != "[DOWN] Java API is not responding" {
		t.Errorf("StatusChangeSubject() = %q", got)
	}

	html, err := r.RenderStatusChangeHTML(down)
	if err != nil {
		t.Fatalf("RenderStatusChangeHTML() error = %v", err)
	}
	for _, want := range []string{"Java API", "http://localhost:8080", "request failed with status code 503", "2025-11-10 14:30:00 UTC"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}

	text, err := r.RenderStatusChangeText(down)
	if err != nil {
		t.Fatalf("RenderStatusChangeText() error = %v", err)
	}
	if !strings.Contains(text, "healthy -> error") {
		t.Errorf("text body missing transition: %s", text)
	}

	up := NewStatusChangeData(models.CheckStatusError, models.ServiceResult{
		Name:       "Java API",
		Status:     models.CheckStatusHealthy,
		HTTPStatus: 200,
	}, checkedAt)
	if got := StatusChangeSubject(up); !strings.HasPrefix(got, "[RECOVERED]") {
		t.Errorf("StatusChangeSubject() = %q, want RECOVERED prefix", got)
	}
}

// TestRenderStatusChangeEscapesHTML tests that error text cannot inject markup
func TestRenderStatusChangeEscapesHTML(t *testing.T) {
	r := newRenderer(t)

	data := NewStatusChangeData(models.CheckStatusHealthy, models.ServiceResult{
		Name:   "Node.js API",
		Status: models.CheckStatusError,
		Error:  "<script>alert(1)</script>",
	}, checkedAt)

	html, err := r.RenderStatusChangeHTML(data)
	if err != nil {
		t.Fatalf("RenderStatusChangeHTML() error = %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("error message was not escaped")
	}
}

// TestRenderDashboard tests the status page
func TestRenderDashboard(t *testing.T) {
	r := newRenderer(t)

	var empty strings.Builder
	if err := r.RenderDashboard(&empty, DashboardData{RefreshSeconds: 30}); err != nil {
		t.Fatalf("RenderDashboard() error = %v", err)
	}
	if !strings.Contains(empty.String(), "No poll has completed yet") {
		t.Error("empty page should say no poll has completed")
	}

	report := models.PollReport{
		Timestamp: "2025-11-10T14:30:00.000Z",
		AllAPIs: []models.ServiceResult{
			{Name: "Node.js API", URL: "http://localhost:3000", Status: models.CheckStatusHealthy, HTTPStatus: 200, LatencyMs: 4},
			{Name: ".NET API", URL: "http://localhost:5000", Status: models.CheckStatusError, Error: "connection refused"},
		},
	}

	var page strings.Builder
	if err := r.RenderDashboard(&page, DashboardData{Report: report, Healthy: report.Healthy(), RefreshSeconds: 30}); err != nil {
		t.Fatalf("RenderDashboard() error = %v", err)
	}

	body := page.String()
	for _, want := range []string{"1 of 2 APIs healthy", "Node.js API", "connection refused", `content="30"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
