package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	text_template "text/template"
	"time"

	"github.com/poc3/api-backend/internal/models"
)

//go:embed emails/*.html
var htmlTemplates embed.FS

//go:embed emails/*.txt
var textTemplates embed.FS

//go:embed pages/*.html
var pageTemplates embed.FS

// TemplateRenderer manages loading and rendering of alert emails and the status page
type TemplateRenderer struct {
	htmlTemplates *template.Template
	textTemplates *text_template.Template
	pages         *template.Template
}

// StatusChangeData holds data for the status change email template
type StatusChangeData struct {
	Service            string
	URL                string
	PreviousStatus     string
	CurrentStatus      string
	HTTPStatus         int
	Error              string
	Recovered          bool
	CheckedAtFormatted string
}

// DashboardData holds data for the status page
type DashboardData struct {
	Report         models.PollReport
	Healthy        int
	RefreshSeconds int
}

// NewStatusChangeData builds template data for a transition of one target
func NewStatusChangeData(previous string, current models.ServiceResult, checkedAt time.Time) StatusChangeData {
	return StatusChangeData{
		Service:            current.Name,
		URL:                current.URL,
		PreviousStatus:     previous,
		CurrentStatus:      current.Status,
		HTTPStatus:         current.HTTPStatus,
		Error:              current.Error,
		Recovered:          current.IsHealthy(),
		CheckedAtFormatted: checkedAt.UTC().Format("2006-01-02 15:04:05 MST"),
	}
}

// NewTemplateRenderer creates a new template renderer
func NewTemplateRenderer() (*TemplateRenderer, error) {
	htmlTmpl, err := template.ParseFS(htmlTemplates, "emails/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load HTML templates: %w", err)
	}

	textTmpl, err := text_template.ParseFS(textTemplates, "emails/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to load text templates: %w", err)
	}

	pages, err := template.ParseFS(pageTemplates, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	return &TemplateRenderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
		pages:         pages,
	}, nil
}

// StatusChangeSubject returns the alert email subject line
func StatusChangeSubject(data StatusChangeData) string {
	if data.Recovered {
		return fmt.Sprintf("[RECOVERED] %s is healthy again", data.Service)
	}
	return fmt.Sprintf("[DOWN] %s is not responding", data.Service)
}

// RenderStatusChangeHTML renders the HTML alert email
func (t *TemplateRenderer) RenderStatusChangeHTML(data StatusChangeData) (string, error) {
	var buf strings.Builder
	if err := t.htmlTemplates.ExecuteTemplate(&buf, "status_change.html", data); err != nil {
		return "", fmt.Errorf("failed to render HTML template: %w", err)
	}

	return buf.String(), nil
}

// RenderStatusChangeText renders the plain text alert email
func (t *TemplateRenderer) RenderStatusChangeText(data StatusChangeData) (string, error) {
	var buf strings.Builder
	if err := t.textTemplates.ExecuteTemplate(&buf, "status_change.txt", data); err != nil {
		return "", fmt.Errorf("failed to render text template: %w", err)
	}

	return buf.String(), nil
}

// RenderDashboard writes the status page for report
func (t *TemplateRenderer) RenderDashboard(w io.Writer, data DashboardData) error {
	if err := t.pages.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		return fmt.Errorf("failed to render dashboard page: %w", err)
	}
	return nil
}
