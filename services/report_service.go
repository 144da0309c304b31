package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"accana-api/models"
	"accana-api/utils"
)

// ReportService renders read-only exports of a stored submission: a plain
// text summary and a paginated PDF generated from HTML.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// TextSummary builds the plain-text report: submission metadata,
// per-standard match/feedback and reviewer notes.
func (s *ReportService) TextSummary(sub *models.Submission, history []models.SubmissionStatusHistory) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ACCANA SUBMISSION REPORT\n")
	fmt.Fprintf(&b, "========================\n\n")
	fmt.Fprintf(&b, "Submission ID: %s\n", sub.SubmissionID)
	fmt.Fprintf(&b, "Submitted by:  %s (%s)\n", sub.SubmittedByUsername, sub.SubmittedByRole)
	fmt.Fprintf(&b, "Submitted at:  %s\n", sub.SubmittedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Status:        %s\n", sub.Status)
	if sub.UpdateAt != nil {
		fmt.Fprintf(&b, "Last updated:  %s\n", sub.UpdateAt.Format(time.RFC1123))
	}

	for _, group := range sub.AnalysisResults {
		fmt.Fprintf(&b, "\n%s\n%s\n", group.AccreditationBodyName, strings.Repeat("-", len(group.AccreditationBodyName)))
		for _, item := range group.Items {
			fmt.Fprintf(&b, "\n  [%3d%%] %s — %s\n", item.MatchPercentage, item.StandardID, item.StandardName)
			if item.ImprovementFeedback != "" {
				fmt.Fprintf(&b, "         Feedback: %s\n", item.ImprovementFeedback)
			}
			if item.Reasoning != "" {
				fmt.Fprintf(&b, "         Reasoning: %s\n", item.Reasoning)
			}
		}
	}

	if len(sub.Notes) > 0 {
		fmt.Fprintf(&b, "\nNotes\n-----\n")
		for _, note := range sub.Notes {
			fmt.Fprintf(&b, "\n  %s (%s) at %s:\n  %s\n", note.By, note.Role, note.Timestamp.Format(time.RFC1123), note.Text)
		}
	}

	if len(history) > 0 {
		fmt.Fprintf(&b, "\nStatus history\n--------------\n")
		for _, h := range history {
			fmt.Fprintf(&b, "\n  %s: %s -> %s (by %s)", h.CreatedAt.Format(time.RFC1123), h.OldStatus, h.NewStatus, h.ChangedBy)
			if h.Reason != nil {
				fmt.Fprintf(&b, "\n    Reason: %s", *h.Reason)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Submission {{.Submission.SubmissionID}}</title>
<style>
  body { font-family: Georgia, 'Times New Roman', serif; color: #111827; margin: 0; }
  h1 { font-size: 22px; border-bottom: 2px solid #111827; padding-bottom: 8px; }
  h2 { font-size: 18px; margin-top: 0; }
  .meta { font-size: 13px; color: #374151; margin-bottom: 24px; }
  .body-section { page-break-before: always; padding-top: 8px; }
  .body-section:first-of-type { page-break-before: avoid; }
  .item { margin: 12px 0; }
  .match { font-weight: bold; }
  .notes { page-break-before: always; }
  blockquote { margin: 8px 0 8px 16px; color: #374151; }
  @page { size: letter; }
</style>
</head>
<body>
<h1>ACCANA Submission Report</h1>
<div class="meta">
  <div>Submission ID: {{.Submission.SubmissionID}}</div>
  <div>Submitted by {{.Submission.SubmittedByUsername}} ({{.Submission.SubmittedByRole}}) at {{.SubmittedAt}}</div>
  <div>Status: {{.Submission.Status}}</div>
</div>
{{range .Submission.AnalysisResults}}
<div class="body-section">
  <h2>{{.AccreditationBodyName}}</h2>
  {{range .Items}}
  <div class="item">
    <div><span class="match">{{.MatchPercentage}}%</span> — {{.StandardID}} {{.StandardName}}</div>
    {{if .ImprovementFeedback}}<blockquote>{{.ImprovementFeedback}}</blockquote>{{end}}
    {{if .Reasoning}}<blockquote><em>{{.Reasoning}}</em></blockquote>{{end}}
  </div>
  {{end}}
</div>
{{end}}
{{if .Submission.Notes}}
<div class="notes">
  <h2>Reviewer notes</h2>
  {{range .Submission.Notes}}
  <div class="item">
    <div>{{.By}} ({{.Role}}) — {{.Timestamp.Format "2 Jan 2006 15:04"}}</div>
    <blockquote>{{.Text}}</blockquote>
  </div>
  {{end}}
</div>
{{end}}
</body>
</html>`))

// HTMLReport renders the paginated document export.
func (s *ReportService) HTMLReport(sub *models.Submission) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Submission  *models.Submission
		SubmittedAt string
	}{
		Submission:  sub,
		SubmittedAt: sub.SubmittedAt.Format(time.RFC1123),
	}
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.String(), nil
}

// PDF converts the HTML report into a PDF via headless Chrome. A missing
// chromium binary is reported as an external-service failure; the text and
// HTML exports remain available.
func (s *ReportService) PDF(ctx context.Context, sub *models.Submission) ([]byte, error) {
	if _, err := exec.LookPath("chromium-browser"); err != nil {
		if _, fallbackErr := exec.LookPath("chromium"); fallbackErr != nil {
			return nil, utils.ExternalServiceError(nil, "PDF export unavailable: chromium not installed")
		}
	}

	html, err := s.HTMLReport(sub)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	dataURL := "data:text/html;charset=utf-8," + percentEncodeForDataURL(html)

	var pdfData []byte
	err = chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11.0).
				WithMarginTop(0.75).
				WithMarginBottom(0.75).
				WithMarginLeft(0.75).
				WithMarginRight(0.75).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, utils.ExternalServiceError(err, "chrome pdf generation failed")
	}

	return pdfData, nil
}

// percentEncodeForDataURL encodes HTML for a data URL. url.QueryEscape is
// wrong here: spaces must become %20, not +.
func percentEncodeForDataURL(s string) string {
	var result strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_', r == '.', r == '~':
			result.WriteRune(r)
		case r == ' ':
			result.WriteString("%20")
		default:
			for _, b := range []byte(string(r)) {
				result.WriteString(fmt.Sprintf("%%%02X", b))
			}
		}
	}
	return result.String()
}
