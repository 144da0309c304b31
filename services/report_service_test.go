package services

import (
	"strings"
	"testing"
	"time"

	"accana-api/models"
)

func reportFixture() *models.Submission {
	return &models.Submission{
		SubmissionID:        "sub-1",
		SubmittedByUsername: "u1",
		SubmittedByRole:     models.RoleUniversityID,
		SubmittedAt:         time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Status:              models.StatusRejected,
		AnalysisResults:     sampleResults(),
		Notes: []models.SubmissionNote{
			{By: "admin", Role: models.RoleAdmin, Timestamp: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), Text: "please expand the <ethics> section"},
		},
	}
}

func TestTextSummary(t *testing.T) {
	sub := reportFixture()
	reason := "insufficient ethics coverage"
	history := []models.SubmissionStatusHistory{
		{SubmissionID: "sub-1", OldStatus: models.StatusPending, NewStatus: models.StatusRejected, ChangedBy: "admin", Reason: &reason, CreatedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)},
	}

	text := NewReportService().TextSummary(sub, history)

	for _, want := range []string{
		"sub-1",
		"u1 (University ID)",
		"rejected",
		"ADA-1.1",
		"Publish outcome data.",
		"please expand the <ethics> section",
		"pending -> rejected (by admin)",
		"insufficient ethics coverage",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text report missing %q:\n%s", want, text)
		}
	}
}

func TestHTMLReportEscapesContent(t *testing.T) {
	html, err := NewReportService().HTMLReport(reportFixture())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "sub-1") || !strings.Contains(html, "ADA-1.1") {
		t.Errorf("report body incomplete")
	}
	if strings.Contains(html, "<ethics>") {
		t.Errorf("note text must be HTML-escaped")
	}
	if !strings.Contains(html, "&lt;ethics&gt;") {
		t.Errorf("escaped note text missing from report")
	}
	if !strings.Contains(html, "page-break-before") {
		t.Errorf("pagination CSS missing")
	}
}

func TestPercentEncodeForDataURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"abc-._~", "abc-._~"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"<p>", "%3Cp%3E"},
	}
	for _, c := range cases {
		if got := percentEncodeForDataURL(c.in); got != c.want {
			t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
