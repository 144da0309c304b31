package models

import "time"

// Submission statuses. pending is the only state reviewers may act on;
// approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// AnalysisResultItem is one standard's score within an analysis run. After
// reconciliation StandardID always equals a catalog id for its body.
type AnalysisResultItem struct {
	StandardID          string `json:"standard_id"`
	StandardName        string `json:"standard_name"`
	MatchPercentage     int    `json:"match_percentage"`
	ImprovementFeedback string `json:"improvement_feedback"`
	Reasoning           string `json:"reasoning,omitempty"`
}

// AnalysisResultsGroup holds one accreditation body's reconciled items.
type AnalysisResultsGroup struct {
	AccreditationBodyKey  string               `json:"accreditation_body_key"`
	AccreditationBodyName string               `json:"accreditation_body_name"`
	Items                 []AnalysisResultItem `json:"items"`
}

// SubmissionNote is an append-only reviewer/submitter note. Notes are frozen
// once the submission leaves pending.
type SubmissionNote struct {
	By        string    `json:"by"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

type Submission struct {
	SubmissionID           string                 `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmittedByUsername    string                 `gorm:"column:submitted_by_username;index" json:"submitted_by_username"`
	SubmittedByRole        Role                   `gorm:"column:submitted_by_role" json:"submitted_by_role"`
	SubmittedAt            time.Time              `gorm:"column:submitted_at" json:"submitted_at"`
	ProgramContent         string                 `gorm:"column:program_content;type:text" json:"program_content"`
	ProgramContentLanguage string                 `gorm:"column:program_content_language" json:"program_content_language"`
	AnalysisResults        []AnalysisResultsGroup `gorm:"column:analysis_results;type:text;serializer:json" json:"analysis_results"`
	SelectedBodyKeys       []string               `gorm:"column:selected_body_keys;type:text;serializer:json" json:"selected_body_keys"`
	Status                 string                 `gorm:"column:status;index" json:"status"`
	Notes                  []SubmissionNote       `gorm:"column:notes;type:text;serializer:json" json:"notes"`
	UpdateAt               *time.Time             `gorm:"column:update_at" json:"update_at,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsPending reports whether reviewer actions (decide, add note) are allowed.
func (s *Submission) IsPending() bool {
	return s.Status == StatusPending
}

// SubmissionStatusHistory tracks historical status changes for submissions.
type SubmissionStatusHistory struct {
	HistoryID    uint      `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionID string    `gorm:"column:submission_id;index" json:"submission_id"`
	OldStatus    string    `gorm:"column:old_status" json:"old_status"`
	NewStatus    string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy    string    `gorm:"column:changed_by" json:"changed_by"`
	Reason       *string   `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
