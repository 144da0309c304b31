package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accana-api/models"
	"accana-api/utils"
)

// SubmissionService owns the pending → approved/rejected state machine and
// the single-pending-submission invariant for University ID users.
type SubmissionService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db, notifications: NewNotificationService(db)}
}

// SubmissionInput is everything a submitter provides when creating a
// submission. CarriedNotes comes from a revision draft of a rejected
// submission and may be empty.
type SubmissionInput struct {
	ProgramContent         string
	ProgramContentLanguage string
	SelectedBodyKeys       []string
	AnalysisResults        []models.AnalysisResultsGroup
	CarriedNotes           []models.SubmissionNote
}

// RevisionDraft pre-populates a new submission from a rejected one. It is a
// pure read; the rejected submission is never mutated.
type RevisionDraft struct {
	ProgramContent         string                  `json:"program_content"`
	ProgramContentLanguage string                  `json:"program_content_language"`
	SelectedBodyKeys       []string                `json:"selected_body_keys"`
	CarriedNotes           []models.SubmissionNote `json:"carried_notes"`
}

// Create validates and persists a new pending submission with a fresh id.
// University ID submitters may have at most one pending submission;
// reviewer roles are exempt from the gate.
func (s *SubmissionService) Create(input SubmissionInput, submitter models.User) (*models.Submission, error) {
	if strings.TrimSpace(input.ProgramContent) == "" {
		return nil, utils.ValidationError("program content is required")
	}
	if len(input.AnalysisResults) == 0 {
		return nil, utils.ValidationError("analysis results are required before submitting")
	}

	if submitter.Role == models.RoleUniversityID {
		var pending int64
		err := s.db.Model(&models.Submission{}).
			Where("LOWER(submitted_by_username) = LOWER(?) AND status = ?", submitter.Username, models.StatusPending).
			Count(&pending).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check pending submissions: %w", err)
		}
		if pending > 0 {
			return nil, utils.ValidationError("you already have a submission awaiting review")
		}
	}

	submission := models.Submission{
		SubmissionID:           uuid.NewString(),
		SubmittedByUsername:    submitter.Username,
		SubmittedByRole:        submitter.Role,
		SubmittedAt:            time.Now(),
		ProgramContent:         input.ProgramContent,
		ProgramContentLanguage: input.ProgramContentLanguage,
		AnalysisResults:        input.AnalysisResults,
		SelectedBodyKeys:       input.SelectedBodyKeys,
		Status:                 models.StatusPending,
		Notes:                  input.CarriedNotes,
	}
	if submission.Notes == nil {
		submission.Notes = []models.SubmissionNote{}
	}

	if err := s.db.Create(&submission).Error; err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	return &submission, nil
}

// Get loads a single submission.
func (s *SubmissionService) Get(id string) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.Where("submission_id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("submission %s not found", id)
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	return &submission, nil
}

// ListFor returns the user's own submissions, most recent first.
func (s *SubmissionService) ListFor(username string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.Where("LOWER(submitted_by_username) = LOWER(?)", username).
		Order("submitted_at DESC").Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return submissions, nil
}

// ListAll returns every submission, most recent first. Reviewer-only at the
// route level.
func (s *SubmissionService) ListAll() ([]models.Submission, error) {
	var submissions []models.Submission
	if err := s.db.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return submissions, nil
}

// Review decides a pending submission. The status change, the optional
// reviewer note and the history row commit together; the notification to
// the submitter is emitted after the commit and the decision word always
// appears in its message.
func (s *SubmissionService) Review(id, decision string, reviewer models.User, note string) (*models.Submission, error) {
	if !reviewer.Role.IsReviewer() {
		return nil, utils.PermissionError("role %s may not review submissions", reviewer.Role)
	}

	decision = strings.ToLower(strings.TrimSpace(decision))
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return nil, utils.ValidationError("decision must be either %q or %q", models.StatusApproved, models.StatusRejected)
	}

	var submission models.Submission
	now := time.Now()
	note = strings.TrimSpace(note)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).First(&submission).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError("submission %s not found", id)
			}
			return fmt.Errorf("failed to load submission: %w", err)
		}

		if !submission.IsPending() {
			return utils.InvalidStateError("submission has already been %s", submission.Status)
		}

		oldStatus := submission.Status
		submission.Status = decision
		submission.UpdateAt = &now
		if note != "" {
			submission.Notes = append(submission.Notes, models.SubmissionNote{
				By:        reviewer.Username,
				Role:      reviewer.Role,
				Timestamp: now,
				Text:      note,
			})
		}

		if err := tx.Save(&submission).Error; err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}

		history := models.SubmissionStatusHistory{
			SubmissionID: submission.SubmissionID,
			OldStatus:    oldStatus,
			NewStatus:    decision,
			ChangedBy:    reviewer.Username,
			CreatedAt:    now,
		}
		if note != "" {
			history.Reason = &note
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to log status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifType := "success"
	if decision == models.StatusRejected {
		notifType = "warning"
	}
	message := fmt.Sprintf("Your submission from %s has been %s by %s.",
		submission.SubmittedAt.Format("2 Jan 2006 15:04"), decision, reviewer.Username)
	if note != "" {
		message += " Reviewer note: " + note
	}
	subID := submission.SubmissionID
	if _, err := s.notifications.Emit(submission.SubmittedByUsername, message, notifType, &subID); err != nil {
		// The decision is already committed; a notification failure must
		// not undo it.
		log.Printf("submission %s %s but notification to %s failed: %v",
			subID, decision, submission.SubmittedByUsername, err)
	}

	return &submission, nil
}

// AddNote appends a note to a pending submission. Notes close once the
// submission is decided.
func (s *SubmissionService) AddNote(id string, author models.User, text string) (*models.Submission, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, utils.ValidationError("note text is required")
	}

	submission, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !submission.IsPending() {
		return nil, utils.InvalidStateError("notes are closed once a submission has been %s", submission.Status)
	}

	now := time.Now()
	submission.Notes = append(submission.Notes, models.SubmissionNote{
		By:        author.Username,
		Role:      author.Role,
		Timestamp: now,
		Text:      text,
	})
	submission.UpdateAt = &now

	if err := s.db.Save(submission).Error; err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	return submission, nil
}

// LoadForRevision builds a draft from one of the user's rejected
// submissions. The original is untouched; submitting the draft later goes
// through Create and receives a brand-new id.
func (s *SubmissionService) LoadForRevision(id string, user models.User) (*RevisionDraft, error) {
	submission, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(submission.SubmittedByUsername, user.Username) {
		return nil, utils.PermissionError("submission %s does not belong to you", id)
	}
	if submission.Status != models.StatusRejected {
		return nil, utils.InvalidStateError("only rejected submissions can be loaded for revision")
	}

	notes := make([]models.SubmissionNote, len(submission.Notes))
	copy(notes, submission.Notes)
	keys := make([]string, len(submission.SelectedBodyKeys))
	copy(keys, submission.SelectedBodyKeys)

	return &RevisionDraft{
		ProgramContent:         submission.ProgramContent,
		ProgramContentLanguage: submission.ProgramContentLanguage,
		SelectedBodyKeys:       keys,
		CarriedNotes:           notes,
	}, nil
}

// History returns the status-change rows for a submission, oldest first.
func (s *SubmissionService) History(id string) ([]models.SubmissionStatusHistory, error) {
	var history []models.SubmissionStatusHistory
	err := s.db.Where("submission_id = ?", id).
		Order("created_at ASC").Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status history: %w", err)
	}
	return history, nil
}
