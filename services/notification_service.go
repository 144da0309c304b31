package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accana-api/config"
	"accana-api/models"
	"accana-api/utils"
)

// NotificationService owns the submission-status mailbox: one row per
// recipient, per-recipient read tracking, read-only deletion.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Emit stores a notification for recipient and, when SMTP and a recipient
// email address are available, sends a best-effort email copy. Mail
// failures are logged, never returned.
func (s *NotificationService) Emit(recipientUsername, message, notifType string, relatedSubmissionID *string) (*models.Notification, error) {
	recipientUsername = strings.TrimSpace(recipientUsername)
	if recipientUsername == "" || strings.TrimSpace(message) == "" {
		return nil, utils.ValidationError("notification recipient and message are required")
	}
	if notifType == "" {
		notifType = "info"
	}

	n := models.Notification{
		NotificationID:      uuid.NewString(),
		RecipientUsername:   recipientUsername,
		Message:             message,
		Type:                notifType,
		RelatedSubmissionID: relatedSubmissionID,
		IsRead:              false,
		CreateAt:            time.Now(),
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}

	s.sendMailCopy(recipientUsername, message)
	return &n, nil
}

// ListFor returns the recipient's notifications, newest first.
func (s *NotificationService) ListFor(username string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("recipient_username = ?", username).
		Order("create_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the recipient's unread notification count.
func (s *NotificationService) UnreadCount(username string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("recipient_username = ? AND is_read = ?", username, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead flips every unread notification for the recipient. The
// transition is monotone: read rows are never reverted.
func (s *NotificationService) MarkAllRead(username string) error {
	now := time.Now()
	return s.db.Model(&models.Notification{}).
		Where("recipient_username = ? AND is_read = ?", username, false).
		Updates(map[string]interface{}{"is_read": true, "update_at": now}).Error
}

// ClearRead deletes the recipient's already-read notifications. Unread rows
// and other recipients' rows are untouched; clearing nothing is a no-op.
func (s *NotificationService) ClearRead(username string) error {
	return s.db.Where("recipient_username = ? AND is_read = ?", username, true).
		Delete(&models.Notification{}).Error
}

func (s *NotificationService) sendMailCopy(username, message string) {
	if !config.MailConfigured() {
		return
	}

	var user models.User
	if err := s.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return
	}
	if user.Email == nil || strings.TrimSpace(*user.Email) == "" {
		return
	}

	subject := "ACCANA submission update"
	html := buildNotificationEmailHTML(subject, username, message)
	if err := config.SendMail([]string{*user.Email}, subject, html); err != nil {
		log.Printf("notification email send failed (to=%s): %v", *user.Email, err)
	}
}

func buildNotificationEmailHTML(subject, recipientName, message string) string {
	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", recipientName))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
