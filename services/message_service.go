package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accana-api/models"
	"accana-api/utils"
)

// MessageService owns the internal-message mailbox. A message addressed to
// a role reaches every current holder of that role; read state is tracked
// per individual reader through receipt rows, and "deleting" an inbox item
// only hides it for that reader.
type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Send validates the recipient identifier and stores the message.
func (s *MessageService) Send(sender models.User, recipientType, recipientValue, subject, body string) (*models.InternalMessage, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" || body == "" {
		return nil, utils.ValidationError("message subject and body are required")
	}

	switch recipientType {
	case models.RecipientTypeUser:
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("LOWER(username) = LOWER(?)", strings.TrimSpace(recipientValue)).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to look up recipient: %w", err)
		}
		if count == 0 {
			return nil, utils.NotFoundError("recipient user %q does not exist", recipientValue)
		}
	case models.RecipientTypeRole:
		role, ok := models.ParseRole(recipientValue)
		if !ok {
			return nil, utils.ValidationError("unknown recipient role: %s", recipientValue)
		}
		recipientValue = string(role)
	default:
		return nil, utils.ValidationError("recipient type must be %q or %q", models.RecipientTypeUser, models.RecipientTypeRole)
	}

	msg := models.InternalMessage{
		MessageID:      uuid.NewString(),
		SenderUsername: sender.Username,
		SenderRole:     sender.Role,
		RecipientType:  recipientType,
		RecipientValue: strings.TrimSpace(recipientValue),
		Subject:        subject,
		Body:           body,
		CreateAt:       time.Now(),
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return &msg, nil
}

// InboxFor returns messages addressed to the user directly or to the user's
// role, newest first, excluding items the user has hidden. ReadBy is
// populated on every returned message.
func (s *MessageService) InboxFor(user models.User) ([]models.InternalMessage, error) {
	var messages []models.InternalMessage
	err := s.db.Where(
		"(recipient_type = ? AND LOWER(recipient_value) = LOWER(?)) OR (recipient_type = ? AND recipient_value = ?)",
		models.RecipientTypeUser, user.Username,
		models.RecipientTypeRole, string(user.Role),
	).Order("create_at DESC").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inbox: %w", err)
	}

	visible := make([]models.InternalMessage, 0, len(messages))
	for i := range messages {
		readBy, hidden, err := s.loadReadState(messages[i].MessageID, user.Username)
		if err != nil {
			return nil, err
		}
		if hidden {
			continue
		}
		messages[i].ReadBy = readBy
		visible = append(visible, messages[i])
	}
	return visible, nil
}

// SentBy returns messages the user has sent, newest first.
func (s *MessageService) SentBy(user models.User) ([]models.InternalMessage, error) {
	var messages []models.InternalMessage
	err := s.db.Where("sender_username = ?", user.Username).
		Order("create_at DESC").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent messages: %w", err)
	}
	for i := range messages {
		readBy, _, err := s.loadReadState(messages[i].MessageID, "")
		if err != nil {
			return nil, err
		}
		messages[i].ReadBy = readBy
	}
	return messages, nil
}

// MarkRead records the user as a reader of the message. Calling it twice is
// the same as calling it once; read state is never reverted.
func (s *MessageService) MarkRead(messageID string, user models.User) error {
	var msg models.InternalMessage
	if err := s.db.Where("message_id = ?", messageID).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundError("message %s not found", messageID)
		}
		return fmt.Errorf("failed to load message: %w", err)
	}

	var existing models.MessageReadReceipt
	err := s.db.Where("message_id = ? AND LOWER(username) = LOWER(?)", messageID, user.Username).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check read state: %w", err)
	}

	receipt := models.MessageReadReceipt{
		MessageID: messageID,
		Username:  user.Username,
		ReadAt:    time.Now(),
	}
	if err := s.db.Create(&receipt).Error; err != nil {
		return fmt.Errorf("failed to record read state: %w", err)
	}
	return nil
}

// DeleteReadInbox hides every inbox item the user has already read. Items
// the user has not read stay visible, and other recipients of the same
// role-addressed message are unaffected.
func (s *MessageService) DeleteReadInbox(user models.User) (int, error) {
	inbox, err := s.InboxFor(user)
	if err != nil {
		return 0, err
	}

	hidden := 0
	now := time.Now()
	for _, msg := range inbox {
		if !msg.ReadBy[user.Username] {
			continue
		}
		err := s.db.Model(&models.MessageReadReceipt{}).
			Where("message_id = ? AND LOWER(username) = LOWER(?)", msg.MessageID, user.Username).
			Update("hidden_at", now).Error
		if err != nil {
			return hidden, fmt.Errorf("failed to hide message: %w", err)
		}
		hidden++
	}
	return hidden, nil
}

// UnreadInboxCount counts visible inbox items without a read receipt from
// this user.
func (s *MessageService) UnreadInboxCount(user models.User) (int, error) {
	inbox, err := s.InboxFor(user)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, msg := range inbox {
		if !msg.ReadBy[user.Username] {
			count++
		}
	}
	return count, nil
}

func (s *MessageService) loadReadState(messageID, username string) (map[string]bool, bool, error) {
	var receipts []models.MessageReadReceipt
	if err := s.db.Where("message_id = ?", messageID).Find(&receipts).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load read receipts: %w", err)
	}

	readBy := make(map[string]bool, len(receipts))
	hidden := false
	for _, r := range receipts {
		readBy[r.Username] = true
		if username != "" && strings.EqualFold(r.Username, username) && r.HiddenAt != nil {
			hidden = true
		}
	}
	return readBy, hidden, nil
}
