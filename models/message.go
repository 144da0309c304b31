package models

import "time"

// Recipient identifier types for internal messages. A role-addressed message
// is delivered to every current holder of that role.
const (
	RecipientTypeUser = "user"
	RecipientTypeRole = "role"
)

type InternalMessage struct {
	MessageID      string    `gorm:"primaryKey;column:message_id" json:"message_id"`
	SenderUsername string    `gorm:"column:sender_username;index" json:"sender_username"`
	SenderRole     Role      `gorm:"column:sender_role" json:"sender_role"`
	RecipientType  string    `gorm:"column:recipient_type" json:"recipient_type"`
	RecipientValue string    `gorm:"column:recipient_value;index" json:"recipient_value"`
	Subject        string    `gorm:"column:subject" json:"subject"`
	Body           string    `gorm:"column:body;type:text" json:"body"`
	CreateAt       time.Time `gorm:"column:create_at" json:"created_at"`

	// Populated by the message service, not a stored column. Maps every
	// username that has read the message to true.
	ReadBy map[string]bool `gorm:"-" json:"read_by,omitempty"`
}

func (InternalMessage) TableName() string { return "internal_messages" }

// MessageReadReceipt records one reader's monotone read state. HiddenAt set
// means the reader removed the message from their own inbox; the row (and
// the message) stay for other recipients.
type MessageReadReceipt struct {
	ReceiptID uint       `gorm:"primaryKey;column:receipt_id" json:"receipt_id"`
	MessageID string     `gorm:"column:message_id;index" json:"message_id"`
	Username  string     `gorm:"column:username;index" json:"username"`
	ReadAt    time.Time  `gorm:"column:read_at" json:"read_at"`
	HiddenAt  *time.Time `gorm:"column:hidden_at" json:"-"`
}

func (MessageReadReceipt) TableName() string { return "message_read_receipts" }
