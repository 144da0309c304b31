package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"accana-api/models"
	"accana-api/utils"
)

// Seed credentials used only when the users table is empty. Demo-grade by
// design: passwords are stored and compared as plain text.
var seedUsers = []models.User{
	{Username: "admin", Password: "adminpass", Role: models.RoleAdmin},
	{Username: "lead", Password: "leadpass", Role: models.RoleUniversityLead},
}

// UserService owns registration, role-gated account creation and login.
type UserService struct {
	db       *gorm.DB
	messages *MessageService
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, messages: NewMessageService(db)}
}

// Register creates an account on behalf of requestedBy. Leads may only
// create University ID accounts; Admin may create any role. The welcome
// message is sent after the account exists; a send failure degrades to a
// notice instead of rolling the account back.
func (s *UserService) Register(username, password string, email *string, role models.Role, requestedBy models.User) (*models.User, string, error) {
	username = utils.SanitizeInput(username)
	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, "", utils.ValidationError("%s", msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, "", utils.ValidationError("%s", msg)
	}
	if email != nil && strings.TrimSpace(*email) != "" && !utils.ValidateEmail(*email) {
		return nil, "", utils.ValidationError("invalid email address")
	}

	switch requestedBy.Role {
	case models.RoleAdmin:
		// may create any role
	case models.RoleUniversityLead:
		if role != models.RoleUniversityID {
			return nil, "", utils.PermissionError("University Leads may only create University ID accounts")
		}
	default:
		return nil, "", utils.PermissionError("role %s may not create accounts", requestedBy.Role)
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, "", utils.ConflictError("username %q is already taken", username)
	}

	user := models.User{
		Username: username,
		Password: password,
		Role:     role,
		Email:    email,
		CreateAt: time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	notice := ""
	if _, err := s.messages.Send(requestedBy, models.RecipientTypeUser, user.Username,
		"Welcome to ACCANA", welcomeBody(user)); err != nil {
		log.Printf("welcome message for %s failed: %v", user.Username, err)
		notice = "Account created, but the welcome message could not be delivered"
	}

	return &user, notice, nil
}

// Authenticate looks the username up case-insensitively and compares the
// password by plain equality. When no accounts exist yet the two seed
// credentials are installed first so a fresh deployment is reachable.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	if err := s.seedIfEmpty(); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.Where("LOWER(username) = LOWER(?)", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.AuthenticationError("invalid username or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Password != password {
		return nil, utils.AuthenticationError("invalid username or password")
	}
	return &user, nil
}

// GetByUsername loads a user case-insensitively.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("LOWER(username) = LOWER(?)", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("user %q not found", username)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// List returns every account, oldest first.
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("create_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (s *UserService) seedIfEmpty() error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for _, seed := range seedUsers {
		seed.CreateAt = now
		if err := s.db.Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed default users: %w", err)
		}
	}
	log.Println("Seeded default accounts (empty user registry)")
	return nil
}

func welcomeBody(user models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s, your ACCANA account is ready.\n\n", user.Username)
	b.WriteString("You can paste or upload dental-program content and analyze it against the accreditation standards catalog.\n")

	switch user.Role {
	case models.RoleUniversityID:
		b.WriteString("\nAfter an analysis you can submit the results for review. You may have one submission awaiting review at a time; if it is rejected you can load it for revision and resubmit.\n")
	case models.RoleUniversityLead:
		b.WriteString("\nAs a University Lead you review pending submissions (approve or reject, with notes) and can create University ID accounts.\n")
	case models.RoleAdmin:
		b.WriteString("\nAs an Admin you review pending submissions, manage every account role and oversee the full review workflow.\n")
	}

	b.WriteString("\nNotifications about your submissions and internal messages will appear in your mailbox.")
	return b.String()
}
