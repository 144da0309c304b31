package services

import (
	"encoding/json"
	"strings"
	"testing"

	"accana-api/models"
	"accana-api/utils"
)

func TestSeededLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Authenticate("admin", "adminpass")
	if err != nil {
		t.Fatalf("seeded admin login failed: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected Admin role, got %s", user.Role)
	}

	if _, err := svc.Authenticate("admin", "wrong"); !utils.IsKind(err, utils.KindAuthentication) {
		t.Errorf("wrong password should be an authentication error, got %v", err)
	}
	if _, err := svc.Authenticate("ghost", "adminpass"); !utils.IsKind(err, utils.KindAuthentication) {
		t.Errorf("unknown user should be an authentication error, got %v", err)
	}

	lead, err := svc.Authenticate("lead", "leadpass")
	if err != nil {
		t.Fatalf("seeded lead login failed: %v", err)
	}
	if lead.Role != models.RoleUniversityLead {
		t.Errorf("expected University Lead role, got %s", lead.Role)
	}
}

func TestSeedingOnlyWhenEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	mustCreateUser(t, db, "existing", models.RoleUniversityID)

	if _, err := svc.Authenticate("admin", "adminpass"); !utils.IsKind(err, utils.KindAuthentication) {
		t.Errorf("seeds must not be installed into a populated registry, got %v", err)
	}
}

func TestLoginIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Authenticate("ADMIN", "adminpass")
	if err != nil {
		t.Fatalf("case-insensitive login failed: %v", err)
	}
	if user.Username != "admin" {
		t.Errorf("expected canonical username, got %q", user.Username)
	}
}

func TestRegisterRoleGates(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)
	lead := mustCreateUser(t, db, "lead1", models.RoleUniversityLead)
	student := mustCreateUser(t, db, "u1", models.RoleUniversityID)

	if _, _, err := svc.Register("newlead", "secret1", nil, models.RoleUniversityLead, admin); err != nil {
		t.Errorf("admin should be able to create any role: %v", err)
	}
	if _, _, err := svc.Register("newuser", "secret1", nil, models.RoleUniversityID, lead); err != nil {
		t.Errorf("lead should be able to create University ID accounts: %v", err)
	}
	if _, _, err := svc.Register("sneaky", "secret1", nil, models.RoleAdmin, lead); !utils.IsKind(err, utils.KindPermission) {
		t.Errorf("lead creating an admin should be a permission error, got %v", err)
	}
	if _, _, err := svc.Register("friend", "secret1", nil, models.RoleUniversityID, student); !utils.IsKind(err, utils.KindPermission) {
		t.Errorf("University ID users may not create accounts, got %v", err)
	}
}

func TestRegisterConflictIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)

	if _, _, err := svc.Register("Taken", "secret1", nil, models.RoleUniversityID, admin); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, _, err := svc.Register("taken", "secret1", nil, models.RoleUniversityID, admin); !utils.IsKind(err, utils.KindConflict) {
		t.Errorf("duplicate username should conflict regardless of case, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)

	if _, _, err := svc.Register("ab", "secret1", nil, models.RoleUniversityID, admin); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("short username should be rejected, got %v", err)
	}
	if _, _, err := svc.Register("fine", "123", nil, models.RoleUniversityID, admin); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("short password should be rejected, got %v", err)
	}
	bad := "not-an-email"
	if _, _, err := svc.Register("fine", "secret1", &bad, models.RoleUniversityID, admin); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("bad email should be rejected, got %v", err)
	}
}

func TestRegisterDeliversWelcomeMessage(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	messages := NewMessageService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)

	created, notice, err := svc.Register("newuser", "secret1", nil, models.RoleUniversityID, admin)
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if notice != "" {
		t.Errorf("unexpected degraded notice: %q", notice)
	}

	inbox, err := messages.InboxFor(*created)
	if err != nil {
		t.Fatalf("failed to load inbox: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("expected one welcome message, got %d", len(inbox))
	}
	msg := inbox[0]
	if msg.Subject != "Welcome to ACCANA" || msg.SenderUsername != admin.Username {
		t.Errorf("unexpected welcome message: %+v", msg)
	}
	if !strings.Contains(msg.Body, "submit the results for review") {
		t.Errorf("welcome body should describe the University ID workflow: %q", msg.Body)
	}

	lead, _, err := svc.Register("newlead", "secret1", nil, models.RoleUniversityLead, admin)
	if err != nil {
		t.Fatalf("lead registration failed: %v", err)
	}
	leadInbox, err := messages.InboxFor(*lead)
	if err != nil {
		t.Fatalf("failed to load lead inbox: %v", err)
	}
	if len(leadInbox) != 1 || !strings.Contains(leadInbox[0].Body, "review pending submissions") {
		t.Errorf("welcome body should describe the reviewer workflow: %+v", leadInbox)
	}
}

func TestPasswordNeverSerialized(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)

	created, _, err := svc.Register("newuser", "secret1", nil, models.RoleUniversityID, admin)
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	encoded, err := json.Marshal(created)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(encoded), "secret1") || strings.Contains(string(encoded), "password") {
		t.Errorf("password must not appear in JSON output: %s", encoded)
	}
}
