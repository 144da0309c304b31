package services

import (
	"testing"

	"accana-api/models"
	"accana-api/utils"
)

func TestSendToUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	sender := mustCreateUser(t, db, "admin1", models.RoleAdmin)

	_, err := svc.Send(sender, models.RecipientTypeUser, "ghost", "hi", "body")
	if !utils.IsKind(err, utils.KindNotFound) {
		t.Errorf("unknown recipient should be not-found, got %v", err)
	}
	_, err = svc.Send(sender, models.RecipientTypeRole, "Super User", "hi", "body")
	if !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("unknown role should be a validation error, got %v", err)
	}
	_, err = svc.Send(sender, models.RecipientTypeUser, "admin1", "", "body")
	if !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("blank subject should be a validation error, got %v", err)
	}
}

func TestRoleBroadcastReachesEveryHolder(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)
	lead1 := mustCreateUser(t, db, "lead1", models.RoleUniversityLead)
	lead2 := mustCreateUser(t, db, "lead2", models.RoleUniversityLead)
	student := mustCreateUser(t, db, "u1", models.RoleUniversityID)

	msg, err := svc.Send(admin, models.RecipientTypeRole, "University Lead", "heads up", "quarterly review")
	if err != nil {
		t.Fatalf("role send failed: %v", err)
	}

	for _, lead := range []models.User{lead1, lead2} {
		inbox, err := svc.InboxFor(lead)
		if err != nil {
			t.Fatalf("inbox for %s failed: %v", lead.Username, err)
		}
		if len(inbox) != 1 || inbox[0].MessageID != msg.MessageID {
			t.Errorf("broadcast missing from %s inbox: %+v", lead.Username, inbox)
		}
	}

	inbox, err := svc.InboxFor(student)
	if err != nil {
		t.Fatalf("inbox for student failed: %v", err)
	}
	if len(inbox) != 0 {
		t.Errorf("broadcast must not reach other roles: %+v", inbox)
	}
}

func TestReadStateIsPerReader(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)
	lead1 := mustCreateUser(t, db, "lead1", models.RoleUniversityLead)
	lead2 := mustCreateUser(t, db, "lead2", models.RoleUniversityLead)

	msg, err := svc.Send(admin, models.RecipientTypeRole, "University Lead", "heads up", "body")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if err := svc.MarkRead(msg.MessageID, lead1); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	// Idempotent.
	if err := svc.MarkRead(msg.MessageID, lead1); err != nil {
		t.Fatalf("repeated mark read failed: %v", err)
	}

	count1, err := svc.UnreadInboxCount(lead1)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	count2, err := svc.UnreadInboxCount(lead2)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count1 != 0 || count2 != 1 {
		t.Errorf("read state leaked across readers: lead1=%d lead2=%d", count1, count2)
	}

	inbox, err := svc.InboxFor(lead2)
	if err != nil {
		t.Fatalf("inbox failed: %v", err)
	}
	if !inbox[0].ReadBy["lead1"] || inbox[0].ReadBy["lead2"] {
		t.Errorf("unexpected ReadBy map: %v", inbox[0].ReadBy)
	}
}

func TestDeleteReadInboxHidesOnlyForThatReader(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)
	lead1 := mustCreateUser(t, db, "lead1", models.RoleUniversityLead)
	lead2 := mustCreateUser(t, db, "lead2", models.RoleUniversityLead)

	read, err := svc.Send(admin, models.RecipientTypeRole, "University Lead", "old news", "body")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	unread, err := svc.Send(admin, models.RecipientTypeRole, "University Lead", "fresh news", "body")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if err := svc.MarkRead(read.MessageID, lead1); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	removed, err := svc.DeleteReadInbox(lead1)
	if err != nil {
		t.Fatalf("delete read failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected one hidden message, got %d", removed)
	}

	inbox1, err := svc.InboxFor(lead1)
	if err != nil {
		t.Fatalf("inbox failed: %v", err)
	}
	if len(inbox1) != 1 || inbox1[0].MessageID != unread.MessageID {
		t.Errorf("unread message should survive the purge: %+v", inbox1)
	}

	// The other recipient still sees both.
	inbox2, err := svc.InboxFor(lead2)
	if err != nil {
		t.Fatalf("inbox failed: %v", err)
	}
	if len(inbox2) != 2 {
		t.Errorf("hiding must be per reader, lead2 sees %d messages", len(inbox2))
	}
}

func TestSentByShowsReaders(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	admin := mustCreateUser(t, db, "admin1", models.RoleAdmin)
	lead := mustCreateUser(t, db, "lead1", models.RoleUniversityLead)

	msg, err := svc.Send(admin, models.RecipientTypeUser, "lead1", "direct", "body")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := svc.MarkRead(msg.MessageID, lead); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	sent, err := svc.SentBy(admin)
	if err != nil {
		t.Fatalf("sent listing failed: %v", err)
	}
	if len(sent) != 1 || !sent[0].ReadBy["lead1"] {
		t.Errorf("sender should see who has read the message: %+v", sent)
	}
}
