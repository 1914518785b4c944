package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"biometric-service/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAuditListRequiresElevatedRole(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewAuditHandler(db)

	c, rec := newRequest(t, http.MethodGet, "/api/biometric/access-logs", "", orgUser(1, 10, model.RoleUser))

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestAuditListReturnsAllOrganizations(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewAuditHandler(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "access_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "organization_id", "action", "timestamp"}).
			AddRow(1, 1, 10, "create", now).
			AddRow(2, 2, 20, "read", now))

	c, rec := newRequest(t, http.MethodGet, "/api/biometric/access-logs", "", orgUser(1, 10, model.RoleOrganization))

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var logs []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// The listing is deliberately not tenant-filtered.
	if len(logs) != 2 {
		t.Fatalf("entries = %d, want 2", len(logs))
	}
}

func TestAuditSummary(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewAuditHandler(db)

	base := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM "access_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "organization_id", "action", "timestamp"}).
			AddRow(1, 1, 10, "create", base).
			AddRow(2, 1, 10, "read", base.Add(5*time.Minute)).
			AddRow(3, 2, 20, "read", base.Add(time.Hour)))

	c, rec := newRequest(t, http.MethodGet, "/api/biometric/access-analytics", "", orgUser(1, 10, model.RoleAdmin))

	if err := h.Summary(c); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["total_accesses"] != float64(3) {
		t.Fatalf("total_accesses = %v, want 3", body["total_accesses"])
	}
	actions, _ := body["access_by_action"].(map[string]interface{})
	if actions["read"] != float64(2) || actions["create"] != float64(1) {
		t.Fatalf("unexpected per-action counts: %v", actions)
	}
}
