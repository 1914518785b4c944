package handler

import (
	"net/http"
	"testing"

	"biometric-service/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestOrganizationCreateRequiresAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewOrganizationHandler(db)

	for _, role := range []model.Role{model.RoleUser, model.RoleOrganization} {
		c, rec := newRequest(t, http.MethodPost, "/api/organizations",
			`{"name":"Acme","contact_email":"contact@acme.test"}`, orgUser(1, 10, role))

		if err := h.Create(c); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("role %s: status = %d, want 403", role, rec.Code)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestOrganizationCreateDuplicateContact(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewOrganizationHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "contact_email"}).
			AddRow(1, "contact@acme.test"))

	c, rec := newRequest(t, http.MethodPost, "/api/organizations",
		`{"name":"Acme Clone","contact_email":"contact@acme.test"}`, orgUser(1, 10, model.RoleAdmin))

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestOrganizationCreate(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewOrganizationHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	c, rec := newRequest(t, http.MethodPost, "/api/organizations",
		`{"name":"Acme","contact_email":"contact@acme.test"}`, orgUser(1, 10, model.RoleAdmin))

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["name"] != "Acme" {
		t.Fatalf("name = %v", body["name"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrganizationGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewOrganizationHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newRequest(t, http.MethodGet, "/api/organizations/42", "", orgUser(1, 10, model.RoleAdmin))
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestOrganizationDeleteRestricted(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewOrganizationHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "contact_email"}).
			AddRow(4, "Acme", "contact@acme.test"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "biometric_data"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	c, rec := newRequest(t, http.MethodDelete, "/api/organizations/4", "", orgUser(1, 10, model.RoleAdmin))
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Organizations with members or records cannot be deleted.
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrganizationUpdatePartial(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewOrganizationHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "contact_email"}).
			AddRow(4, "Acme", "contact@acme.test"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "organizations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newRequest(t, http.MethodPut, "/api/organizations/4",
		`{"name":"Acme Labs"}`, orgUser(1, 10, model.RoleAdmin))
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["name"] != "Acme Labs" {
		t.Fatalf("name = %v, want Acme Labs", body["name"])
	}
	if body["contact_email"] != "contact@acme.test" {
		t.Fatalf("contact_email changed by partial update: %v", body["contact_email"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
