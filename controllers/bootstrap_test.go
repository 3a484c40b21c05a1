package controllers

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"drugweb/utils"

	"github.com/DATA-DOG/go-sqlmock"
)

// bcryptOf matches a bcrypt hash of the given plaintext.
type bcryptOf struct {
	plain string
}

func (b bcryptOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return utils.CheckPassword(s, b.plain) == nil
}

// On an empty deployment EnsureAdmin creates the AD001 user with a hashed
// password and its admins row.
func TestEnsureAdminCreatesFirstAdmin(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT id FROM users WHERE id LIKE \$1 ORDER BY LENGTH\(id\) DESC, id DESC`).
		WithArgs("AD%").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("AD001", "Admin", "User", "admin@test.com", bcryptOf{"admin123"}, "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO admins`).
		WithArgs("AD001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := EnsureAdmin("admin@test.com", "admin123"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// An existing admin is left alone.
func TestEnsureAdminSkipsWhenAdminExists(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	if err := EnsureAdmin("admin@test.com", "admin123"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("statements ran although an admin exists: %v", err)
	}
}

// Without credentials nothing is created; the server still starts.
func TestEnsureAdminWithoutCredentials(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	if err := EnsureAdmin("", ""); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("statements ran without credentials: %v", err)
	}
}

// The id sequence orders by length before value, so CM1000 sorts above
// CM999 and the next id moves forward instead of repeating.
func TestNextUserIDAfterThreeDigits(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT id FROM users WHERE id LIKE \$1 ORDER BY LENGTH\(id\) DESC, id DESC`).
		WithArgs("CM%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("CM1000"))

	id, err := nextUserID("CM")
	if err != nil {
		t.Fatalf("nextUserID: %v", err)
	}
	if id != "CM1001" {
		t.Errorf("nextUserID = %q, want CM1001", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
