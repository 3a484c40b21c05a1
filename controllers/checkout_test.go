package controllers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"drugweb/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	SetDB(sqlx.NewDb(mockDB, "sqlmock"))
	t.Cleanup(func() {
		SetDB(nil)
		mockDB.Close()
	})
	return mock
}

// A cart summing to 137.00 produces exactly one payment row of 137.00,
// credits 13 points, appends one ledger row and clears the cart, all
// inside one transaction.
func TestProcessPaymentHappyPath(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_price\), 0\) FROM cart`).
		WithArgs("CM001").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(137.00))
	mock.ExpectQuery(`SELECT payment_id FROM payments`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(sqlmock.AnyArg(), "CM001", 137.00, "Cash on Delivery", nil, models.StatusPendingAssignment, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE customers SET points = points \+ \$1`).
		WithArgs(13, "CM001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO points_history`).
		WithArgs(sqlmock.AnyArg(), "CM001", 13, "earned", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cart`).
		WithArgs("CM001").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	ProcessPayment(rec, formRequest(http.MethodPost, "/customer/checkout", url.Values{}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		PaymentID    string  `json:"payment_id"`
		Amount       float64 `json:"amount"`
		PointsEarned int     `json:"points_earned"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.PaymentID) != 6 {
		t.Errorf("payment id %q does not have 6 digits", resp.PaymentID)
	}
	if resp.Amount != 137.00 {
		t.Errorf("amount = %v, want 137.00", resp.Amount)
	}
	if resp.PointsEarned != 13 {
		t.Errorf("points_earned = %d, want 13", resp.PointsEarned)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// An empty cart never creates a payment row.
func TestProcessPaymentEmptyCart(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_price\), 0\) FROM cart`).
		WithArgs("CM001").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))

	rec := httptest.NewRecorder()
	ProcessPayment(rec, formRequest(http.MethodPost, "/customer/checkout", url.Values{}))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("payment statements ran for an empty cart: %v", err)
	}
}

// A failure mid-transaction rolls back everything; no partial commit.
func TestProcessPaymentRollsBackOnFailure(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_price\), 0\) FROM cart`).
		WithArgs("CM001").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(137.00))
	mock.ExpectQuery(`SELECT payment_id FROM payments`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(sqlmock.AnyArg(), "CM001", 137.00, "Cash on Delivery", nil, models.StatusPendingAssignment, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE customers SET points`).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	rec := httptest.NewRecorder()
	ProcessPayment(rec, formRequest(http.MethodPost, "/customer/checkout", url.Values{}))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// A store failure during the id-collision check fails the checkout instead
// of proceeding as if the id were free.
func TestProcessPaymentIDCheckStoreFailure(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_price\), 0\) FROM cart`).
		WithArgs("CM001").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(137.00))
	mock.ExpectQuery(`SELECT payment_id FROM payments`).
		WillReturnError(errors.New("connection reset"))

	rec := httptest.NewRecorder()
	ProcessPayment(rec, formRequest(http.MethodPost, "/customer/checkout", url.Values{}))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("statements ran after the failed id check: %v", err)
	}
}
