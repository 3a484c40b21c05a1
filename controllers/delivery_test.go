package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"drugweb/models"
	"drugweb/token"

	"github.com/DATA-DOG/go-sqlmock"
)

func assignedPaymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"payment_id", "customer_id", "amount", "payment_type", "deliveryman_id", "status", "delivery_date", "created_at"}).
		AddRow("100123", "CM001", 50.00, "Cash on Delivery", "DM001", models.StatusAssigned, nil, time.Now())
}

// Accepting an assigned order stores the delivery date, moves the payment to
// Accepted for Delivery and appends exactly one customer notification.
func TestAcceptDelivery(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT payment_id, customer_id, amount, payment_type, deliveryman_id, status, delivery_date, created_at FROM payments`).
		WithArgs("DM001", "100123", models.StatusAssigned).
		WillReturnRows(assignedPaymentRows())
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments SET status`).
		WithArgs(models.StatusAcceptedForDelivery, sqlmock.AnyArg(), "DM001", "100123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "CM001", sqlmock.AnyArg(), "delivery_update", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := formRequestAs(http.MethodPut, "/deliveryman/orders/100123/accept", url.Values{
		"delivery_date": {"2026-09-05"},
	}, "DM001", token.RoleDeliveryMan)
	req.SetPathValue("id", "100123")
	rec := httptest.NewRecorder()
	AcceptDelivery(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Declining an assigned order clears the delivery man, returns the payment
// to Pending Assignment and appends exactly one customer notification.
func TestDeclineDelivery(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT payment_id, customer_id, amount, payment_type, deliveryman_id, status, delivery_date, created_at FROM payments`).
		WithArgs("DM001", "100123", models.StatusAssigned).
		WillReturnRows(assignedPaymentRows())
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payments SET deliveryman_id`).
		WithArgs(nil, models.StatusPendingAssignment, "DM001", "100123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "CM001", sqlmock.AnyArg(), "delivery_update", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := formRequestAs(http.MethodPut, "/deliveryman/orders/100123/decline", nil, "DM001", token.RoleDeliveryMan)
	req.SetPathValue("id", "100123")
	rec := httptest.NewRecorder()
	DeclineDelivery(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// An order assigned to a different delivery man is not actionable.
func TestAcceptDeliveryNotAssigned(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(`SELECT payment_id, customer_id, amount, payment_type, deliveryman_id, status, delivery_date, created_at FROM payments`).
		WithArgs("DM002", "100123", models.StatusAssigned).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}))

	req := formRequestAs(http.MethodPut, "/deliveryman/orders/100123/accept", url.Values{
		"delivery_date": {"2026-09-05"},
	}, "DM002", token.RoleDeliveryMan)
	req.SetPathValue("id", "100123")
	rec := httptest.NewRecorder()
	AcceptDelivery(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
