package controllers

import (
	"os"
	"time"

	"drugweb/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

var (
	db     *sqlx.DB
	secret []byte
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	QB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	userColumns     = []string{"id", "f_name", "l_name", "email", "password", "address", "phone", "created_at"}
	medicineColumns = []string{"med_code", "name", "generic_name", "category", "price", "stock"}
	paymentColumns  = []string{"payment_id", "customer_id", "amount", "payment_type", "deliveryman_id", "status", "delivery_date", "created_at"}
	requestColumns  = []string{"request_id", "customer_id", "request_med_name", "expected_date", "status", "created_at"}
)

func SetDB(database *sqlx.DB) {
	db = database
}

func SetJWTSecret(s []byte) {
	secret = s
}

// notifyCustomer appends a notification row for the customer. Runs on the
// given execer so it can take part in a transaction.
func notifyCustomer(ex sqlx.Execer, customerID, message, notifType string) error {
	query, args, err := QB.Insert("notifications").
		Columns("notification_id", "customer_id", "message", "type", "is_read", "created_at").
		Values(uuid.New(), customerID, message, notifType, false, time.Now()).
		ToSql()
	if err != nil {
		return err
	}
	_, err = ex.Exec(query, args...)
	return err
}

// nextUserID returns the next sequential user id for a role prefix,
// e.g. CM001, CM002 for customers.
func nextUserID(prefix string) (string, error) {
	// Order by length before value: plain DESC is lexical, so CM999 would
	// sort above CM1000 and the sequence would repeat an id.
	query, args, err := QB.Select("id").From("users").
		Where(squirrel.Like{"id": prefix + "%"}).
		OrderBy("LENGTH(id) DESC", "id DESC").Limit(1).ToSql()
	if err != nil {
		return "", err
	}

	var lastID string
	if err := db.Get(&lastID, query, args...); err != nil {
		// No user with this prefix yet, start the sequence
		lastID = ""
	}

	return utils.NextPrefixID(prefix, lastID), nil
}
