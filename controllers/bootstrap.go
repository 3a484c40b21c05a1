package controllers

import (
	"time"

	"drugweb/utils"
)

// EnsureAdmin creates the initial admin account when the admins table is
// empty. Signup only creates customers and every admin route is gated, so a
// fresh deployment has no other way into the admin surface. The account is
// taken from ADMIN_EMAIL / ADMIN_PASSWORD rather than seeded with a fixed
// password.
func EnsureAdmin(email, password string) error {
	query, args, err := QB.Select("COUNT(*)").From("admins").ToSql()
	if err != nil {
		return err
	}
	var count int
	if err := db.Get(&count, query, args...); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if email == "" || password == "" {
		logger.Warn().Msg("no admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set; admin routes are unreachable")
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	adminID, err := nextUserID("AD")
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err = QB.Insert("users").
		Columns(userColumns...).
		Values(adminID, "Admin", "User", email, hashedPassword, "", "", time.Now()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	query, args, err = QB.Insert("admins").Columns("admin_id").Values(adminID).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Info().Msgf("created initial admin account %s (%s)", adminID, email)
	return nil
}
