package controllers

import (
	"net/http"

	"drugweb/middleware"
	"drugweb/models"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
)

// MyNotifications lists the customer's notifications, newest first.
func MyNotifications(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	query, args, err := QB.Select("notification_id", "customer_id", "message", "type", "is_read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"customer_id": session.UserID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	notifications := []models.Notification{}
	if err := db.Select(&notifications, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, notifications)
}

// MarkNotificationRead flips a notification's read flag, scoped to its owner.
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	notificationID := r.PathValue("id")
	if notificationID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Notification id is required")
		return
	}

	query, args, err := QB.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"notification_id": notificationID, "customer_id": session.UserID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update notification")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		utils.HandleError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Notification marked as read",
	})
}
