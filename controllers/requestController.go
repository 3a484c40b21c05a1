package controllers

import (
	"net/http"
	"time"

	"drugweb/middleware"
	"drugweb/models"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// CreateRequest records a customer's ask for a medicine not currently
// orderable. It starts in Pending until an admin acts on it.
func CreateRequest(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	medName := r.FormValue("request_med_name")
	expectedDateStr := r.FormValue("expected_date")
	if medName == "" || expectedDateStr == "" {
		utils.HandleError(w, http.StatusBadRequest, "Make sure you fill all fields")
		return
	}

	expectedDate, err := time.Parse("2006-01-02", expectedDateStr)
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Expected date must be YYYY-MM-DD")
		return
	}

	request := models.CustomerRequest{
		RequestID:    uuid.New(),
		CustomerID:   session.UserID,
		MedName:      medName,
		ExpectedDate: expectedDate,
		Status:       models.RequestPending,
		CreatedAt:    time.Now(),
	}

	query, args, err := QB.Insert("customer_requests").
		Columns(requestColumns...).
		Values(request.RequestID, request.CustomerID, request.MedName, request.ExpectedDate, request.Status, request.CreatedAt).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create request")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, request)
}

// MyRequests lists the customer's own requests, newest first.
func MyRequests(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	query, args, err := QB.Select(requestColumns...).From("customer_requests").
		Where(squirrel.Eq{"customer_id": session.UserID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	requests := []models.CustomerRequest{}
	if err := db.Select(&requests, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch requests")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, requests)
}

// ListRequests shows all customer requests to the admin, newest first.
func ListRequests(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select(requestColumns...).From("customer_requests").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	requests := []models.CustomerRequest{}
	if err := db.Select(&requests, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch requests")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, requests)
}

// HandleRequestAction accepts or declines a single pending request, keyed by
// its unique id, and notifies the customer.
func HandleRequestAction(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Request id is required")
		return
	}

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	var status string
	switch r.FormValue("action") {
	case "accept":
		status = models.RequestAccepted
	case "decline":
		status = models.RequestDeclined
	default:
		utils.HandleError(w, http.StatusBadRequest, "Action must be accept or decline")
		return
	}

	query, args, err := QB.Select(requestColumns...).From("customer_requests").
		Where(squirrel.Eq{"request_id": requestID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	var request models.CustomerRequest
	if err := db.Get(&request, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Request not found")
		return
	}
	if request.Status != models.RequestPending {
		utils.HandleError(w, http.StatusBadRequest, "Request has already been handled")
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update request")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	defer tx.Rollback()

	query, args, err = QB.Update("customer_requests").
		Set("status", status).
		Where(squirrel.Eq{"request_id": requestID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update request")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	message := "Your request for " + request.MedName + " has been " + status + "."
	if err := notifyCustomer(tx, request.CustomerID, message, "request_update"); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update request")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	if err := tx.Commit(); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update request")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"request_id": requestID,
		"status":     status,
	})
}
