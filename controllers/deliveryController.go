package controllers

import (
	"net/http"
	"time"

	"drugweb/middleware"
	"drugweb/models"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
)

// AdminOrders lists every payment for the admin, newest first.
func AdminOrders(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select(paymentColumns...).From("payments").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	payments := []models.Payment{}
	if err := db.Select(&payments, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch orders")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, payments)
}

// AssignDeliveryMan (re)assigns a delivery man to a payment. Any previous
// assignment is overwritten and the payment moves to Assigned.
func AssignDeliveryMan(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("id")
	if paymentID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Payment id is required")
		return
	}

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	deliveryManID := r.FormValue("deliveryman_id")
	if deliveryManID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Delivery man id is required")
		return
	}

	query, args, err := QB.Select("deliveryman_id").From("deliverymen").
		Where(squirrel.Eq{"deliveryman_id": deliveryManID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	var existing string
	if err := db.Get(&existing, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Delivery man not found")
		return
	}

	query, args, err = QB.Update("payments").
		Set("deliveryman_id", deliveryManID).
		Set("status", models.StatusAssigned).
		Where(squirrel.Eq{"payment_id": paymentID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to assign delivery man")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		utils.HandleError(w, http.StatusNotFound, "Payment not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"payment_id":     paymentID,
		"deliveryman_id": deliveryManID,
		"status":         models.StatusAssigned,
	})
}

// DeliveryManOrders lists the payments assigned to the authenticated
// delivery man, newest first.
func DeliveryManOrders(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	query, args, err := QB.Select(paymentColumns...).From("payments").
		Where(squirrel.Eq{"deliveryman_id": session.UserID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	payments := []models.Payment{}
	if err := db.Select(&payments, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch orders")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, payments)
}

// assignedPayment fetches a payment currently assigned to the delivery man.
func assignedPayment(paymentID, deliveryManID string) (*models.Payment, error) {
	query, args, err := QB.Select(paymentColumns...).From("payments").
		Where(squirrel.Eq{
			"payment_id":     paymentID,
			"deliveryman_id": deliveryManID,
			"status":         models.StatusAssigned,
		}).ToSql()
	if err != nil {
		return nil, err
	}

	var payment models.Payment
	if err := db.Get(&payment, query, args...); err != nil {
		return nil, err
	}
	return &payment, nil
}

// AcceptDelivery commits the delivery man to an assigned payment with a
// delivery date, and notifies the customer.
func AcceptDelivery(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	paymentID := r.PathValue("id")
	if paymentID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Payment id is required")
		return
	}

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	deliveryDate, err := time.Parse("2006-01-02", r.FormValue("delivery_date"))
	if err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Delivery date must be YYYY-MM-DD")
		return
	}

	payment, err := assignedPayment(paymentID, session.UserID)
	if err != nil {
		utils.HandleError(w, http.StatusNotFound, "No assigned order with this id")
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to accept delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	defer tx.Rollback()

	query, args, err := QB.Update("payments").
		Set("status", models.StatusAcceptedForDelivery).
		Set("delivery_date", deliveryDate).
		Where(squirrel.Eq{"payment_id": paymentID, "deliveryman_id": session.UserID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to accept delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to accept delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	message := "Your order " + paymentID + " is accepted for delivery on " + deliveryDate.Format("2006-01-02") + "."
	if err := notifyCustomer(tx, payment.CustomerID, message, "delivery_update"); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to accept delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	if err := tx.Commit(); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to accept delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"payment_id":    paymentID,
		"status":        models.StatusAcceptedForDelivery,
		"delivery_date": deliveryDate.Format("2006-01-02"),
	})
}

// DeclineDelivery hands an assigned payment back: the delivery man is
// cleared, the payment returns to Pending Assignment and the customer is
// notified. The admin can then re-assign it.
func DeclineDelivery(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	paymentID := r.PathValue("id")
	if paymentID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Payment id is required")
		return
	}

	payment, err := assignedPayment(paymentID, session.UserID)
	if err != nil {
		utils.HandleError(w, http.StatusNotFound, "No assigned order with this id")
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to decline delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	defer tx.Rollback()

	query, args, err := QB.Update("payments").
		Set("deliveryman_id", nil).
		Set("status", models.StatusPendingAssignment).
		Where(squirrel.Eq{"payment_id": paymentID, "deliveryman_id": session.UserID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to decline delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to decline delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	message := "Your order " + paymentID + " is waiting for a new delivery assignment."
	if err := notifyCustomer(tx, payment.CustomerID, message, "delivery_update"); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to decline delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	if err := tx.Commit(); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to decline delivery")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"payment_id": paymentID,
		"status":     models.StatusPendingAssignment,
	})
}
