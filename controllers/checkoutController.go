package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"drugweb/middleware"
	"drugweb/models"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

func paymentIDExists(id string) (bool, error) {
	query, args, err := QB.Select("payment_id").From("payments").Where(squirrel.Eq{"payment_id": id}).ToSql()
	if err != nil {
		return false, err
	}
	var existing string
	if err := db.Get(&existing, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ProcessPayment turns the customer's cart into a payment record, awards
// loyalty points and clears the cart, all in one transaction.
func ProcessPayment(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	paymentType := r.FormValue("payment_type")
	if paymentType == "" {
		paymentType = "Cash on Delivery"
	}

	// Step 1: sum the cart
	query, args, err := QB.Select("COALESCE(SUM(total_price), 0)").From("cart").
		Where(squirrel.Eq{"customer_id": session.UserID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	var amount float64
	if err := db.Get(&amount, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch cart total")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if amount <= 0 {
		utils.HandleError(w, http.StatusBadRequest, "Your cart is empty")
		return
	}

	// Step 2: random numeric payment id, one retry with a longer id on collision
	paymentID := utils.RandomNumericID(6)
	exists, err := paymentIDExists(paymentID)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if exists {
		paymentID = utils.RandomNumericID(8)
		exists, err = paymentIDExists(paymentID)
		if err != nil || exists {
			utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
			logger.Error().Err(utils.ErrorWithTrace(err, "payment id collision")).Send()
			return
		}
	}

	points := utils.PointsForAmount(amount)

	// Steps 3-5 in one transaction: a failure rolls back payment, points and
	// cart together.
	tx, err := db.Beginx()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	defer tx.Rollback()

	query, args, err = QB.Insert("payments").
		Columns(paymentColumns...).
		Values(paymentID, session.UserID, amount, paymentType, nil, models.StatusPendingAssignment, nil, time.Now()).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	if points > 0 {
		query, args, err = QB.Update("customers").
			Set("points", squirrel.Expr("points + ?", points)).
			Where(squirrel.Eq{"customer_id": session.UserID}).
			ToSql()
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
			logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
			return
		}
		if _, err := tx.Exec(query, args...); err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
			logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
			return
		}

		query, args, err = QB.Insert("points_history").
			Columns("history_id", "customer_id", "points_earned", "transaction_type", "payment_id", "description", "created_at").
			Values(uuid.New(), session.UserID, points, "earned", paymentID,
				fmt.Sprintf("Earned %d points on payment %s", points, paymentID), time.Now()).
			ToSql()
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
			logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
			return
		}
		if _, err := tx.Exec(query, args...); err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
			logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
			return
		}
	}

	query, args, err = QB.Delete("cart").Where(squirrel.Eq{"customer_id": session.UserID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	if err := tx.Commit(); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Payment failed")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"payment_id":    paymentID,
		"amount":        amount,
		"points_earned": points,
		"message":       "Payment placed successfully",
	})
}

// CustomerOrders lists the customer's own payment history, newest first.
func CustomerOrders(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	query, args, err := QB.Select(paymentColumns...).From("payments").
		Where(squirrel.Eq{"customer_id": session.UserID}).
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
