package controllers

import (
	"net/http"

	"drugweb/middleware"
	"drugweb/models"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
)

// MyPoints returns the customer's points balance and the full earning ledger.
func MyPoints(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	query, args, err := QB.Select("points").From("customers").
		Where(squirrel.Eq{"customer_id": session.UserID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	var points int
	if err := db.Get(&points, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Customer not found")
		return
	}

	query, args, err = QB.Select("history_id", "customer_id", "points_earned", "transaction_type", "payment_id", "description", "created_at").
		From("points_history").
		Where(squirrel.Eq{"customer_id": session.UserID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	history := []models.PointsHistory{}
	if err := db.Select(&history, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch points history")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"points":  points,
		"history": history,
	})
}
