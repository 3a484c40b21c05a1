package controllers

import (
	"net/http"
	"time"

	"drugweb/middleware"
	"drugweb/models"
	"drugweb/utils"

	"github.com/google/uuid"
)

// CreateReview stores a customer review.
func CreateReview(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	text := r.FormValue("review")
	if text == "" {
		utils.HandleError(w, http.StatusBadRequest, "Review text is required")
		return
	}

	review := models.CustomerReview{
		ReviewID:   uuid.New(),
		CustomerID: session.UserID,
		Review:     text,
		CreatedAt:  time.Now(),
	}

	query, args, err := QB.Insert("customer_reviews").
		Columns("review_id", "customer_id", "review", "created_at").
		Values(review.ReviewID, review.CustomerID, review.Review, review.CreatedAt).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to save review")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, review)
}

// ListReviews lists all customer reviews, newest first.
func ListReviews(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select("review_id", "customer_id", "review", "created_at").
		From("customer_reviews").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	reviews := []models.CustomerReview{}
	if err := db.Select(&reviews, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, reviews)
}
