package controllers

import (
	"net/http"
	"time"

	"drugweb/models"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
)

// ListDeliveryMen lists delivery men with their user details so the admin
// can pick one to assign.
func ListDeliveryMen(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select("d.deliveryman_id", "u.f_name", "u.l_name", "u.email", "u.phone", "d.area").
		From("deliverymen d").
		Join("users u ON u.id = d.deliveryman_id").
		OrderBy("d.deliveryman_id ASC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	type deliveryManView struct {
		DeliveryManID string `json:"deliveryman_id" db:"deliveryman_id"`
		FName         string `json:"f_name" db:"f_name"`
		LName         string `json:"l_name" db:"l_name"`
		Email         string `json:"email" db:"email"`
		Phone         string `json:"phone" db:"phone"`
		Area          string `json:"area" db:"area"`
	}

	deliveryMen := []deliveryManView{}
	if err := db.Select(&deliveryMen, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch delivery men")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, deliveryMen)
}

// AddDeliveryMan creates a delivery man account (user row plus role row).
func AddDeliveryMan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	fName := r.FormValue("f_name")
	lName := r.FormValue("l_name")
	email := r.FormValue("email")
	password := r.FormValue("password")
	phone := r.FormValue("phone")
	area := r.FormValue("area")

	if fName == "" || lName == "" || email == "" || password == "" {
		utils.HandleError(w, http.StatusBadRequest, "Make sure you fill all fields")
		return
	}

	query, args, err := QB.Select("id", "email").From("users").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	existingUser := models.User{}
	if err := db.Get(&existingUser, query, args...); err == nil {
		utils.SendJSONResponse(w, http.StatusConflict, "Email already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to hash password")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	deliveryManID, err := nextUserID("DM")
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to generate delivery man id")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating account")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	defer tx.Rollback()

	query, args, err = QB.Insert("users").
		Columns(userColumns...).
		Values(deliveryManID, fName, lName, email, hashedPassword, "", phone, time.Now()).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating account")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating account")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	query, args, err = QB.Insert("deliverymen").
		Columns("deliveryman_id", "area").
		Values(deliveryManID, area).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating account")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := tx.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating account")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	if err := tx.Commit(); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Error creating account")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]string{
		"deliveryman_id": deliveryManID,
		"message":        "Delivery man account created",
	})
}

// ListCustomers lists customers with their points balance.
func ListCustomers(w http.ResponseWriter, r *http.Request) {
	query, args, err := QB.Select("c.customer_id", "u.f_name", "u.l_name", "u.email", "u.phone", "c.points").
		From("customers c").
		Join("users u ON u.id = c.customer_id").
		OrderBy("c.customer_id ASC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	type customerView struct {
		CustomerID string `json:"customer_id" db:"customer_id"`
		FName      string `json:"f_name" db:"f_name"`
		LName      string `json:"l_name" db:"l_name"`
		Email      string `json:"email" db:"email"`
		Phone      string `json:"phone" db:"phone"`
		Points     int    `json:"points" db:"points"`
	}

	customers := []customerView{}
	if err := db.Select(&customers, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch customers")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, customers)
}
