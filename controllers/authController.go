package controllers

import (
	"net/http"
	"time"

	"drugweb/models"
	"drugweb/token"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
)

// Signup registers a new customer account.
func Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	fName := r.FormValue("f_name")
	lName := r.FormValue("l_name")
	email := r.FormValue("email")
	password := r.FormValue("password")
	address := r.FormValue("address")
	phone := r.FormValue("phone")

	if fName == "" || lName == "" || email == "" || password == "" {
		utils.HandleError(w, http.StatusBadRequest, "Make sure you fill all fields")
		return
	}

	// Check if the email is already registered
	query, args, err := QB.Select("id", "email").From("users").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to select user")
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

	customerID, err := nextUserID("CM")
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to generate customer id")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	user := models.User{
		ID:        customerID,
		FName:     fName,
		LName:     lName,
		Email:     email,
		Password:  hashedPassword,
		Address:   address,
		Phone:     phone,
		CreatedAt: time.Now(),
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
		Values(user.ID, user.FName, user.LName, user.Email, user.Password, user.Address, user.Phone, user.CreatedAt).
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

	// New customers start with zero loyalty points
	query, args, err = QB.Insert("customers").Columns("customer_id", "points").Values(user.ID, 0).ToSql()
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
		"id":      user.ID,
		"message": "Account created successfully! Please login.",
	})
}

// Login authenticates a user against its role table and returns a session token.
func Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	userType := r.FormValue("user_type")

	if email == "" || password == "" || userType == "" {
		utils.HandleError(w, http.StatusBadRequest, "Email, password and user type are required")
		return
	}

	var roleTable, roleColumn string
	switch userType {
	case token.RoleAdmin:
		roleTable, roleColumn = "admins", "admin_id"
	case token.RoleDeliveryMan:
		roleTable, roleColumn = "deliverymen", "deliveryman_id"
	case token.RoleCustomer:
		roleTable, roleColumn = "customers", "customer_id"
	default:
		utils.HandleError(w, http.StatusBadRequest, "Unknown user type")
		return
	}

	var user models.User
	query, args, err := QB.Select(userColumns...).From("users").Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if err := db.Get(&user, query, args...); err != nil {
		utils.HandleError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		utils.HandleError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	// The user must also be present in the table for the requested role
	query, args, err = QB.Select(roleColumn).From(roleTable).Where(squirrel.Eq{roleColumn: user.ID}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	var roleID string
	if err := db.Get(&roleID, query, args...); err != nil {
		utils.HandleError(w, http.StatusUnauthorized, "Invalid "+userType+" credentials")
		return
	}

	displayName := user.FName + " " + user.LName
	tkn, err := token.Generate(secret, user.ID, userType, displayName)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create session")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"token":     tkn,
		"user_id":   user.ID,
		"user_type": userType,
		"user_name": displayName,
	})
}
