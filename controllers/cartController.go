package controllers

import (
	"net/http"
	"strconv"
	"time"

	"drugweb/middleware"
	"drugweb/models"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ViewCart lists the customer's cart lines with their total.
func ViewCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	query, args, err := QB.Select("c.cart_id", "c.med_code", "m.name", "m.price", "c.quantity", "c.total_price").
		From("cart c").
		Join("medicines m ON m.med_code = c.med_code").
		Where(squirrel.Eq{"c.customer_id": session.UserID}).
		OrderBy("c.added_date ASC").
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	items := []models.CartView{}
	if err := db.Select(&items, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch cart")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	var total float64
	for _, item := range items {
		total += item.TotalPrice
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"items":        items,
		"total_amount": total,
	})
}

// AddToCart adds a medicine to the customer's cart. An existing line for the
// same medicine is merged: quantity incremented, total recomputed from the
// current catalog price. Stock is checked but never reserved.
func AddToCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	medCode := r.FormValue("med_code")
	quantity, errQty := strconv.Atoi(r.FormValue("quantity"))
	if medCode == "" || errQty != nil {
		utils.HandleError(w, http.StatusBadRequest, "Make sure you fill all fields")
		return
	}
	if quantity < 1 {
		utils.HandleError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	query, args, err := QB.Select(medicineColumns...).From("medicines").Where(squirrel.Eq{"med_code": medCode}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	var medicine models.Medicine
	if err := db.Get(&medicine, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Medicine not found")
		return
	}

	// Look up an existing line for this (customer, medicine) pair
	query, args, err = QB.Select("cart_id", "customer_id", "med_code", "quantity", "total_price", "added_date").
		From("cart").
		Where(squirrel.Eq{"customer_id": session.UserID, "med_code": medCode}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	var line models.CartLine
	if err := db.Get(&line, query, args...); err == nil {
		newQuantity := line.Quantity + quantity
		if newQuantity > medicine.Stock {
			utils.HandleError(w, http.StatusBadRequest, "Not enough stock available")
			return
		}

		query, args, err = QB.Update("cart").
			Set("quantity", newQuantity).
			Set("total_price", float64(newQuantity)*medicine.Price).
			Where(squirrel.Eq{"cart_id": line.CartID, "customer_id": session.UserID}).
			ToSql()
		if err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
			logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
			return
		}
		if _, err := db.Exec(query, args...); err != nil {
			utils.HandleError(w, http.StatusInternalServerError, "Failed to update cart")
			logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
			return
		}

		utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
			"cart_id":  line.CartID,
			"quantity": newQuantity,
			"message":  medicine.Name + " quantity updated in cart",
		})
		return
	}

	if quantity > medicine.Stock {
		utils.HandleError(w, http.StatusBadRequest, "Not enough stock available")
		return
	}

	line = models.CartLine{
		CartID:     uuid.New(),
		CustomerID: session.UserID,
		MedCode:    medCode,
		Quantity:   quantity,
		TotalPrice: float64(quantity) * medicine.Price,
		AddedDate:  time.Now(),
	}

	query, args, err = QB.Insert("cart").
		Columns("cart_id", "customer_id", "med_code", "quantity", "total_price", "added_date").
		Values(line.CartID, line.CustomerID, line.MedCode, line.Quantity, line.TotalPrice, line.AddedDate).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to add to cart")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"cart_id":  line.CartID,
		"quantity": line.Quantity,
		"message":  medicine.Name + " added to cart",
	})
}

// UpdateCartLine sets a new quantity on a cart line. The cached total is
// recomputed from the current catalog price, so price changes show up in
// pending carts.
func UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	cartID := r.PathValue("id")
	if cartID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Cart id is required")
		return
	}

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 1 {
		utils.HandleError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	query, args, err := QB.Select("cart_id", "customer_id", "med_code", "quantity", "total_price", "added_date").
		From("cart").
		Where(squirrel.Eq{"cart_id": cartID, "customer_id": session.UserID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	var line models.CartLine
	if err := db.Get(&line, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Cart item not found")
		return
	}

	query, args, err = QB.Select(medicineColumns...).From("medicines").Where(squirrel.Eq{"med_code": line.MedCode}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	var medicine models.Medicine
	if err := db.Get(&medicine, query, args...); err != nil {
		utils.HandleError(w, http.StatusNotFound, "Medicine not found")
		return
	}

	if quantity > medicine.Stock {
		utils.HandleError(w, http.StatusBadRequest, "Not enough stock available")
		return
	}

	query, args, err = QB.Update("cart").
		Set("quantity", quantity).
		Set("total_price", float64(quantity)*medicine.Price).
		Where(squirrel.Eq{"cart_id": cartID, "customer_id": session.UserID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update cart")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"cart_id":     cartID,
		"quantity":    quantity,
		"total_price": float64(quantity) * medicine.Price,
	})
}

// RemoveCartLine deletes a cart line. The delete is scoped to the owning
// customer, so a foreign cart id removes nothing.
func RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r)

	cartID := r.PathValue("id")
	if cartID == "" {
		utils.HandleError(w, http.StatusBadRequest, "Cart id is required")
		return
	}

	query, args, err := QB.Delete("cart").
		Where(squirrel.Eq{"cart_id": cartID, "customer_id": session.UserID}).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to remove from cart")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		utils.HandleError(w, http.StatusNotFound, "Cart item not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Item removed from cart",
	})
}
