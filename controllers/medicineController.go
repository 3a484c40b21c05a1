package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"drugweb/models"
	"drugweb/utils"

	"github.com/Masterminds/squirrel"
)

const defaultPageSize = 12

// BrowseMedicines lists the catalog with search, category filter, sorting
// and pagination.
func BrowseMedicines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	builder := QB.Select(medicineColumns...).From("medicines")

	if search := strings.TrimSpace(q.Get("search")); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"generic_name": pattern},
		})
	}
	if category := q.Get("category"); category != "" {
		builder = builder.Where(squirrel.Eq{"category": category})
	}

	// Whitelisted sort keys only, anything else falls back to name
	orderBy := "name ASC"
	switch q.Get("sort") {
	case "price_asc":
		orderBy = "price ASC"
	case "price_desc":
		orderBy = "price DESC"
	case "name_desc":
		orderBy = "name DESC"
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}

	query, args, err := builder.
		OrderBy(orderBy).
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	medicines := []models.Medicine{}
	if err := db.Select(&medicines, query, args...); err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to fetch medicines")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"page":      page,
		"limit":     limit,
		"medicines": medicines,
	})
}

func GetMedicine(w http.ResponseWriter, r *http.Request) {
	medCode := r.PathValue("code")
	if medCode == "" {
		utils.HandleError(w, http.StatusBadRequest, "Medicine code is required")
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

	utils.SendJSONResponse(w, http.StatusOK, medicine)
}

// AddMedicine creates a catalog item (admin).
func AddMedicine(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	medCode := r.FormValue("med_code")
	name := r.FormValue("name")
	genericName := r.FormValue("generic_name")
	category := r.FormValue("category")
	price, errPrice := strconv.ParseFloat(r.FormValue("price"), 64)
	stock, errStock := strconv.Atoi(r.FormValue("stock"))

	if medCode == "" || name == "" || errPrice != nil || errStock != nil {
		utils.HandleError(w, http.StatusBadRequest, "Make sure you fill all fields")
		return
	}
	if price < 0 || stock < 0 {
		utils.HandleError(w, http.StatusBadRequest, "Price and stock must not be negative")
		return
	}

	medicine := models.Medicine{
		MedCode:     medCode,
		Name:        name,
		GenericName: genericName,
		Category:    category,
		Price:       price,
		Stock:       stock,
	}

	query, args, err := QB.Insert("medicines").
		Columns(medicineColumns...).
		Values(medicine.MedCode, medicine.Name, medicine.GenericName, medicine.Category, medicine.Price, medicine.Stock).
		ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	if _, err := db.Exec(query, args...); err != nil {
		utils.HandleError(w, http.StatusConflict, "Medicine with this code already exists")
		return
	}

	utils.SendJSONResponse(w, http.StatusCreated, medicine)
}

// UpdateMedicine updates price, stock or descriptive fields of a catalog item (admin).
func UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	medCode := r.PathValue("code")
	if medCode == "" {
		utils.HandleError(w, http.StatusBadRequest, "Medicine code is required")
		return
	}

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	builder := QB.Update("medicines").Where(squirrel.Eq{"med_code": medCode})
	changed := false

	if name := r.FormValue("name"); name != "" {
		builder = builder.Set("name", name)
		changed = true
	}
	if genericName := r.FormValue("generic_name"); genericName != "" {
		builder = builder.Set("generic_name", genericName)
		changed = true
	}
	if category := r.FormValue("category"); category != "" {
		builder = builder.Set("category", category)
		changed = true
	}
	if priceStr := r.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			utils.HandleError(w, http.StatusBadRequest, "Invalid price")
			return
		}
		builder = builder.Set("price", price)
		changed = true
	}
	if stockStr := r.FormValue("stock"); stockStr != "" {
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			utils.HandleError(w, http.StatusBadRequest, "Invalid stock")
			return
		}
		builder = builder.Set("stock", stock)
		changed = true
	}

	if !changed {
		utils.HandleError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	query, args, err := builder.ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to update medicine")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		utils.HandleError(w, http.StatusNotFound, "Medicine not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Medicine updated successfully",
	})
}

func DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	medCode := r.PathValue("code")
	if medCode == "" {
		utils.HandleError(w, http.StatusBadRequest, "Medicine code is required")
		return
	}

	query, args, err := QB.Delete("medicines").Where(squirrel.Eq{"med_code": medCode}).ToSql()
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to create query")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}

	res, err := db.Exec(query, args...)
	if err != nil {
		utils.HandleError(w, http.StatusInternalServerError, "Failed to delete medicine")
		logger.Error().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		utils.HandleError(w, http.StatusNotFound, "Medicine not found")
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Medicine deleted successfully",
	})
}
