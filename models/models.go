package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        string    `json:"id" db:"id"`
	FName     string    `json:"f_name" db:"f_name"`
	LName     string    `json:"l_name" db:"l_name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Address   string    `json:"address,omitempty" db:"address"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Customer struct {
	CustomerID string `json:"customer_id" db:"customer_id"`
	Points     int    `json:"points" db:"points"`
}

type Admin struct {
	AdminID string `json:"admin_id" db:"admin_id"`
}

type DeliveryMan struct {
	DeliveryManID string `json:"deliveryman_id" db:"deliveryman_id"`
	Area          string `json:"area,omitempty" db:"area"`
}

type Medicine struct {
	MedCode     string  `json:"med_code" db:"med_code"`
	Name        string  `json:"name" db:"name"`
	GenericName string  `json:"generic_name,omitempty" db:"generic_name"`
	Category    string  `json:"category,omitempty" db:"category"`
	Price       float64 `json:"price" db:"price"`
	Stock       int     `json:"stock" db:"stock"`
}

type CartLine struct {
	CartID     uuid.UUID `json:"cart_id" db:"cart_id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	MedCode    string    `json:"med_code" db:"med_code"`
	Quantity   int       `json:"quantity" db:"quantity"`
	TotalPrice float64   `json:"total_price" db:"total_price"`
	AddedDate  time.Time `json:"added_date" db:"added_date"`
}

// CartView is a cart line joined with its medicine for display.
type CartView struct {
	CartID     uuid.UUID `json:"cart_id" db:"cart_id"`
	MedCode    string    `json:"med_code" db:"med_code"`
	Name       string    `json:"name" db:"name"`
	Price      float64   `json:"unit_price" db:"price"`
	Quantity   int       `json:"quantity" db:"quantity"`
	TotalPrice float64   `json:"total_price" db:"total_price"`
}

// Payment statuses. A payment starts unassigned, is assigned by an admin and
// then accepted or declined by the delivery man.
const (
	StatusPendingAssignment   = "Pending Assignment"
	StatusAssigned            = "Assigned"
	StatusAcceptedForDelivery = "Accepted for Delivery"
)

type Payment struct {
	PaymentID     string         `json:"payment_id" db:"payment_id"`
	CustomerID    string         `json:"customer_id" db:"customer_id"`
	Amount        float64        `json:"amount" db:"amount"`
	PaymentType   string         `json:"payment_type" db:"payment_type"`
	DeliveryManID sql.NullString `json:"deliveryman_id" db:"deliveryman_id"`
	Status        string         `json:"status" db:"status"`
	DeliveryDate  sql.NullTime   `json:"delivery_date" db:"delivery_date"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// Customer request statuses.
const (
	RequestPending  = "Pending"
	RequestAccepted = "Accepted"
	RequestDeclined = "Declined"
)

type CustomerRequest struct {
	RequestID    uuid.UUID `json:"request_id" db:"request_id"`
	CustomerID   string    `json:"customer_id" db:"customer_id"`
	MedName      string    `json:"request_med_name" db:"request_med_name"`
	ExpectedDate time.Time `json:"expected_date" db:"expected_date"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CustomerReview struct {
	ReviewID   uuid.UUID `json:"review_id" db:"review_id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	Review     string    `json:"review" db:"review"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type Notification struct {
	NotificationID uuid.UUID `json:"notification_id" db:"notification_id"`
	CustomerID     string    `json:"customer_id" db:"customer_id"`
	Message        string    `json:"message" db:"message"`
	Type           string    `json:"type" db:"type"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type PointsHistory struct {
	HistoryID       uuid.UUID `json:"history_id" db:"history_id"`
	CustomerID      string    `json:"customer_id" db:"customer_id"`
	PointsEarned    int       `json:"points_earned" db:"points_earned"`
	TransactionType string    `json:"transaction_type" db:"transaction_type"`
	PaymentID       string    `json:"payment_id" db:"payment_id"`
	Description     string    `json:"description" db:"description"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
