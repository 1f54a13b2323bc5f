package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money serializes as a JSON number, e.g. 150.5 rather than "150.5".
	decimal.MarshalJSONWithoutQuotes = true
}

// Order status constants
const (
	StatusOrderPlaced = "Order Placed"
	StatusProcessed   = "Processed"
	StatusShipped     = "Shipped"
	StatusDelivered   = "Delivered"
	StatusCancelled   = "Cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []string{
	StatusOrderPlaced,
	StatusProcessed,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// AdminID is the primary key of the singleton admin row.
const AdminID = 1

// Request types

type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ValidatePinRequest struct {
	Pin string `json:"pin" validate:"required"`
}

// ProductRequest is the body for both add and full-row update.
type ProductRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	ImageURL      string          `json:"image_url" validate:"omitempty,max=2048"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	Category      string          `json:"category" validate:"max=100"`
	SupplierID    *int64          `json:"supplier_id" validate:"omitempty,gt=0"`
	Rating        decimal.Decimal `json:"rating" validate:"gte=0,lte=5"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,orderstatus"`
}

type RescheduleOrderRequest struct {
	OrderDate string `json:"order_date" validate:"required"`
}

// UpdateAdminRequest always overwrites name, username and role. Password
// and Pin are only changed when non-empty.
type UpdateAdminRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"omitempty,min=8,maxbytes=72"`
	Pin      string `json:"pin" validate:"omitempty,numeric,min=4,max=12"`
	Role     string `json:"role" validate:"required,max=50"`
}

// Response types

type SignInResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type CheckAuthResponse struct {
	IsAuthenticated          bool   `json:"isAuthenticated"`
	UsernamePasswordVerified bool   `json:"usernamePasswordVerified"`
	ExpiresIn                *int64 `json:"expiresIn,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AddProductResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	OrderID string `json:"order_id"`
}

type ProductListResponse struct {
	Products    []Product `json:"products"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	TotalItems  int       `json:"totalItems"`
}

type OrderStatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type SalesDataResponse struct {
	PeriodSales    decimal.Decimal `json:"periodSales"`
	TotalOrders    int64           `json:"totalOrders"`
	TotalCustomers int64           `json:"totalCustomers"`
}

type RatedProductsCountResponse struct {
	RatedProductsCount int64 `json:"ratedProductsCount"`
}

type TotalProductsResponse struct {
	TotalProducts int64 `json:"totalProducts"`
}

type TotalStockResponse struct {
	TotalStock int64 `json:"totalStock"`
}

type AdminNameResponse struct {
	FullName string `json:"fullName"`
}

// AdminData is the admin row as exposed to the UI; secrets are masked.
type AdminData struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Pin      string `json:"pin"`
	Role     string `json:"role"`
}

// Domain types

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	Category      string          `json:"category"`
	SupplierID    *int64          `json:"supplier_id"`
	OrderID       string          `json:"order_id"`
	Rating        decimal.Decimal `json:"rating"`
	Deleted       bool            `json:"deleted"`
	CreatedAt     time.Time       `json:"created_at"`
}

type TopProduct struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	ImageURL string          `json:"image_url"`
	Rating   decimal.Decimal `json:"rating"`
	Sold     int64           `json:"sold"`
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	OrderDate       time.Time       `json:"order_date"`
	Status          string          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	InSalesReport   bool            `json:"in_sales_report"`
	OrderedProducts string          `json:"ordered_products"`
}

// OrderedProduct is one line item of an order.
type OrderedProduct struct {
	OrderID   int64  `json:"order_id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// SalesReportRow is one order included in the sales report.
type SalesReportRow struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	OrderDate time.Time       `json:"order_date"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
}

// Event is a domain change published after a successful mutation.
type Event struct {
	Type       string         `json:"type"`
	EntityID   string         `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Event types
const (
	EventProductAdded       = "product.added"
	EventProductUpdated     = "product.updated"
	EventProductDeleted     = "product.deleted"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderRescheduled   = "order.rescheduled"
	EventOrderRemovedReport = "order.removed_from_report"
	EventAdminUpdated       = "admin.updated"
)

// Error response

type ErrorResponse struct {
	Error string `json:"error"`
}
