// Package domain defines the core entity types of the SnapServe ordering
// platform: users, tables, menu, orders, feedback, and inventory.
package domain

import "time"

// Role identifies what a user is allowed to do.
type Role string

// User roles.
const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

// Order lifecycle states.
const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderCancelled:
		return true
	}
	return false
}

// Active reports whether the order still needs staff attention.
func (s OrderStatus) Active() bool {
	return s == OrderPending || s == OrderPreparing || s == OrderReady
}

// User is a registered account (customer, staff, or admin).
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Restaurant holds the venue profile shown to customers.
type Restaurant struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Cuisine     string    `json:"cuisine,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Table is a physical table with its scannable QR code.
type Table struct {
	ID       int    `json:"id"`
	Number   string `json:"number"`
	QRCode   string `json:"qrCode"`
	Capacity int    `json:"capacity"`
	IsActive bool   `json:"isActive"`
}

// Category groups menu items for display.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    bool   `json:"isActive"`
}

// MenuItem is a single orderable dish or drink.
type MenuItem struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	IsAvailable bool     `json:"isAvailable"`
	IsPopular   bool     `json:"isPopular"`
	Allergens   []string `json:"allergens,omitempty"`
	CategoryID  int      `json:"categoryId"`
}

// Order is one table's order. Line items live in OrderItem.
type Order struct {
	ID            int         `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	Status        OrderStatus `json:"status"`
	Total         float64     `json:"total"`
	Notes         string      `json:"notes,omitempty"`
	EstimatedTime int         `json:"estimatedTime"` // minutes
	TableID       int         `json:"tableId"`
	CustomerID    int         `json:"customerId,omitempty"`
	StaffID       int         `json:"staffId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID         int     `json:"id"`
	OrderID    int     `json:"orderId"`
	MenuItemID int     `json:"menuItemId"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Notes      string  `json:"notes,omitempty"`
}

// OrderLine pairs a line item with the menu item it refers to.
type OrderLine struct {
	OrderItem
	MenuItem *MenuItem `json:"menuItem,omitempty"`
}

// OrderDetail is an order together with its line items. This is the shape
// carried by NEW_ORDER and ORDER_UPDATED events and by order list responses.
type OrderDetail struct {
	Order
	Items []OrderLine `json:"items"`
}

// Feedback is a customer rating with optional comment. Sentiment fields are
// filled in after analysis.
type Feedback struct {
	ID             int       `json:"id"`
	Rating         int       `json:"rating"` // 1-5 stars
	Comment        string    `json:"comment,omitempty"`
	Sentiment      Sentiment `json:"sentiment,omitempty"`
	SentimentScore float64   `json:"sentimentScore,omitempty"`
	OrderID        int       `json:"orderId,omitempty"`
	CustomerID     int       `json:"customerId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Sentiment classifies feedback tone.
type Sentiment string

// Sentiment classes.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SentimentAnalysis is the result of analyzing a feedback comment.
type SentimentAnalysis struct {
	Sentiment  Sentiment `json:"sentiment"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	Issues     []string  `json:"issues,omitempty"`
}

// FeedbackAlert is the payload of a NEGATIVE_FEEDBACK event: the stored
// feedback record merged with the analysis that triggered the alert.
type FeedbackAlert struct {
	Feedback
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues,omitempty"`
}

// InventoryItem is a stocked ingredient with an AI-predicted runway.
type InventoryItem struct {
	ID            int       `json:"id"`
	ItemName      string    `json:"itemName"`
	CurrentStock  int       `json:"currentStock"`
	MinStock      int       `json:"minStock"`
	Unit          string    `json:"unit"`
	PredictedDays int       `json:"predictedDays,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
