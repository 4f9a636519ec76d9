// Package storage persists the platform's entities. The broadcast core only
// consumes the simple create/read/update surface defined here; the shipped
// implementation is an in-memory store seeded from a YAML fixture.
package storage

import (
	"context"

	"github.com/snapserve/snapserve/internal/domain"
)

// Store is the persistence surface consumed by the HTTP handlers.
type Store interface {
	// Users
	GetUser(ctx context.Context, id int) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)

	// Restaurant
	GetRestaurant(ctx context.Context, id int) (domain.Restaurant, error)

	// Tables
	ListTables(ctx context.Context) ([]domain.Table, error)
	GetTable(ctx context.Context, id int) (domain.Table, error)
	GetTableByQR(ctx context.Context, qrCode string) (domain.Table, error)
	CreateTable(ctx context.Context, table domain.Table) (domain.Table, error)
	UpdateTable(ctx context.Context, id int, update TableUpdate) (domain.Table, error)
	DeleteTable(ctx context.Context, id int) error

	// Categories
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)

	// Menu items
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int, update MenuItemUpdate) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int) error

	// Orders
	ListOrders(ctx context.Context) ([]domain.Order, error)
	OrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	OrdersByTable(ctx context.Context, tableID int) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int) (domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	UpdateOrder(ctx context.Context, id int, update OrderUpdate) (domain.Order, error)

	// Order items
	ItemsForOrder(ctx context.Context, orderID int) ([]domain.OrderItem, error)
	CreateOrderItem(ctx context.Context, item domain.OrderItem) (domain.OrderItem, error)

	// Feedback
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	CreateFeedback(ctx context.Context, fb domain.Feedback) (domain.Feedback, error)
	UpdateFeedback(ctx context.Context, id int, update FeedbackUpdate) (domain.Feedback, error)

	// Inventory
	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
	LowStockItems(ctx context.Context) ([]domain.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, id int, update InventoryUpdate) (domain.InventoryItem, error)
}

// TableUpdate is a partial update to a table. Nil fields are left unchanged.
type TableUpdate struct {
	Number   *string
	Capacity *int
	IsActive *bool
}

// MenuItemUpdate is a partial update to a menu item.
type MenuItemUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	IsAvailable *bool
	IsPopular   *bool
	Allergens   *[]string
	CategoryID  *int
}

// OrderUpdate is a partial update to an order.
type OrderUpdate struct {
	Status        *domain.OrderStatus
	Notes         *string
	EstimatedTime *int
	StaffID       *int
}

// FeedbackUpdate is a partial update to a feedback record.
type FeedbackUpdate struct {
	Sentiment      *domain.Sentiment
	SentimentScore *float64
}

// InventoryUpdate is a partial update to an inventory item.
type InventoryUpdate struct {
	CurrentStock  *int
	MinStock      *int
	PredictedDays *int
}
