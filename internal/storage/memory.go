package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/pkg/errors"
)

// MemStore is a mutex-guarded in-memory Store implementation.
type MemStore struct {
	mu sync.RWMutex

	users       map[int]domain.User
	restaurants map[int]domain.Restaurant
	tables      map[int]domain.Table
	categories  map[int]domain.Category
	menuItems   map[int]domain.MenuItem
	orders      map[int]domain.Order
	orderItems  map[int]domain.OrderItem
	feedback    map[int]domain.Feedback
	inventory   map[int]domain.InventoryItem

	nextID map[string]int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:       make(map[int]domain.User),
		restaurants: make(map[int]domain.Restaurant),
		tables:      make(map[int]domain.Table),
		categories:  make(map[int]domain.Category),
		menuItems:   make(map[int]domain.MenuItem),
		orders:      make(map[int]domain.Order),
		orderItems:  make(map[int]domain.OrderItem),
		feedback:    make(map[int]domain.Feedback),
		inventory:   make(map[int]domain.InventoryItem),
		nextID:      make(map[string]int),
	}
}

// next returns the next id for an entity kind. Caller holds mu.
func (s *MemStore) next(kind string) int {
	s.nextID[kind]++
	return s.nextID[kind]
}

// GetUser returns the user with the given id.
func (s *MemStore) GetUser(_ context.Context, id int) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, errors.NewNotFoundError("user", strconv.Itoa(id))
	}
	return user, nil
}

// GetUserByEmail returns the user with the given email.
func (s *MemStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return domain.User{}, errors.NewNotFoundError("user", email)
}

// CreateUser stores a new user.
func (s *MemStore) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.next("user")
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

// GetRestaurant returns the restaurant profile.
func (s *MemStore) GetRestaurant(_ context.Context, id int) (domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	restaurant, ok := s.restaurants[id]
	if !ok {
		return domain.Restaurant{}, errors.NewNotFoundError("restaurant", strconv.Itoa(id))
	}
	return restaurant, nil
}

// CreateRestaurant stores a restaurant profile. Used by seeding.
func (s *MemStore) CreateRestaurant(_ context.Context, restaurant domain.Restaurant) (domain.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	restaurant.ID = s.next("restaurant")
	restaurant.CreatedAt = time.Now()
	s.restaurants[restaurant.ID] = restaurant
	return restaurant, nil
}

// ListTables returns all tables ordered by id.
func (s *MemStore) ListTables(_ context.Context) ([]domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tables := make([]domain.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].ID < tables[j].ID })
	return tables, nil
}

// GetTable returns the table with the given id.
func (s *MemStore) GetTable(_ context.Context, id int) (domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.tables[id]
	if !ok {
		return domain.Table{}, errors.NewNotFoundError("table", strconv.Itoa(id))
	}
	return table, nil
}

// GetTableByQR returns the table registered under the given QR code.
func (s *MemStore) GetTableByQR(_ context.Context, qrCode string) (domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, table := range s.tables {
		if table.QRCode == qrCode {
			return table, nil
		}
	}
	return domain.Table{}, errors.NewNotFoundError("table", qrCode)
}

// CreateTable stores a new table, generating its QR code when absent.
func (s *MemStore) CreateTable(_ context.Context, table domain.Table) (domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table.ID = s.next("table")
	if table.QRCode == "" {
		table.QRCode = uuid.NewString()
	}
	if table.Capacity == 0 {
		table.Capacity = 4
	}
	s.tables[table.ID] = table
	return table, nil
}

// UpdateTable applies a partial update to a table.
func (s *MemStore) UpdateTable(_ context.Context, id int, update TableUpdate) (domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[id]
	if !ok {
		return domain.Table{}, errors.NewNotFoundError("table", strconv.Itoa(id))
	}
	if update.Number != nil {
		table.Number = *update.Number
	}
	if update.Capacity != nil {
		table.Capacity = *update.Capacity
	}
	if update.IsActive != nil {
		table.IsActive = *update.IsActive
	}
	s.tables[id] = table
	return table, nil
}

// DeleteTable removes a table.
func (s *MemStore) DeleteTable(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[id]; !ok {
		return errors.NewNotFoundError("table", strconv.Itoa(id))
	}
	delete(s.tables, id)
	return nil
}

// ListCategories returns all categories sorted by display order.
func (s *MemStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

// CreateCategory stores a new category.
func (s *MemStore) CreateCategory(_ context.Context, category domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category.ID = s.next("category")
	s.categories[category.ID] = category
	return category, nil
}

// ListMenuItems returns all menu items ordered by id.
func (s *MemStore) ListMenuItems(_ context.Context) ([]domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.MenuItem, 0, len(s.menuItems))
	for _, item := range s.menuItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// GetMenuItem returns the menu item with the given id.
func (s *MemStore) GetMenuItem(_ context.Context, id int) (domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.menuItems[id]
	if !ok {
		return domain.MenuItem{}, errors.NewNotFoundError("menu item", strconv.Itoa(id))
	}
	return item, nil
}

// CreateMenuItem stores a new menu item.
func (s *MemStore) CreateMenuItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.next("menu_item")
	s.menuItems[item.ID] = item
	return item, nil
}

// UpdateMenuItem applies a partial update to a menu item.
func (s *MemStore) UpdateMenuItem(_ context.Context, id int, update MenuItemUpdate) (domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.menuItems[id]
	if !ok {
		return domain.MenuItem{}, errors.NewNotFoundError("menu item", strconv.Itoa(id))
	}
	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Price != nil {
		item.Price = *update.Price
	}
	if update.ImageURL != nil {
		item.ImageURL = *update.ImageURL
	}
	if update.IsAvailable != nil {
		item.IsAvailable = *update.IsAvailable
	}
	if update.IsPopular != nil {
		item.IsPopular = *update.IsPopular
	}
	if update.Allergens != nil {
		item.Allergens = *update.Allergens
	}
	if update.CategoryID != nil {
		item.CategoryID = *update.CategoryID
	}
	s.menuItems[id] = item
	return item, nil
}

// DeleteMenuItem removes a menu item.
func (s *MemStore) DeleteMenuItem(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.menuItems[id]; !ok {
		return errors.NewNotFoundError("menu item", strconv.Itoa(id))
	}
	delete(s.menuItems, id)
	return nil
}

// ListOrders returns all orders, newest first.
func (s *MemStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordersWhere(func(domain.Order) bool { return true }), nil
}

// OrdersByStatus returns orders in the given status, newest first.
func (s *MemStore) OrdersByStatus(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordersWhere(func(o domain.Order) bool { return o.Status == status }), nil
}

// OrdersByTable returns orders placed at the given table, newest first.
func (s *MemStore) OrdersByTable(_ context.Context, tableID int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordersWhere(func(o domain.Order) bool { return o.TableID == tableID }), nil
}

// ordersWhere filters orders. Caller holds mu.
func (s *MemStore) ordersWhere(keep func(domain.Order) bool) []domain.Order {
	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders
}

// GetOrder returns the order with the given id.
func (s *MemStore) GetOrder(_ context.Context, id int) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, errors.NewNotFoundError("order", strconv.Itoa(id))
	}
	return order, nil
}

// CreateOrder stores a new order, assigning its order number.
func (s *MemStore) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = s.next("order")
	order.OrderNumber = fmt.Sprintf("ORD-%04d", order.ID)
	if order.Status == "" {
		order.Status = domain.OrderPending
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	s.orders[order.ID] = order
	return order, nil
}

// UpdateOrder applies a partial update to an order.
func (s *MemStore) UpdateOrder(_ context.Context, id int, update OrderUpdate) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, errors.NewNotFoundError("order", strconv.Itoa(id))
	}
	if update.Status != nil {
		order.Status = *update.Status
	}
	if update.Notes != nil {
		order.Notes = *update.Notes
	}
	if update.EstimatedTime != nil {
		order.EstimatedTime = *update.EstimatedTime
	}
	if update.StaffID != nil {
		order.StaffID = *update.StaffID
	}
	order.UpdatedAt = time.Now()
	s.orders[id] = order
	return order, nil
}

// ItemsForOrder returns the line items of an order.
func (s *MemStore) ItemsForOrder(_ context.Context, orderID int) ([]domain.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.OrderItem, 0)
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// CreateOrderItem stores a new order line item.
func (s *MemStore) CreateOrderItem(_ context.Context, item domain.OrderItem) (domain.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.next("order_item")
	s.orderItems[item.ID] = item
	return item, nil
}

// ListFeedback returns all feedback, newest first.
func (s *MemStore) ListFeedback(_ context.Context) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]domain.Feedback, 0, len(s.feedback))
	for _, fb := range s.feedback {
		list = append(list, fb)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

// CreateFeedback stores a new feedback record.
func (s *MemStore) CreateFeedback(_ context.Context, fb domain.Feedback) (domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb.ID = s.next("feedback")
	fb.CreatedAt = time.Now()
	s.feedback[fb.ID] = fb
	return fb, nil
}

// UpdateFeedback applies a partial update to a feedback record.
func (s *MemStore) UpdateFeedback(_ context.Context, id int, update FeedbackUpdate) (domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb, ok := s.feedback[id]
	if !ok {
		return domain.Feedback{}, errors.NewNotFoundError("feedback", strconv.Itoa(id))
	}
	if update.Sentiment != nil {
		fb.Sentiment = *update.Sentiment
	}
	if update.SentimentScore != nil {
		fb.SentimentScore = *update.SentimentScore
	}
	s.feedback[id] = fb
	return fb, nil
}

// ListInventory returns all inventory items ordered by id.
func (s *MemStore) ListInventory(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// LowStockItems returns inventory items at or below their minimum stock.
func (s *MemStore) LowStockItems(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.InventoryItem, 0)
	for _, item := range s.inventory {
		if item.CurrentStock <= item.MinStock {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// CreateInventoryItem stores a new inventory item.
func (s *MemStore) CreateInventoryItem(_ context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.next("inventory")
	item.UpdatedAt = time.Now()
	s.inventory[item.ID] = item
	return item, nil
}

// UpdateInventoryItem applies a partial update to an inventory item.
func (s *MemStore) UpdateInventoryItem(_ context.Context, id int, update InventoryUpdate) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.inventory[id]
	if !ok {
		return domain.InventoryItem{}, errors.NewNotFoundError("inventory item", strconv.Itoa(id))
	}
	if update.CurrentStock != nil {
		item.CurrentStock = *update.CurrentStock
	}
	if update.MinStock != nil {
		item.MinStock = *update.MinStock
	}
	if update.PredictedDays != nil {
		item.PredictedDays = *update.PredictedDays
	}
	item.UpdatedAt = time.Now()
	s.inventory[id] = item
	return item, nil
}
