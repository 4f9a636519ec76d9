package handlers

import (
	"net/http"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/response"
	"github.com/snapserve/snapserve/internal/storage"
)

// menuResponse is the combined payload of GET /api/menu.
type menuResponse struct {
	Categories []domain.Category `json:"categories"`
	Items      []domain.MenuItem `json:"items"`
}

// HandleMenu returns the full menu: categories plus items in one response, so
// the customer view renders from a single fetch.
func (h *Handlers) HandleMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := h.cache.Get("menu"); ok {
		response.OK(w, cached)
		return
	}

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}
	items, err := h.store.ListMenuItems(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	menu := menuResponse{Categories: categories, Items: items}
	h.cache.Set("menu", menu)
	response.OK(w, menu)
}

// HandleListCategories returns all menu categories.
func (h *Handlers) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, categories)
}

// HandleCreateCategory adds a menu category.
func (h *Handlers) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := decode(r, &category); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}
	if category.Name == "" {
		response.BadRequest(w, "Invalid data", "name is required")
		return
	}
	category.IsActive = true

	category, err := h.store.CreateCategory(r.Context(), category)
	if err != nil {
		response.FromError(w, err)
		return
	}
	h.cache.Delete("menu")
	response.Created(w, category)
}

// HandleListMenuItems returns all menu items.
func (h *Handlers) HandleListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListMenuItems(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, items)
}

// HandleCreateMenuItem adds a menu item.
func (h *Handlers) HandleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if err := decode(r, &item); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}
	if item.Name == "" || item.Price <= 0 || item.CategoryID == 0 {
		response.BadRequest(w, "Invalid data", "name, price, and categoryId are required")
		return
	}
	item.IsAvailable = true

	item, err := h.store.CreateMenuItem(r.Context(), item)
	if err != nil {
		response.FromError(w, err)
		return
	}
	h.cache.Delete("menu")
	response.Created(w, item)
}

// updateMenuItemRequest is the body of PUT /api/menu-items/{id}.
type updateMenuItemRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	ImageURL    *string   `json:"imageUrl"`
	IsAvailable *bool     `json:"isAvailable"`
	IsPopular   *bool     `json:"isPopular"`
	Allergens   *[]string `json:"allergens"`
	CategoryID  *int      `json:"categoryId"`
}

// HandleUpdateMenuItem applies a partial update to a menu item.
func (h *Handlers) HandleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/menu-items/")
	if !ok {
		badID(w)
		return
	}

	var req updateMenuItemRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid data", err.Error())
		return
	}

	item, err := h.store.UpdateMenuItem(r.Context(), id, storage.MenuItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
		IsPopular:   req.IsPopular,
		Allergens:   req.Allergens,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	h.cache.Delete("menu")
	response.OK(w, item)
}

// HandleDeleteMenuItem removes a menu item.
func (h *Handlers) HandleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/menu-items/")
	if !ok {
		badID(w)
		return
	}
	if err := h.store.DeleteMenuItem(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	h.cache.Delete("menu")
	response.OK(w, map[string]bool{"deleted": true})
}

// HandleRestaurant returns the venue profile.
func (h *Handlers) HandleRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.store.GetRestaurant(r.Context(), 1)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, restaurant)
}
