package storage

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/snapserve/snapserve/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the YAML fixture layout used to populate a fresh store.
type Seed struct {
	Restaurant domain.Restaurant      `yaml:"restaurant"`
	Users      []domain.User          `yaml:"users"`
	Tables     []domain.Table         `yaml:"tables"`
	Categories []seedCategory         `yaml:"categories"`
	Inventory  []domain.InventoryItem `yaml:"inventory"`
}

// seedCategory nests menu items under their category so the fixture does not
// need to hand-maintain category ids.
type seedCategory struct {
	domain.Category `yaml:",inline"`
	Items           []domain.MenuItem `yaml:"items"`
}

// ParseSeed decodes a YAML seed fixture.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed fixture: %w", err)
	}
	return &seed, nil
}

// DefaultSeed returns the embedded seed fixture.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// Apply populates the store from the seed.
func (seed *Seed) Apply(ctx context.Context, store *MemStore) error {
	if _, err := store.CreateRestaurant(ctx, seed.Restaurant); err != nil {
		return err
	}
	for _, user := range seed.Users {
		if _, err := store.CreateUser(ctx, user); err != nil {
			return err
		}
	}
	for _, table := range seed.Tables {
		if _, err := store.CreateTable(ctx, table); err != nil {
			return err
		}
	}
	for _, sc := range seed.Categories {
		category, err := store.CreateCategory(ctx, sc.Category)
		if err != nil {
			return err
		}
		for _, item := range sc.Items {
			item.CategoryID = category.ID
			if _, err := store.CreateMenuItem(ctx, item); err != nil {
				return err
			}
		}
	}
	for _, item := range seed.Inventory {
		if _, err := store.CreateInventoryItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// NewSeededStore creates an in-memory store populated from the embedded
// fixture.
func NewSeededStore(ctx context.Context) (*MemStore, error) {
	seed, err := DefaultSeed()
	if err != nil {
		return nil, err
	}
	store := NewMemStore()
	if err := seed.Apply(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}
