// internal/core/domain/item.go
package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultAppID is the tenant scope used when a caller supplies none.
const DefaultAppID = "default-app-id"

// placeholderBase is the template for generated item thumbnails. The text
// parameter is the first character of the item name.
const placeholderBase = "https://placehold.co/120x120/374151/D1D5DB"

// Item represents a shareable inventory item within a tenant.
// AvailableQuantity is the authoritative counter for how many units can
// currently be borrowed; it is only ever mutated transactionally together
// with the borrow ledger.
type Item struct {
	ID                uuid.UUID `json:"id"`
	AppID             string    `json:"app_id"`
	Name              string    `json:"name"`
	TotalQuantity     int       `json:"total_quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	ImageURL          string    `json:"image_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Validate performs domain validation on the item.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if i.TotalQuantity < 1 {
		return fmt.Errorf("total_quantity must be at least 1")
	}
	if i.AvailableQuantity < 0 {
		return fmt.Errorf("available_quantity cannot be negative")
	}
	if i.AvailableQuantity > i.TotalQuantity {
		return fmt.Errorf("available_quantity cannot exceed total_quantity")
	}
	if i.ImageURL != "" {
		if _, err := url.ParseRequestURI(i.ImageURL); err != nil {
			return fmt.Errorf("image_url is not a valid URL")
		}
	}
	return nil
}

// PrepareForStorage fills in server-assigned fields before persisting.
// A freshly created item starts with every unit available.
func (i *Item) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.AppID == "" {
		i.AppID = DefaultAppID
	}
	i.Name = strings.TrimSpace(i.Name)
	i.AvailableQuantity = i.TotalQuantity
	if i.ImageURL == "" {
		i.ImageURL = PlaceholderImageURL(i.Name)
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now()
	}
}

// IsAvailable reports whether at least one unit can be borrowed.
func (i *Item) IsAvailable() bool {
	return i.AvailableQuantity > 0
}

// PlaceholderImageURL builds a fallback thumbnail URL keyed by the first
// character of the item name.
func PlaceholderImageURL(name string) string {
	text := "?"
	if r, size := utf8.DecodeRuneInString(strings.TrimSpace(name)); size > 0 && r != utf8.RuneError {
		text = string(r)
	}
	return fmt.Sprintf("%s?text=%s", placeholderBase, url.QueryEscape(text))
}
