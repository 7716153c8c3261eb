// internal/core/ports/tip_service.go
package ports

import "context"

// TipService generates a short usage tip or fun fact for an item name by
// calling an external text-generation API.
type TipService interface {
	GenerateTip(ctx context.Context, itemName string) (string, error)
}
