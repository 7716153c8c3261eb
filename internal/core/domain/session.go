// internal/core/domain/session.go
package domain

// Collection names for the live feed. These are the two tenant-scoped
// collections clients can subscribe to.
const (
	CollectionInventory = "inventory"
	CollectionBorrowed  = "borrowed_items"
)

// Session carries the resolved identity and tenant scope of a request.
// It is constructed once per request and passed explicitly into services;
// there is no ambient current-user state. A zero Session is unresolved
// and scoped operations must treat it as pending.
type Session struct {
	UserID string `json:"user_id"`
	AppID  string `json:"app_id"`
}

// Resolved reports whether the session carries a usable principal.
func (s Session) Resolved() bool {
	return s.UserID != "" && s.AppID != ""
}
