// internal/core/domain/notice.go
package domain

// NoticeKind classifies user-visible messages.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
)

// Notice is the single transient message surface exposed to clients.
// Warnings can ride alongside an otherwise successful response, e.g. when
// a return commits but the original item is gone from inventory.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

func SuccessNotice(msg string) *Notice { return &Notice{Kind: NoticeSuccess, Message: msg} }
func ErrorNotice(msg string) *Notice   { return &Notice{Kind: NoticeError, Message: msg} }
func WarningNotice(msg string) *Notice { return &Notice{Kind: NoticeWarning, Message: msg} }
