package application

import "stickynotes/internal/domain"

// Re-export domain types for use by adapters
type (
	Note         = domain.Note
	AnchorRecord = domain.AnchorRecord
)

// MessageType names an inbound host signal
type MessageType string

// MessageCreateNote asks for one new default-positioned note
const MessageCreateNote MessageType = "CREATE_NOTE"

// Message is an event delivered by the host shell
type Message struct {
	Type MessageType `json:"type"`
}

// PageKey returns the storage key for a page URL
func PageKey(url string) string {
	return domain.PageKey(url)
}
