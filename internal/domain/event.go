package domain

// EventUserCreated is the event name carried by user.created envelopes
const EventUserCreated = "user.created"

// UserCreatedEvent is the wire envelope published after signup
type UserCreatedEvent struct {
	Event         string `json:"event"`         // Always EventUserCreated
	UserID        string `json:"userId"`        // New user's ID
	Email         string `json:"email"`         // New user's email
	InternalToken string `json:"internalToken"` // Service token proving the publisher is trusted
	OccurredAt    string `json:"occurredAt"`    // ISO-8601 UTC timestamp
}
