// Package models holds the transport-facing user types shared by the HTTP
// handlers and the session coordinator.
package models

import "github.com/google/uuid"

// User identifies a human participant at the transport boundary.
type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
}
