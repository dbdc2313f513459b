// Package queue defines the grant audit messages exchanged over RabbitMQ and
// the consumer that records them.
package queue

import "time"

// Grant audit actions.
const (
	ActionGranted = "granted"
	ActionUpdated = "updated"
	ActionRevoked = "revoked"
)

// GrantEvent is published whenever a grant is created, changed or revoked.
// It carries enough for an auditor to reconstruct who changed which grant
// without querying the primary database.
type GrantEvent struct {
	Action          string    `json:"action"`
	PermissionID    uint64    `json:"permission_id"`
	UserID          uint64    `json:"user_id"`
	AccessID        uint64    `json:"access_id"`
	PermissionLevel *string   `json:"permission_level"`
	ActorID         uint64    `json:"actor_id"`
	At              time.Time `json:"at"`
}

func (ev GrantEvent) valid() bool {
	switch ev.Action {
	case ActionGranted, ActionUpdated, ActionRevoked:
		return ev.PermissionID != 0
	}
	return false
}
