// Package missions provides persistence for mission records. The
// repository stores serialized mission snapshots keyed by mission id and
// maintains a per-owner index pointing at the owner's current mission.
package missions

//go:generate mockgen -destination=mock/mock_repository.go -package=missionsmock github.com/shinobios/mission-api/internal/repositories/missions Repository

import (
	"context"

	"github.com/shinobios/mission-api/internal/entities"
)

// Repository defines the interface for mission storage
type Repository interface {
	// Create stores a new mission and points the owner index at it
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a mission by id
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetForOwner retrieves the mission the owner index points at
	GetForOwner(ctx context.Context, input GetForOwnerInput) (*GetForOwnerOutput, error)

	// Save persists the mission's current state. A terminal mission also
	// drops the owner index so the owner can take on new work.
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes a mission and its owner index
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput holds the mission to store
type CreateInput struct {
	Mission *entities.Mission
}

// CreateOutput confirms the stored mission
type CreateOutput struct {
	Mission *entities.Mission
}

// GetInput identifies a mission by id
type GetInput struct {
	MissionID string
}

// GetOutput holds the retrieved mission
type GetOutput struct {
	Mission *entities.Mission
}

// GetForOwnerInput identifies an owner
type GetForOwnerInput struct {
	OwnerID string
}

// GetForOwnerOutput holds the owner's indexed mission
type GetForOwnerOutput struct {
	Mission *entities.Mission
}

// SaveInput holds the mission to persist
type SaveInput struct {
	Mission *entities.Mission
}

// SaveOutput confirms the persisted mission
type SaveOutput struct {
	Mission *entities.Mission
}

// DeleteInput identifies the mission to remove
type DeleteInput struct {
	MissionID string
}

// DeleteOutput confirms the deletion
type DeleteOutput struct{}
