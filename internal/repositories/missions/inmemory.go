package missions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
)

// inMemoryRepository keeps missions in process memory. Snapshots round-trip
// through MissionData so stored missions are isolated from caller
// mutations, matching the Redis repository's semantics.
type inMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string][]byte
	byOwner map[string]string
}

// NewInMemoryRepository creates an in-memory mission repository, useful for
// tests and local development without Redis
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		byID:    make(map[string][]byte),
		byOwner: make(map[string]string),
	}
}

// Ensure inMemoryRepository implements Repository
var _ Repository = (*inMemoryRepository)(nil)

func (r *inMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Mission == nil {
		return nil, errors.InvalidArgument(errMissionNil)
	}
	if input.Mission.ID() == "" {
		return nil, errors.InvalidArgument(errMissionIDEmpty)
	}
	if input.Mission.OwnerID() == "" {
		return nil, errors.InvalidArgument(errOwnerIDEmpty)
	}

	raw, err := json.Marshal(input.Mission.ToData())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal mission")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[input.Mission.ID()]; exists {
		return nil, errors.AlreadyExists(fmt.Sprintf("mission %s already exists", input.Mission.ID()))
	}

	r.byID[input.Mission.ID()] = raw
	r.byOwner[input.Mission.OwnerID()] = input.Mission.ID()

	return &CreateOutput{Mission: input.Mission}, nil
}

func (r *inMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.MissionID == "" {
		return nil, errors.InvalidArgument(errMissionIDEmpty)
	}

	r.mu.RLock()
	raw, ok := r.byID[input.MissionID]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NotFoundf("mission %s not found", input.MissionID)
	}

	mission, err := unmarshalMission(raw)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Mission: mission}, nil
}

func (r *inMemoryRepository) GetForOwner(_ context.Context, input GetForOwnerInput) (*GetForOwnerOutput, error) {
	if input.OwnerID == "" {
		return nil, errors.InvalidArgument(errOwnerIDEmpty)
	}

	r.mu.RLock()
	missionID, ok := r.byOwner[input.OwnerID]
	var raw []byte
	if ok {
		raw = r.byID[missionID]
	}
	r.mu.RUnlock()

	if !ok || raw == nil {
		return nil, errors.NotFoundf("no mission for owner %s", input.OwnerID)
	}

	mission, err := unmarshalMission(raw)
	if err != nil {
		return nil, err
	}
	return &GetForOwnerOutput{Mission: mission}, nil
}

func (r *inMemoryRepository) Save(_ context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Mission == nil {
		return nil, errors.InvalidArgument(errMissionNil)
	}
	if input.Mission.ID() == "" {
		return nil, errors.InvalidArgument(errMissionIDEmpty)
	}

	raw, err := json.Marshal(input.Mission.ToData())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal mission")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[input.Mission.ID()] = raw
	if input.Mission.Status().Terminal() {
		if r.byOwner[input.Mission.OwnerID()] == input.Mission.ID() {
			delete(r.byOwner, input.Mission.OwnerID())
		}
	} else {
		r.byOwner[input.Mission.OwnerID()] = input.Mission.ID()
	}

	return &SaveOutput{Mission: input.Mission}, nil
}

func (r *inMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.MissionID == "" {
		return nil, errors.InvalidArgument(errMissionIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.byID[input.MissionID]
	if !ok {
		return nil, errors.NotFoundf("mission %s not found", input.MissionID)
	}

	mission, err := unmarshalMission(raw)
	if err != nil {
		return nil, err
	}

	delete(r.byID, input.MissionID)
	if r.byOwner[mission.OwnerID()] == input.MissionID {
		delete(r.byOwner, mission.OwnerID())
	}

	return &DeleteOutput{}, nil
}

func unmarshalMission(raw []byte) (*entities.Mission, error) {
	var data entities.MissionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal mission")
	}
	return entities.MissionFromData(&data), nil
}
