package missions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/shinobios/mission-api/internal/entities"
	"github.com/shinobios/mission-api/internal/errors"
	redisclient "github.com/shinobios/mission-api/internal/redis"
)

const (
	// Key patterns: mission:{mission_id} for records,
	// mission:owner:{owner_id} for the per-owner index.
	missionKeyPrefix = "mission:"
	ownerKeyPrefix   = "mission:owner:"

	// Records outlive the longest mission duration by a wide margin so
	// terminal missions stay queryable for a while, then age out.
	recordTTL = 7 * 24 * time.Hour

	errMissionNil     = "mission cannot be nil"
	errMissionIDEmpty = "mission ID cannot be empty"
	errOwnerIDEmpty   = "owner ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a Redis-backed mission repository
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new mission and points the owner index at it
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Mission == nil {
		return nil, errors.InvalidArgument(errMissionNil)
	}
	if input.Mission.ID() == "" {
		return nil, errors.InvalidArgument(errMissionIDEmpty)
	}
	if input.Mission.OwnerID() == "" {
		return nil, errors.InvalidArgument(errOwnerIDEmpty)
	}

	missionJSON, err := json.Marshal(input.Mission.ToData())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal mission")
	}

	exists, err := r.client.Exists(ctx, r.missionKey(input.Mission.ID())).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check mission existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExists(fmt.Sprintf("mission %s already exists", input.Mission.ID()))
	}

	// Record and owner index go in one transaction so a crash cannot
	// leave a mission without its index.
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.missionKey(input.Mission.ID()), missionJSON, recordTTL)
	pipe.Set(ctx, r.ownerKey(input.Mission.OwnerID()), input.Mission.ID(), recordTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to store mission")
	}

	return &CreateOutput{Mission: input.Mission}, nil
}

// Get retrieves a mission by id
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.MissionID == "" {
		return nil, errors.InvalidArgument(errMissionIDEmpty)
	}

	missionJSON, err := r.client.Get(ctx, r.missionKey(input.MissionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("mission %s not found", input.MissionID)
		}
		return nil, errors.Wrap(err, "failed to get mission")
	}

	mission, err := r.unmarshal([]byte(missionJSON))
	if err != nil {
		return nil, err
	}

	return &GetOutput{Mission: mission}, nil
}

// GetForOwner retrieves the mission the owner index points at
func (r *redisRepository) GetForOwner(ctx context.Context, input GetForOwnerInput) (*GetForOwnerOutput, error) {
	if input.OwnerID == "" {
		return nil, errors.InvalidArgument(errOwnerIDEmpty)
	}

	missionID, err := r.client.Get(ctx, r.ownerKey(input.OwnerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no mission for owner %s", input.OwnerID)
		}
		return nil, errors.Wrap(err, "failed to get owner index")
	}

	out, err := r.Get(ctx, GetInput{MissionID: missionID})
	if err != nil {
		if errors.IsNotFound(err) {
			// Stale index: the record aged out underneath it
			_ = r.client.Del(ctx, r.ownerKey(input.OwnerID)).Err()
		}
		return nil, err
	}

	return &GetForOwnerOutput{Mission: out.Mission}, nil
}

// Save persists the mission's current state, dropping the owner index once
// the mission is terminal
func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Mission == nil {
		return nil, errors.InvalidArgument(errMissionNil)
	}
	if input.Mission.ID() == "" {
		return nil, errors.InvalidArgument(errMissionIDEmpty)
	}

	missionJSON, err := json.Marshal(input.Mission.ToData())
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal mission")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.missionKey(input.Mission.ID()), missionJSON, recordTTL)
	if input.Mission.Status().Terminal() {
		pipe.Del(ctx, r.ownerKey(input.Mission.OwnerID()))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to save mission")
	}

	return &SaveOutput{Mission: input.Mission}, nil
}

// Delete removes a mission and its owner index
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.MissionID == "" {
		return nil, errors.InvalidArgument(errMissionIDEmpty)
	}

	out, err := r.Get(ctx, GetInput{MissionID: input.MissionID})
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.missionKey(input.MissionID))
	pipe.Del(ctx, r.ownerKey(out.Mission.OwnerID()))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to delete mission")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) unmarshal(raw []byte) (*entities.Mission, error) {
	var data entities.MissionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal mission")
	}
	return entities.MissionFromData(&data), nil
}

func (r *redisRepository) missionKey(missionID string) string {
	return missionKeyPrefix + missionID
}

func (r *redisRepository) ownerKey(ownerID string) string {
	return ownerKeyPrefix + ownerID
}
