// Package narrative is the client boundary for mission text generation.
// Mission titles and briefings come from an external narrative service
// when one is configured, with a built-in template generator as the
// offline fallback.
package narrative

//go:generate mockgen -destination=mock/mock_client.go -package=narrativemock github.com/shinobios/mission-api/internal/clients/narrative Client

import (
	"context"

	"github.com/shinobios/mission-api/internal/entities"
)

// Client generates the narrative payload for a new mission
type Client interface {
	GenerateMission(ctx context.Context, input *GenerateMissionInput) (*GenerateMissionOutput, error)
}

// GenerateMissionInput identifies who the mission is for and what shape
// it should take
type GenerateMissionInput struct {
	ActorID    string
	ActorName  string
	Region     string
	Difficulty entities.Difficulty
}

// GenerateMissionOutput is the generated mission text plus any extra
// requirements the narrative layer wants attached to the mission record
type GenerateMissionOutput struct {
	Title        string
	Description  string
	Requirements map[string]interface{}
}
