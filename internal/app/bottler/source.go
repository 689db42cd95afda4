package bottler

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"experience-bottler/internal/repository"
	"experience-bottler/internal/repository/model"
	"experience-bottler/internal/utils/experience"
)

// ExperienceSource is the player's experience as seen by the bottler.
type ExperienceSource interface {
	TotalExperience(ctx context.Context) (int64, error)

	// RemoveExperience debits amount points. Callers check amount <= TotalExperience first.
	RemoveExperience(ctx context.Context, amount int64) error
}

var _ ExperienceSource = &playerSource{}

type Change struct {
	OldExperience int64
	NewExperience int64
	OldLevel      int64
	NewLevel      int64
}

type playerSource struct {
	repo repository.PlayerReadWriter
	id   uuid.UUID
}

func newPlayerSource(repo repository.PlayerReadWriter, id uuid.UUID) *playerSource {
	return &playerSource{repo: repo, id: id}
}

func (s *playerSource) TotalExperience(ctx context.Context) (int64, error) {
	p, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	return p.Experience, nil
}

func (s *playerSource) RemoveExperience(ctx context.Context, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	_, err := s.AddExperience(ctx, -amount)
	return err
}

// AddExperience applies a signed delta. The total never drops below zero and
// Score accumulates gains only, saturating at math.MaxInt32.
func (s *playerSource) AddExperience(ctx context.Context, delta int64) (Change, error) {
	p, err := s.load(ctx)
	if err != nil {
		return Change{}, err
	}

	change := Change{OldExperience: p.Experience, OldLevel: p.Level}

	if delta > 0 {
		p.Score = experience.ClampInt32(addSaturating(int64(p.Score), delta))
	}
	p.SetExperience(addSaturating(p.Experience, delta))

	if err := s.repo.SavePlayerWithUpsert(ctx, p); err != nil {
		return Change{}, fmt.Errorf("failed to save player: %w", err)
	}

	change.NewExperience = p.Experience
	change.NewLevel = p.Level
	return change, nil
}

// load treats a player without a document as having no experience.
func (s *playerSource) load(ctx context.Context) (*model.Player, error) {
	p, err := s.repo.GetPlayer(ctx, s.id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &model.Player{ID: s.id}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return p, nil
}

func addSaturating(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}
