package model

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"experience-bottler/internal/utils/experience"
)

type Player struct {
	ID uuid.UUID `bson:"_id"`

	// Experience is the authoritative point total. Level and Progress are derived from it.
	Experience int64   `bson:"experience"`
	Level      int64   `bson:"level"`
	Progress   float32 `bson:"progress"`

	// Score mirrors the game's 32 bit score field, accumulating gains and saturating at math.MaxInt32
	Score int32 `bson:"score"`
}

// SetExperience replaces the point total and re-derives level and progress.
func (p *Player) SetExperience(points int64) {
	if points < 0 {
		points = 0
	}

	p.Experience = points
	p.Level, p.Progress = experience.LevelAndProgress(points)
}

type BottleRecord struct {
	ID       primitive.ObjectID `bson:"_id"`
	PlayerID uuid.UUID          `bson:"playerId"`
	Amount   int32              `bson:"amount"`
}

func (r *BottleRecord) CreatedAt() time.Time {
	return r.ID.Timestamp()
}
