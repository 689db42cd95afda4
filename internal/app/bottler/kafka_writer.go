package bottler

import (
	"context"

	"github.com/google/uuid"

	"experience-bottler/internal/feed"
	kafkaWriter "experience-bottler/internal/kafka/writer"
	"experience-bottler/internal/webhook"
)

var (
	_ KafkaWriter = &kafkaWriter.Notifier{}

	_ Announcer = &webhook.Webhook{}
	_ Announcer = &feed.Hub{}
)

type KafkaWriter interface {
	PlayerExperienceChange(ctx context.Context, playerID uuid.UUID, reason string, oldXP int64, newXP int64, oldLevel int64, newLevel int64)
	ResultUpdate(ctx context.Context, playerID uuid.UUID, amount int32)
	SourceUpdate(ctx context.Context, playerID uuid.UUID, total int64)
}

// Announcer is told about every bottle a player fills in survival.
type Announcer interface {
	AnnounceBottle(playerID uuid.UUID, amount int32)
}
