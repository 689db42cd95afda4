package repository

import (
	"context"

	"github.com/google/uuid"

	"experience-bottler/internal/repository/model"
)

type PlayerReader interface {
	// GetPlayer returns mongo.ErrNoDocuments if the player has never been saved
	GetPlayer(ctx context.Context, id uuid.UUID) (*model.Player, error)
}

type PlayerWriter interface {
	SavePlayerWithUpsert(ctx context.Context, player *model.Player) error
}

type PlayerReadWriter interface {
	PlayerReader
	PlayerWriter
}

type BottleRecorder interface {
	CreateBottleRecord(ctx context.Context, record *model.BottleRecord) error

	// GetBottleRecords returns a player's bottles newest first
	GetBottleRecords(ctx context.Context, playerID uuid.UUID, page int64, size int64) ([]*model.BottleRecord, error)
}

type Repository interface {
	PlayerReadWriter
	BottleRecorder

	Ping(ctx context.Context) error
}
