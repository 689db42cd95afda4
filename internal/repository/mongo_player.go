package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"experience-bottler/internal/repository/model"
)

func (m *mongoRepository) GetPlayer(ctx context.Context, playerId uuid.UUID) (*model.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var mongoResult model.Player
	err := m.playerCollection.FindOne(ctx, bson.M{"_id": playerId}).Decode(&mongoResult)
	if err != nil {
		return nil, err
	}

	return &mongoResult, nil
}

func (m *mongoRepository) SavePlayerWithUpsert(ctx context.Context, player *model.Player) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.playerCollection.UpdateOne(ctx, bson.M{"_id": player.ID}, bson.M{"$set": player}, options.Update().SetUpsert(true))
	return err
}

func (m *mongoRepository) CreateBottleRecord(ctx context.Context, record *model.BottleRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}

	_, err := m.bottleCollection.InsertOne(ctx, record)
	return err
}

func (m *mongoRepository) GetBottleRecords(ctx context.Context, playerId uuid.UUID, page int64, size int64) ([]*model.BottleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.M{"_id": -1}).
		SetSkip(page * size).
		SetLimit(size)

	cursor, err := m.bottleCollection.Find(ctx, bson.M{"playerId": playerId}, opts)
	if err != nil {
		return nil, err
	}

	var mongoResult []*model.BottleRecord
	if err := cursor.All(ctx, &mongoResult); err != nil {
		return nil, err
	}

	return mongoResult, nil
}
