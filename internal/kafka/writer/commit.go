package kafkaWriter

import (
	"context"
	"fmt"
	"time"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"experience-bottler/internal/config"
	"experience-bottler/internal/network/packet"
)

// CommitWriter sends serverbound packets on behalf of a single player.
type CommitWriter struct {
	playerID uuid.UUID
	w        messageWriter
	closer   func() error
}

func NewCommitWriter(cfg *config.KafkaConfig, playerID uuid.UUID, logger *zap.SugaredLogger) *CommitWriter {
	w := &kafka.Writer{
		Addr:         kafka.TCP(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		Topic:        packet.ServerboundTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		ErrorLogger:  kafka.LoggerFunc(logger.Errorf),
	}

	return &CommitWriter{playerID: playerID, w: w, closer: w.Close}
}

// Commit sends the amount the player chose to bottle.
func (c *CommitWriter) Commit(ctx context.Context, amount int32) error {
	return c.Write(ctx, packet.NewBottlingExperience(amount))
}

func (c *CommitWriter) Write(ctx context.Context, p pk.Packet) error {
	return c.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(c.playerID.String()),
		Value: packet.Encode(p),
	})
}

func (c *CommitWriter) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
