package kafkaWriter

import (
	"context"
	"fmt"
	"sync"
	"time"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/emortalmc/proto-specs/gen/go/model/mcplayer"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"experience-bottler/internal/config"
	"experience-bottler/internal/network/packet"
)

const experienceWriterTopic = "player-experience"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Notifier publishes experience events and clientbound packets.
type Notifier struct {
	logger *zap.SugaredLogger
	w      messageWriter
}

func NewKafkaNotifier(ctx context.Context, wg *sync.WaitGroup, cfg *config.KafkaConfig, logger *zap.SugaredLogger) *Notifier {
	w := &kafka.Writer{
		Addr:         kafka.TCP(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		Balancer:     &kafka.Hash{},
		Async:        true,
		BatchTimeout: 100 * time.Millisecond,
		ErrorLogger:  kafka.LoggerFunc(logger.Errorf),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		if err := w.Close(); err != nil {
			logger.Errorw("failed to close kafka writer", "error", err)
		}
	}()

	return &Notifier{
		logger: logger,
		w:      w,
	}
}

func (n *Notifier) PlayerExperienceChange(ctx context.Context, playerID uuid.UUID, reason string, oldXP int64, newXP int64, oldLevel int64, newLevel int64) {
	msg := &mcplayer.PlayerExperienceChangeMessage{
		PlayerId:           playerID.String(),
		Reason:             reason,
		PreviousExperience: oldXP,
		NewExperience:      newXP,
		PreviousLevel:      int32(oldLevel),
		NewLevel:           int32(newLevel),
	}

	if err := n.writeProto(ctx, playerID, msg); err != nil {
		n.logger.Errorw("failed to write message", "error", err)
	}
}

func (n *Notifier) ResultUpdate(ctx context.Context, playerID uuid.UUID, amount int32) {
	if err := n.writePacket(ctx, playerID, packet.NewResultUpdate(amount)); err != nil {
		n.logger.Errorw("failed to write result update", "playerId", playerID, "error", err)
	}
}

func (n *Notifier) SourceUpdate(ctx context.Context, playerID uuid.UUID, total int64) {
	if err := n.writePacket(ctx, playerID, packet.NewSourceUpdate(total)); err != nil {
		n.logger.Errorw("failed to write source update", "playerId", playerID, "error", err)
	}
}

func (n *Notifier) writeProto(ctx context.Context, playerID uuid.UUID, msg proto.Message) error {
	bytes, err := proto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal proto to bytes: %w", err)
	}

	return n.w.WriteMessages(ctx, kafka.Message{
		Topic:   experienceWriterTopic,
		Key:     []byte(playerID.String()),
		Headers: []kafka.Header{{Key: "X-Proto-Type", Value: []byte(msg.ProtoReflect().Descriptor().FullName())}},
		Value:   bytes,
	})
}

func (n *Notifier) writePacket(ctx context.Context, playerID uuid.UUID, p pk.Packet) error {
	return n.w.WriteMessages(ctx, kafka.Message{
		Topic: packet.ClientboundTopic,
		Key:   []byte(playerID.String()),
		Value: packet.Encode(p),
	})
}
