package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"experience-bottler/internal/app/bottler"
	"experience-bottler/internal/config"
	"experience-bottler/internal/item"
	"experience-bottler/internal/metrics"
	"experience-bottler/internal/network/packet"
)

const groupID = "experience-bottler"

var errUnknownPacket = errors.New("unknown packet")

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type consumer struct {
	logger *zap.SugaredLogger
	svc    bottler.Service

	reader messageReader
}

func NewConsumer(ctx context.Context, wg *sync.WaitGroup, config *config.KafkaConfig, logger *zap.SugaredLogger,
	svc bottler.Service) {

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{fmt.Sprintf("%s:%d", config.Host, config.Port)},
		GroupID: groupID,
		Topic:   packet.ServerboundTopic,

		Logger: kafka.LoggerFunc(func(format string, args ...interface{}) {
			logger.Debugw(fmt.Sprintf(format, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(format string, args ...interface{}) {
			logger.Errorw(fmt.Sprintf(format, args...))
		}),

		MaxWait: 5 * time.Second,
	})

	c := &consumer{
		logger: logger,
		svc:    svc,
		reader: reader,
	}

	logger.Infow("starting listening for kafka messages", "topic", packet.ServerboundTopic)

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.run(ctx) // blocks until the context is cancelled
		if err := reader.Close(); err != nil {
			logger.Errorw("error closing kafka reader", "error", err)
		}
	}()
}

func (c *consumer) run(ctx context.Context) {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Errorw("failed to fetch message", "error", err)
			continue
		}

		c.handleMessage(ctx, m)

		// failed packets are not retried
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Errorw("failed to commit message", "offset", m.Offset, "error", err)
		}
	}
}

func (c *consumer) handleMessage(ctx context.Context, m kafka.Message) {
	playerID, err := uuid.ParseBytes(m.Key)
	if err != nil {
		c.logger.Errorw("error parsing player id", "key", string(m.Key), "error", err)
		return
	}

	p, err := packet.Decode(m.Value)
	if err != nil {
		c.logger.Errorw("error decoding packet", "playerId", playerID, "error", err)
		return
	}

	name := packet.ServerboundName(p.ID)
	err = c.dispatch(ctx, playerID, p)
	switch {
	case err == nil:
		metrics.PacketsHandled.WithLabelValues(name, metrics.ResultOK).Inc()
		return
	case isRefusal(err):
		c.logger.Debugw("packet refused", "packet", name, "playerId", playerID, "reason", err)
	default:
		c.logger.Errorw("error handling packet", "packet", name, "playerId", playerID, "error", err)
	}
	metrics.PacketsHandled.WithLabelValues(name, metrics.ResultError).Inc()
}

func (c *consumer) dispatch(ctx context.Context, playerID uuid.UUID, p pk.Packet) error {
	switch p.ID {
	case packet.OpenBottler:
		creative, err := packet.ParseOpenBottler(p)
		if err != nil {
			return err
		}
		return c.svc.Open(ctx, playerID, creative)
	case packet.BottlingExperience:
		amount, err := packet.ParseBottlingExperience(p)
		if err != nil {
			return err
		}
		return c.svc.SetBottlingExperience(ctx, playerID, amount)
	case packet.InsertBottles:
		count, err := packet.ParseInsertBottles(p)
		if err != nil {
			return err
		}
		rejected, err := c.svc.InsertBottles(ctx, playerID, count)
		if err != nil {
			return err
		}
		if !rejected.IsEmpty() {
			c.logger.Debugw("input slot full", "playerId", playerID, "returned", rejected.Count)
		}
		return nil
	case packet.TakeResult:
		stack, err := c.svc.TakeResult(ctx, playerID)
		if err != nil {
			return err
		}
		c.logger.Debugw("bottle taken", "playerId", playerID, "tooltip", item.Tooltip(stack))
		return nil
	case packet.CloseBottler:
		left, err := c.svc.Close(ctx, playerID)
		if err != nil {
			return err
		}
		c.logger.Debugw("bottler closed", "playerId", playerID, "returnedBottles", left.Count)
		return nil
	case packet.DrinkBottle:
		tag, err := packet.ParseDrinkBottle(p)
		if err != nil {
			return err
		}
		amount, err := c.svc.Drink(ctx, playerID, tag)
		if err != nil {
			return err
		}
		c.logger.Debugw("bottle drunk", "playerId", playerID, "amount", amount)
		return nil
	default:
		return fmt.Errorf("%w: %d", errUnknownPacket, p.ID)
	}
}

// isRefusal reports errors caused by the player's state rather than a failure.
func isRefusal(err error) bool {
	return errors.Is(err, bottler.ErrNoSession) ||
		errors.Is(err, bottler.ErrResultEmpty) ||
		errors.Is(err, bottler.ErrNotEnoughExperience) ||
		errors.Is(err, bottler.ErrNoBottles) ||
		errors.Is(err, bottler.ErrInvalidAmount)
}
