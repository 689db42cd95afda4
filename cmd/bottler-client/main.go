package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"experience-bottler/internal/bottling"
	"experience-bottler/internal/config"
	"experience-bottler/internal/item"
	kafkaWriter "experience-bottler/internal/kafka/writer"
	"experience-bottler/internal/network/packet"
)

// a game tick
const tick = 50 * time.Millisecond

var (
	playerFlag = flag.String("player", "", "player UUID, random when empty")
	creative   = flag.Bool("creative", false, "open the bottler in creative mode")
	bottles    = flag.Int("bottles", 16, "glass bottles to insert on open")
)

func main() {
	flag.Parse()

	unsugared, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	logger := unsugared.Sugar()

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}

	playerID := uuid.New()
	if *playerFlag != "" {
		if playerID, err = uuid.Parse(*playerFlag); err != nil {
			logger.Fatalw("invalid player id", "error", err)
		}
	}

	presets, err := item.Presets(cfg.Bottler.Presets)
	if err != nil {
		logger.Fatalw("failed to create presets", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w := kafkaWriter.NewCommitWriter(cfg.Kafka, playerID, logger)
	defer func() {
		if err := w.Close(); err != nil {
			logger.Errorw("failed to close kafka writer", "error", err)
		}
	}()

	send := func(p pk.Packet) error { return w.Write(ctx, p) }

	session := bottling.NewSession(0, func(amount int32) {
		if err := w.Commit(ctx, amount); err != nil {
			logger.Errorw("failed to send commit", "amount", amount, "error", err)
		}
	})

	c := &console{
		session: session,
		out:     os.Stdout,
		send:    send,
		sleep:   time.Sleep,
		presets: presets,
		useTime: time.Duration(cfg.Bottler.MaxUseTime) * tick,
	}

	if err := send(packet.NewOpenBottler(*creative)); err != nil {
		logger.Fatalw("failed to open bottler", "error", err)
	}
	if *bottles > 0 {
		if err := send(packet.NewInsertBottles(int32(*bottles))); err != nil {
			logger.Fatalw("failed to insert bottles", "error", err)
		}
	}
	logger.Infow("opened bottler", "playerId", playerID, "creative", *creative)

	sources := make(chan int64)
	go followUpdates(ctx, cfg.Kafka, playerID, logger, sources)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	// the session is only touched from this loop
	for {
		select {
		case <-ctx.Done():
			_ = send(packet.NewCloseBottler())
			return
		case total := <-sources:
			session.SourceChanged(total)
			c.show()
		case line, ok := <-lines:
			if !ok {
				_ = send(packet.NewCloseBottler())
				return
			}
			if err := c.exec(line); err != nil {
				if errors.Is(err, errQuit) {
					return
				}
				fmt.Println(err)
			}
		}
	}
}

// followUpdates prints result updates and forwards source updates for the player.
func followUpdates(ctx context.Context, cfg *config.KafkaConfig, playerID uuid.UUID, logger *zap.SugaredLogger,
	sources chan<- int64) {

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		GroupID:     "bottler-client-" + playerID.String(),
		Topic:       packet.ClientboundTopic,
		StartOffset: kafka.LastOffset,
		MaxWait:     time.Second,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Errorw("error closing kafka reader", "error", err)
		}
	}()

	key := playerID.String()
	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Errorw("failed to read update", "error", err)
			}
			return
		}
		if string(m.Key) != key {
			continue
		}

		p, err := packet.Decode(m.Value)
		if err != nil {
			logger.Errorw("error decoding packet", "error", err)
			continue
		}

		switch p.ID {
		case packet.SourceUpdate:
			total, err := packet.ParseSourceUpdate(p)
			if err != nil {
				logger.Errorw("error parsing source update", "error", err)
				continue
			}
			select {
			case sources <- total:
			case <-ctx.Done():
				return
			}
		case packet.ResultUpdate:
			amount, err := packet.ParseResultUpdate(p)
			if err != nil {
				logger.Errorw("error parsing result update", "error", err)
				continue
			}
			if amount > 0 {
				fmt.Printf("result: bottle of %d\n", amount)
			} else {
				fmt.Println("result: empty")
			}
		}
	}
}
