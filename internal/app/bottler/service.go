package bottler

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"experience-bottler/internal/config"
	"experience-bottler/internal/item"
	"experience-bottler/internal/metrics"
	"experience-bottler/internal/repository"
	"experience-bottler/internal/repository/model"
)

const (
	ReasonBottled = "bottled"
	ReasonDrank   = "drank_bottle"
)

var (
	ErrNoSession           = errors.New("player has no open bottler")
	ErrResultEmpty         = errors.New("result slot is empty")
	ErrNotEnoughExperience = errors.New("not enough experience")
	ErrNoBottles           = errors.New("no glass bottles in the input slot")
	ErrInvalidAmount       = errors.New("invalid amount")
)

type Service interface {
	// Open starts or resumes a player's bottler and sends them their experience total
	Open(ctx context.Context, playerID uuid.UUID, creative bool) error

	// SetBottlingExperience stores the amount committed by the client
	SetBottlingExperience(ctx context.Context, playerID uuid.UUID, amount int32) error

	// InsertBottles adds glass bottles to the input slot and returns those that did not fit
	InsertBottles(ctx context.Context, playerID uuid.UUID, count int32) (item.Stack, error)

	// TakeResult hands out the bottle in the result slot. Outside creative the
	// experience is debited and one glass bottle is used.
	TakeResult(ctx context.Context, playerID uuid.UUID) (item.Stack, error)

	// Close discards the bottler and returns the bottles left in the input slot
	Close(ctx context.Context, playerID uuid.UUID) (item.Stack, error)

	// Drink credits the experience stored in a bottle's tag and returns the amount
	Drink(ctx context.Context, playerID uuid.UUID, tag []byte) (int32, error)
}

// screen is the server side state of an open bottler.
type screen struct {
	creative bool
	amount   int32
	bottles  int
	result   int32
}

type serviceImpl struct {
	log *zap.SugaredLogger

	repo       repository.Repository
	notif      KafkaWriter
	announcers []Announcer

	locks   *playerLocks
	screens *expirable.LRU[uuid.UUID, *screen]
}

func NewService(log *zap.SugaredLogger, repo repository.Repository, notif KafkaWriter, cfg config.BottlerConfig,
	announcers ...Announcer) Service {

	onEvict := func(playerID uuid.UUID, _ *screen) {
		log.Debugw("bottler session ended", "playerId", playerID)
	}

	return &serviceImpl{
		log: log,

		repo:       repo,
		notif:      notif,
		announcers: announcers,

		locks:   newPlayerLocks(),
		screens: expirable.NewLRU[uuid.UUID, *screen](cfg.MaxSessions, onEvict, cfg.SessionTTL),
	}
}

func (s *serviceImpl) Open(ctx context.Context, playerID uuid.UUID, creative bool) error {
	defer s.locks.lock(playerID)()

	sc, ok := s.screens.Get(playerID)
	if !ok {
		sc = &screen{}
		s.screens.Add(playerID, sc)
	}
	sc.creative = creative

	total, err := s.source(playerID).TotalExperience(ctx)
	if err != nil {
		return err
	}

	s.notif.SourceUpdate(ctx, playerID, total)
	s.updateResult(ctx, playerID, sc, total)
	return nil
}

func (s *serviceImpl) SetBottlingExperience(ctx context.Context, playerID uuid.UUID, amount int32) error {
	defer s.locks.lock(playerID)()

	sc, ok := s.screens.Get(playerID)
	if !ok {
		return ErrNoSession
	}

	sc.amount = amount
	metrics.BottlingCommits.Inc()

	total, err := s.source(playerID).TotalExperience(ctx)
	if err != nil {
		return err
	}

	s.updateResult(ctx, playerID, sc, total)
	return nil
}

func (s *serviceImpl) InsertBottles(ctx context.Context, playerID uuid.UUID, count int32) (item.Stack, error) {
	if count <= 0 {
		return item.Stack{}, ErrInvalidAmount
	}

	defer s.locks.lock(playerID)()

	sc, ok := s.screens.Get(playerID)
	if !ok {
		return item.Stack{}, ErrNoSession
	}

	before := sc.bottles
	sc.bottles = item.GlassBottles(before + int(count)).Count
	rejected := item.GlassBottles(before + int(count) - sc.bottles)

	total, err := s.source(playerID).TotalExperience(ctx)
	if err != nil {
		return rejected, err
	}

	s.updateResult(ctx, playerID, sc, total)
	return rejected, nil
}

func (s *serviceImpl) TakeResult(ctx context.Context, playerID uuid.UUID) (item.Stack, error) {
	defer s.locks.lock(playerID)()

	sc, ok := s.screens.Get(playerID)
	if !ok {
		return item.Stack{}, ErrNoSession
	}
	if sc.result <= 0 {
		return item.Stack{}, ErrResultEmpty
	}

	amount := sc.result
	stack, err := item.NewBottledExperience(amount)
	if err != nil {
		return item.Stack{}, fmt.Errorf("failed to create bottle: %w", err)
	}

	if sc.creative {
		metrics.BottlesCreated.WithLabelValues(metrics.ModeCreative).Inc()
		return stack, nil
	}

	src := s.source(playerID)
	total, err := src.TotalExperience(ctx)
	if err != nil {
		return item.Stack{}, err
	}
	if int64(amount) > total {
		s.updateResult(ctx, playerID, sc, total)
		return item.Stack{}, ErrNotEnoughExperience
	}
	if sc.bottles <= 0 {
		return item.Stack{}, ErrNoBottles
	}

	change, err := src.AddExperience(ctx, -int64(amount))
	if err != nil {
		return item.Stack{}, fmt.Errorf("failed to remove experience: %w", err)
	}
	sc.bottles--

	if err := s.repo.CreateBottleRecord(ctx, &model.BottleRecord{PlayerID: playerID, Amount: amount}); err != nil {
		s.log.Errorw("failed to record bottle", "playerId", playerID, "amount", amount, "error", err)
	}

	metrics.BottlesCreated.WithLabelValues(metrics.ModeSurvival).Inc()
	metrics.ExperienceBottled.Add(float64(amount))

	s.notif.PlayerExperienceChange(ctx, playerID, ReasonBottled, change.OldExperience, change.NewExperience,
		change.OldLevel, change.NewLevel)
	s.notif.SourceUpdate(ctx, playerID, change.NewExperience)

	for _, a := range s.announcers {
		a.AnnounceBottle(playerID, amount)
	}

	s.updateResult(ctx, playerID, sc, change.NewExperience)
	return stack, nil
}

func (s *serviceImpl) Close(_ context.Context, playerID uuid.UUID) (item.Stack, error) {
	defer s.locks.lock(playerID)()

	sc, ok := s.screens.Peek(playerID)
	if !ok {
		return item.Stack{}, ErrNoSession
	}
	s.screens.Remove(playerID)

	return item.GlassBottles(sc.bottles), nil
}

func (s *serviceImpl) Drink(ctx context.Context, playerID uuid.UUID, tag []byte) (int32, error) {
	defer s.locks.lock(playerID)()

	amount := item.ReadExperienceTag(tag)
	if amount <= 0 {
		return 0, nil
	}

	change, err := s.source(playerID).AddExperience(ctx, int64(amount))
	if err != nil {
		return 0, fmt.Errorf("failed to add experience: %w", err)
	}

	metrics.BottlesConsumed.Inc()
	metrics.ExperienceRestored.Add(float64(amount))

	s.notif.PlayerExperienceChange(ctx, playerID, ReasonDrank, change.OldExperience, change.NewExperience,
		change.OldLevel, change.NewLevel)
	s.notif.SourceUpdate(ctx, playerID, change.NewExperience)

	if sc, ok := s.screens.Peek(playerID); ok {
		s.updateResult(ctx, playerID, sc, change.NewExperience)
	}

	return amount, nil
}

// updateResult fills the result slot when the committed amount is positive,
// a glass bottle is present and the player holds enough experience.
func (s *serviceImpl) updateResult(ctx context.Context, playerID uuid.UUID, sc *screen, total int64) {
	var result int32
	if sc.amount > 0 && sc.bottles > 0 && total >= int64(sc.amount) {
		result = sc.amount
	}

	if result == sc.result {
		return
	}

	sc.result = result
	s.notif.ResultUpdate(ctx, playerID, result)
}

func (s *serviceImpl) source(playerID uuid.UUID) *playerSource {
	return newPlayerSource(s.repo, playerID)
}
