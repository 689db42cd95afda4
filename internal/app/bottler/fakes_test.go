package bottler

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"experience-bottler/internal/repository/model"
)

type fakeRepo struct {
	mu      sync.Mutex
	players map[uuid.UUID]model.Player
	bottles []model.BottleRecord

	getErr error

	// blocked players wait in GetPlayer until their channel is closed, announcing themselves on entered
	blocked map[uuid.UUID]chan struct{}
	entered chan uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{players: make(map[uuid.UUID]model.Player)}
}

func (r *fakeRepo) withExperience(id uuid.UUID, points int64) *fakeRepo {
	p := model.Player{ID: id}
	p.SetExperience(points)
	r.players[id] = p
	return r
}

func (r *fakeRepo) GetPlayer(_ context.Context, id uuid.UUID) (*model.Player, error) {
	if release, ok := r.blocked[id]; ok {
		r.entered <- id
		<-release
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}

	p, ok := r.players[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &p, nil
}

func (r *fakeRepo) SavePlayerWithUpsert(_ context.Context, player *model.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[player.ID] = *player
	return nil
}

func (r *fakeRepo) CreateBottleRecord(_ context.Context, record *model.BottleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bottles = append(r.bottles, *record)
	return nil
}

func (r *fakeRepo) GetBottleRecords(_ context.Context, playerID uuid.UUID, _ int64, _ int64) ([]*model.BottleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*model.BottleRecord
	for i := range r.bottles {
		if r.bottles[i].PlayerID == playerID {
			res = append(res, &r.bottles[i])
		}
	}
	return res, nil
}

func (r *fakeRepo) Ping(context.Context) error {
	return nil
}

func (r *fakeRepo) experience(id uuid.UUID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players[id].Experience
}

type experienceEvent struct {
	reason           string
	oldXP, newXP     int64
	oldLevel, newLvl int64
}

type fakeNotifier struct {
	results []int32
	sources []int64
	events  []experienceEvent
}

func (n *fakeNotifier) PlayerExperienceChange(_ context.Context, _ uuid.UUID, reason string, oldXP int64, newXP int64, oldLevel int64, newLevel int64) {
	n.events = append(n.events, experienceEvent{reason, oldXP, newXP, oldLevel, newLevel})
}

func (n *fakeNotifier) ResultUpdate(_ context.Context, _ uuid.UUID, amount int32) {
	n.results = append(n.results, amount)
}

func (n *fakeNotifier) SourceUpdate(_ context.Context, _ uuid.UUID, total int64) {
	n.sources = append(n.sources, total)
}

type fakeAnnouncer struct {
	amounts []int32
}

func (a *fakeAnnouncer) AnnounceBottle(_ uuid.UUID, amount int32) {
	a.amounts = append(a.amounts, amount)
}
