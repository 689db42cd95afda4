package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"experience-bottler/internal/app/bottler"
	"experience-bottler/internal/item"
	"experience-bottler/internal/network/packet"
)

type call struct {
	method string
	arg    any
}

type fakeService struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeService) record(method string, arg any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method, arg})
}

func (f *fakeService) Open(_ context.Context, _ uuid.UUID, creative bool) error {
	f.record("Open", creative)
	return f.err
}

func (f *fakeService) SetBottlingExperience(_ context.Context, _ uuid.UUID, amount int32) error {
	f.record("SetBottlingExperience", amount)
	return f.err
}

func (f *fakeService) InsertBottles(_ context.Context, _ uuid.UUID, count int32) (item.Stack, error) {
	f.record("InsertBottles", count)
	return item.Stack{}, f.err
}

func (f *fakeService) TakeResult(context.Context, uuid.UUID) (item.Stack, error) {
	f.record("TakeResult", nil)
	return item.Stack{}, f.err
}

func (f *fakeService) Close(context.Context, uuid.UUID) (item.Stack, error) {
	f.record("Close", nil)
	return item.GlassBottles(2), f.err
}

func (f *fakeService) Drink(_ context.Context, _ uuid.UUID, tag []byte) (int32, error) {
	f.record("Drink", tag)
	return item.ReadExperienceTag(tag), f.err
}

type fakeReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func TestDispatch(t *testing.T) {
	playerID := uuid.New()
	tag, err := item.WriteExperienceTag(nil, 500)
	require.NoError(t, err)

	tests := []struct {
		name   string
		data   []byte
		method string
		arg    any
	}{
		{"open", packet.Encode(packet.NewOpenBottler(true)), "Open", true},
		{"commit", packet.Encode(packet.NewBottlingExperience(1395)), "SetBottlingExperience", int32(1395)},
		{"insert", packet.Encode(packet.NewInsertBottles(3)), "InsertBottles", int32(3)},
		{"take", packet.Encode(packet.NewTakeResult()), "TakeResult", nil},
		{"close", packet.Encode(packet.NewCloseBottler()), "Close", nil},
		{"drink", packet.Encode(packet.NewDrinkBottle(tag)), "Drink", tag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			c := &consumer{logger: zap.NewNop().Sugar(), svc: svc}

			p, err := packet.Decode(tt.data)
			require.NoError(t, err)
			require.NoError(t, c.dispatch(context.Background(), playerID, p))

			require.Len(t, svc.calls, 1)
			assert.Equal(t, tt.method, svc.calls[0].method)
			assert.Equal(t, tt.arg, svc.calls[0].arg)
		})
	}
}

func TestDispatch_Errors(t *testing.T) {
	svc := &fakeService{err: bottler.ErrNoSession}
	c := &consumer{logger: zap.NewNop().Sugar(), svc: svc}
	playerID := uuid.New()

	p, err := packet.Decode([]byte{0x7F})
	require.NoError(t, err)
	assert.ErrorIs(t, c.dispatch(context.Background(), playerID, p), errUnknownPacket)

	p, err = packet.Decode(packet.Encode(packet.NewTakeResult()))
	require.NoError(t, err)
	err = c.dispatch(context.Background(), playerID, p)
	assert.ErrorIs(t, err, bottler.ErrNoSession)
	assert.True(t, isRefusal(err))
	assert.False(t, isRefusal(errors.New("mongo down")))
}

func TestRun_CommitsEveryMessage(t *testing.T) {
	svc := &fakeService{}
	reader := &fakeReader{msgs: make(chan kafka.Message, 4)}
	c := &consumer{logger: zap.NewNop().Sugar(), svc: svc, reader: reader}

	playerID := uuid.New()
	reader.msgs <- kafka.Message{Offset: 1, Key: []byte(playerID.String()), Value: packet.Encode(packet.NewOpenBottler(false))}
	reader.msgs <- kafka.Message{Offset: 2, Key: []byte("not-a-uuid"), Value: packet.Encode(packet.NewTakeResult())}
	reader.msgs <- kafka.Message{Offset: 3, Key: []byte(playerID.String()), Value: nil}
	reader.msgs <- kafka.Message{Offset: 4, Key: []byte(playerID.String()), Value: packet.Encode(packet.NewBottlingExperience(7))}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return reader.committedCount() == 4 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []int64{1, 2, 3, 4}, reader.committed)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.calls, 2)
	assert.Equal(t, "Open", svc.calls[0].method)
	assert.Equal(t, int32(7), svc.calls[1].arg)
}
