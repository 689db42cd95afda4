package webhook

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"experience-bottler/internal/config"
)

type call struct {
	id, token string
	params    *discordgo.WebhookParams
}

type fakeExecutor struct {
	calls chan call
}

func (f *fakeExecutor) WebhookExecute(webhookID, token string, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.calls <- call{id: webhookID, token: token, params: data}
	return nil, nil
}

func TestNewWebhook_Disabled(t *testing.T) {
	w, err := NewWebhook(&config.WebhookConfig{ID: "123"}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = NewWebhook(nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestAnnounceBottle(t *testing.T) {
	exec := &fakeExecutor{calls: make(chan call, 1)}
	cfg := &config.WebhookConfig{ID: "123", Token: "abc", Threshold: 10000}
	w := newWebhook(exec, cfg, zap.NewNop().Sugar())

	playerID := uuid.New()
	w.AnnounceBottle(playerID, 9999)
	w.AnnounceBottle(playerID, 50000)

	select {
	case c := <-exec.calls:
		assert.Equal(t, "123", c.id)
		assert.Equal(t, "abc", c.token)
		require.Len(t, c.params.Embeds, 1)
		assert.Equal(t, "A bottle of 50,000 experience was filled.", c.params.Embeds[0].Description)
		assert.Equal(t, playerID.String(), c.params.Embeds[0].Footer.Text)
	case <-time.After(time.Second):
		t.Fatal("webhook was not executed")
	}

	select {
	case c := <-exec.calls:
		t.Fatalf("unexpected webhook call: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}
