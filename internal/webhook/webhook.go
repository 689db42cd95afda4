package webhook

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"experience-bottler/internal/config"
)

const (
	username   = "Experience Bottler"
	embedColor = 0x7FCC19
)

var printer = message.NewPrinter(language.English)

// executor is the part of *discordgo.Session used to post webhook messages.
type executor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Webhook struct {
	logger *zap.SugaredLogger
	exec   executor

	id        string
	token     string
	threshold int32
}

// NewWebhook returns nil when cfg does not enable the webhook.
func NewWebhook(cfg *config.WebhookConfig, logger *zap.SugaredLogger) (*Webhook, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	// webhooks are authenticated by their token, the session needs none
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return newWebhook(session, cfg, logger), nil
}

func newWebhook(exec executor, cfg *config.WebhookConfig, logger *zap.SugaredLogger) *Webhook {
	return &Webhook{
		logger:    logger,
		exec:      exec,
		id:        cfg.ID,
		token:     cfg.Token,
		threshold: cfg.Threshold,
	}
}

// AnnounceBottle posts bottles of at least the configured threshold.
func (w *Webhook) AnnounceBottle(playerID uuid.UUID, amount int32) {
	if amount <= 0 || amount < w.threshold {
		return
	}

	params := &discordgo.WebhookParams{
		Username: username,
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Experience bottled",
			Description: printer.Sprintf("A bottle of %d experience was filled.", amount),
			Color:       embedColor,
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: fmt.Sprintf("https://mc-heads.net/avatar/%s/100", playerID),
			},
			Footer: &discordgo.MessageEmbedFooter{Text: playerID.String()},
		}},
	}

	go w.send(params)
}

func (w *Webhook) send(params *discordgo.WebhookParams) {
	if _, err := w.exec.WebhookExecute(w.id, w.token, false, params); err != nil {
		w.logger.Errorw("failed to send webhook", "error", err)
	}
}
