package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/ruthless-bot/ruthless/internal/domain/claims"
)

const (
	deliveredColor = 0x00FF00
	linkColor      = 0x00FFFF
)

// Messenger is the part of the disgo REST client used to send DMs.
type Messenger interface {
	CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error)
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// Notifier sends claim messages to requesters by DM.
type Notifier struct {
	rest    Messenger
	botName string
	now     func() time.Time
}

func NewNotifier(rest Messenger, botName string) *Notifier {
	return &Notifier{rest: rest, botName: botName, now: time.Now}
}

func (n *Notifier) DeliverItem(ctx context.Context, claim claims.Claim) error {
	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("✅ %s Account Delivered", n.botName)).
		SetDescription(fmt.Sprintf("**Module:** %s\n**Account:**\n```\n%s\n```", claim.Module, claim.Item)).
		SetColor(deliveredColor).
		SetFooter(n.footer(), "").
		Build()

	return n.send(ctx, claim.Requester, discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

func (n *Notifier) RemindPending(ctx context.Context, claim claims.Claim) error {
	return n.send(ctx, claim.Requester, discord.MessageCreate{
		Content: fmt.Sprintf("⏳ Reminder: Please complete your Work.ink task to receive your %s account.", claim.Module),
	})
}

// SendLink DMs the verification URL for a freshly reserved claim.
func (n *Notifier) SendLink(ctx context.Context, claim claims.Claim) error {
	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("⏳ %s - %s", n.botName, claim.Module)).
		SetDescription(fmt.Sprintf("Complete this Work.ink task to get your %s account:\n%s", claim.Module, claim.URL)).
		SetColor(linkColor).
		SetFooter(n.footer(), "").
		Build()

	return n.send(ctx, claim.Requester, discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

func (n *Notifier) footer() string {
	return fmt.Sprintf("%s • %s", n.botName, n.now().UTC().Format("2006-01-02 15:04 UTC"))
}

func (n *Notifier) send(ctx context.Context, userID snowflake.ID, msg discord.MessageCreate) error {
	channel, err := n.rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		slog.Error("Failed to create DM channel",
			slog.String("type", "claim"),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	if _, err = n.rest.CreateMessage(channel.ID(), msg, rest.WithCtx(ctx)); err != nil {
		slog.Error("Failed to send DM",
			slog.String("type", "claim"),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}
