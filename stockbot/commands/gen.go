package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/settings"
	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/config"
	"github.com/ruthless-bot/ruthless/stockbot/utils"
)

var Gen = discord.SlashCommandCreate{
	Name:        "gen",
	Description: "Generate a Work.ink link to get an account",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "module",
			Description:  "Module to generate from",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func GenHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateUserError(e, "This command only works in a server.")
		}
		module := strings.TrimSpace(e.SlashCommandInteractionData().String("module"))

		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), b.Cfg.CommandTimeout())
		defer cancel()

		claim, err := b.Claims.Reserve(ctx, *guildID, e.User().ID, module)
		if err != nil {
			return utils.EH.HandleDomainError(e, err)
		}

		if err = animateProgress(ctx, e, b, *guildID, module); err != nil {
			slog.Warn("Progress animation interrupted",
				slog.String("type", "cmd"),
				slog.String("name", "gen"),
				slog.Any("error", err))
		}

		sendCtx, cancelSend := context.WithTimeout(context.Background(), config.LinkSendTimeout)
		err = b.Links.SendLink(sendCtx, claim)
		cancelSend()
		if err != nil {
			slog.Warn("Failed to DM verification link",
				slog.String("type", "cmd"),
				slog.String("name", "gen"),
				slog.String("user_id", e.User().ID.String()),
				slog.Any("error", err))
			// the link only ever reaches the requester by DM
			b.Claims.Cancel(claim.Requester)
			return utils.EH.UpdateClassifiedError(e, utils.UserError, "Cannot DM you. Enable DMs to receive your account.")
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{discord.NewEmbedBuilder().
				SetTitle("⏳ Work.ink link sent!").
				SetDescription("Check your DMs to complete the task and receive your account.").
				SetColor(config.InfoColor).
				Build()},
		})
		return err
	}
}

func animateProgress(ctx context.Context, e *handler.CommandEvent, b *stockbot.Bot, guildID snowflake.ID, module string) error {
	delay := ProgressDelay(
		b.Settings.Get(guildID, settings.ProgressDuration),
		b.Settings.Get(guildID, settings.ProgressSpeed),
		ProgressBudget(b.Cfg.CommandTimeout()),
	)
	if delay == 0 {
		return nil
	}

	title := fmt.Sprintf("⏳ Preparing %s account", module)
	for step := 0; step <= config.ProgressBarLength; step++ {
		_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       title,
				Description: ProgressBar(step),
				Color:       config.ProgressColor,
			}},
		})
		if err != nil {
			return err
		}
		if step == config.ProgressBarLength {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}

// ModuleAutocomplete suggests module names for the focused "module" or
// "name" option.
func ModuleAutocomplete(b *stockbot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		guildID := e.GuildID()
		if (focused.Name != "module" && focused.Name != "name") || guildID == nil {
			return e.AutocompleteResult([]discord.AutocompleteChoice{})
		}

		searchTerm := ""
		if focused.Value != nil {
			var s string
			if err := json.Unmarshal(focused.Value, &s); err == nil {
				searchTerm = strings.TrimSpace(s)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.AutocompleteTimeout)
		defer cancel()

		modules, err := b.Inventory.ListModules(ctx, *guildID)
		if err != nil {
			slog.Error("Failed to list modules for autocomplete",
				slog.String("type", "cmd"),
				slog.String("guild_id", guildID.String()),
				slog.Any("error", err))
			return e.AutocompleteResult([]discord.AutocompleteChoice{})
		}

		matches := inventory.Match(searchTerm, modules, config.MaxAutocompleteChoices)
		choices := make([]discord.AutocompleteChoice, 0, len(matches))
		for _, name := range matches {
			choices = append(choices, discord.AutocompleteChoiceString{Name: name, Value: name})
		}
		return e.AutocompleteResult(choices)
	}
}
