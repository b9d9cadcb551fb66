package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/ruthless-bot/ruthless/stockbot/utils"
)

const slowCommandThreshold = 2 * time.Second

// WrapWithLogging wraps a command handler with logging and a timeout.
func WrapWithLogging(name string, timeout time.Duration, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		guildID := ""
		if id := e.GuildID(); id != nil {
			guildID = id.String()
		}

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
			slog.String("guild_id", guildID),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)
			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.Duration("took", duration),
			}

			switch {
			case err != nil:
				slog.Error("Command failed", append(attrs,
					slog.Any("error", err),
					slog.String("status", "failed"),
				)...)
			case duration > slowCommandThreshold:
				slog.Warn("Command executed slowly", append(attrs,
					slog.String("status", "slow"),
				)...)
			default:
				slog.Info("Command completed", append(attrs,
					slog.String("status", "success"),
				)...)
			}
			return err

		case <-time.After(timeout):
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.String("status", "timeout"),
				slog.Duration("timeout", timeout),
			)
			return fmt.Errorf("command timed out after %s", timeout)
		}
	}
}

// RequireOwner rejects the command unless the invoker is the bot owner.
func RequireOwner(ownerID snowflake.ID, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !IsOwner(ownerID, e.User().ID) {
			slog.Warn("Owner command denied",
				slog.String("type", "cmd"),
				slog.String("name", e.SlashCommandInteractionData().CommandName()),
				slog.String("user_id", e.User().ID.String()),
			)
			return utils.EH.CreatePermissionError(e, "use this command")
		}
		return h(e)
	}
}

// IsOwner reports whether userID is the configured owner. An unset
// owner matches nobody.
func IsOwner(ownerID, userID snowflake.ID) bool {
	return ownerID != 0 && ownerID == userID
}
