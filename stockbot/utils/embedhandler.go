package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/ruthless-bot/ruthless/internal/domain/claims"
	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/stockbot/config"
)

// ResponseHandler provides standardized response methods for commands
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// ErrorType represents different categories of errors for consistent handling
type ErrorType int

const (
	// UserError - User input issues, validation failures, parameter problems
	UserError ErrorType = iota
	// SystemError - Storage failures, network issues, internal errors
	SystemError
	// NotFoundError - Requested resources don't exist
	NotFoundError
	// PermissionError - Unauthorized actions, access denied
	PermissionError
	// BusinessLogicError - Cooldowns, pending claims, empty stock
	BusinessLogicError
)

func getErrorPrefix(errorType ErrorType) string {
	switch errorType {
	case UserError:
		return "⚠️"
	case SystemError:
		return "🔧"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	case BusinessLogicError:
		return "⏰"
	default:
		return "❌"
	}
}

func getErrorColor(errorType ErrorType) int {
	switch errorType {
	case UserError, BusinessLogicError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	default:
		return config.ErrorColor
	}
}

// ClassifyError maps a domain error to an error type and the text shown
// to the user.
func ClassifyError(err error) (ErrorType, string) {
	if rej, ok := claims.AsRejection(err); ok {
		switch rej.Reason {
		case claims.CooldownActive:
			return BusinessLogicError, fmt.Sprintf("You must wait %s before generating another account.", FormatWait(rej.Wait))
		case claims.ClaimAlreadyPending:
			return BusinessLogicError, "You already have a pending claim. Complete it first."
		case claims.ModuleNotFound:
			msg := "Module does not exist."
			if len(rej.Suggestions) > 0 {
				msg += fmt.Sprintf(" Did you mean `%s`?", strings.Join(rej.Suggestions, "`, `"))
			}
			return NotFoundError, msg
		case claims.OutOfStock:
			return BusinessLogicError, "No accounts left."
		case claims.LinkCreationFailed:
			return SystemError, "Failed to create Work.ink link."
		}
	}

	switch {
	case errors.Is(err, claims.ErrClaimCancelled):
		return BusinessLogicError, "Your claim was cancelled."
	case errors.Is(err, inventory.ErrModuleNotFound):
		return NotFoundError, "Module does not exist."
	case errors.Is(err, inventory.ErrModuleExists):
		return UserError, "Module already exists."
	case errors.Is(err, inventory.ErrInvalidModuleName):
		return UserError, "Invalid module name. Use letters, numbers and dashes."
	case errors.Is(err, inventory.ErrInvalidItem):
		return UserError, "Items must not contain line breaks."
	default:
		return SystemError, "Something went wrong. Please try again later."
	}
}

// FormatWait renders a cooldown as whole seconds or minutes and seconds.
func FormatWait(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

func classifiedEmbed(errorType ErrorType, message string) discord.Embed {
	return discord.Embed{
		Description: getErrorPrefix(errorType) + " " + message,
		Color:       getErrorColor(errorType),
	}
}

// CreateClassifiedError creates an error response with automatic categorization
func (h *ResponseHandler) CreateClassifiedError(event *handler.CommandEvent, errorType ErrorType, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{classifiedEmbed(errorType, message)},
	})
}

// UpdateClassifiedError replaces a deferred response with an error embed
func (h *ResponseHandler) UpdateClassifiedError(event *handler.CommandEvent, errorType ErrorType, message string) error {
	_, err := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{classifiedEmbed(errorType, message)},
	})
	return err
}

// HandleDomainError classifies err and answers a deferred interaction.
// System errors are logged with their cause.
func (h *ResponseHandler) HandleDomainError(event *handler.CommandEvent, err error) error {
	errorType, message := ClassifyError(err)
	if errorType == SystemError {
		slog.Error("Command failed",
			slog.String("type", "cmd"),
			slog.String("name", event.SlashCommandInteractionData().CommandName()),
			slog.Any("error", err))
	}
	return h.UpdateClassifiedError(event, errorType, message)
}

// CreatePermissionError creates an error response for unauthorized actions
func (h *ResponseHandler) CreatePermissionError(event *handler.CommandEvent, action string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{classifiedEmbed(PermissionError, fmt.Sprintf("You don't have permission to %s", action))},
		Flags:  discord.MessageFlagEphemeral,
	})
}

// CreateUserError creates an error response for user input issues
func (h *ResponseHandler) CreateUserError(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, UserError, message)
}

// CreateSuccessEmbed creates a standard success embed for command events
func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: "✅ " + message,
			Color:       config.SuccessColor,
		}},
	})
}

// UpdateSuccessEmbed replaces a deferred response with a success embed
func (h *ResponseHandler) UpdateSuccessEmbed(event *handler.CommandEvent, message string) error {
	_, err := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Description: "✅ " + message,
			Color:       config.SuccessColor,
		}},
	})
	return err
}

// CreateInfoEmbed creates a standard info embed for command events
func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       config.InfoColor,
		}},
	})
}
