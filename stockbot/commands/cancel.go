package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/utils"
)

var Cancel = discord.SlashCommandCreate{
	Name:        "cancel",
	Description: "Cancel a user's pending claim (owner only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "User whose claim to cancel",
			Required:    true,
		},
	},
}

func CancelHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		user := e.SlashCommandInteractionData().User("user")

		if !b.Claims.Cancel(user.ID) {
			return utils.EH.CreateClassifiedError(e, utils.NotFoundError,
				fmt.Sprintf("User %s has no pending claim.", user.Mention()))
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Pending claim for %s canceled.", user.Mention()))
	}
}
