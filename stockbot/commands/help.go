package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/config"
	"github.com/ruthless-bot/ruthless/stockbot/handlers"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "List available commands",
}

var userHelp = []discord.EmbedField{
	field("/stock", "Show available modules and how many accounts each has."),
	field("/gen <module>", "Get a Work.ink link. Complete it to receive an account by DM."),
	field("/help", "Show this message."),
}

var ownerHelp = []discord.EmbedField{
	field("/module add|remove <name>", "Create or delete a module."),
	field("/stock-add <module> <items>", "Add comma separated accounts."),
	field("/stock-remove <module> <items>", "Remove comma separated accounts."),
	field("/cancel <user>", "Cancel a user's pending claim."),
	field("/recent", "Show recent deliveries."),
	field("/settings view|set", "View or change cooldowns and other settings."),
}

func field(name, value string) discord.EmbedField {
	inline := false
	return discord.EmbedField{Name: name, Value: value, Inline: &inline}
}

func HelpHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		embed := discord.NewEmbedBuilder().
			SetTitle(b.Cfg.Bot.Name + " Commands").
			SetColor(config.InfoColor).
			SetFields(helpFields(handlers.IsOwner(b.Cfg.Bot.OwnerID, e.User().ID))...).
			SetFooter(b.Cfg.Bot.Name+" "+b.Version, "").
			Build()

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed},
			Flags:  discord.MessageFlagEphemeral,
		})
	}
}

func helpFields(owner bool) []discord.EmbedField {
	fields := append([]discord.EmbedField(nil), userHelp...)
	if owner {
		fields = append(fields, ownerHelp...)
	}
	return fields
}
