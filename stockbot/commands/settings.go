package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/ruthless-bot/ruthless/internal/domain/settings"
	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/config"
	"github.com/ruthless-bot/ruthless/stockbot/utils"
)

var Settings = discord.SlashCommandCreate{
	Name:        "settings",
	Description: "View or change bot settings for this server (owner only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "Show current settings",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "set",
			Description: "Change a setting",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "key",
					Description: "Setting to change",
					Required:    true,
					Choices:     settingChoices(),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "value",
					Description: "New value",
					Required:    true,
					MinValue:    intPtr(0),
				},
			},
		},
	},
}

func settingChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(settings.Keys))
	for _, k := range settings.Keys {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: string(k), Value: string(k)})
	}
	return choices
}

func intPtr(i int) *int { return &i }

func SettingsHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateUserError(e, "This command only works in a server.")
		}
		data := e.SlashCommandInteractionData()

		switch subcommand := *data.SubCommandName; subcommand {
		case "view":
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{discord.NewEmbedBuilder().
					SetTitle("⚙️ Settings").
					SetDescription(formatSettings(b.Settings.Snapshot(*guildID))).
					SetColor(config.InfoColor).
					Build()},
			})

		case "set":
			key, ok := settings.ParseKey(data.String("key"))
			if !ok {
				return utils.EH.CreateUserError(e, fmt.Sprintf("Unknown setting `%s`.", data.String("key")))
			}
			value := data.Int("value")
			if value < 0 {
				return utils.EH.CreateUserError(e, "Value must not be negative.")
			}
			b.Settings.Set(*guildID, key, value)
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("`%s` set to %d.", key, value))

		default:
			return fmt.Errorf("unknown settings subcommand %q", subcommand)
		}
	}
}

func formatSettings(values map[settings.Key]int) string {
	var sb strings.Builder
	for _, k := range settings.Keys {
		fmt.Fprintf(&sb, "**%s:** %d\n", k, values[k])
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
