package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/ruthless-bot/ruthless/internal/domain/ledger"
	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/config"
	"github.com/ruthless-bot/ruthless/stockbot/utils"
)

var Recent = discord.SlashCommandCreate{
	Name:        "recent",
	Description: "Show recent deliveries (owner only)",
}

func RecentHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		entries := b.Ledger.List()
		if len(entries) == 0 {
			return utils.EH.CreateInfoEmbed(e, "No recent claims.")
		}

		pages := pageCount(len(entries), config.DeliveriesPerPage)
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * config.DeliveriesPerPage
				end := min(start+config.DeliveriesPerPage, len(entries))

				embed.
					SetTitle("📝 Recent Claims").
					SetColor(config.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • %d total", page+1, pages, len(entries)), "")
				for _, entry := range entries[start:end] {
					name, value := recentField(entry)
					embed.AddField(name, value, false)
				}
			},
			Pages:      pages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func recentField(entry ledger.Entry) (string, string) {
	name := fmt.Sprintf("%s (%s)", entry.RequesterName, entry.ScopeName)
	value := fmt.Sprintf("%s - %s\n<t:%d:R>", entry.Module, entry.Item, entry.DeliveredAt.Unix())
	return name, value
}
