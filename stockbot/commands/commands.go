package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/handlers"
)

var Commands = []discord.ApplicationCommandCreate{
	Stock,
	Gen,
	Help,
	Cancel,
	Recent,
	Settings,
	Module,
	StockAdd,
	StockRemove,
}

// Register mounts every command on h. Owner commands reject other users
// before their handler runs. Subcommands route by their full path.
func Register(h handler.Router, b *stockbot.Bot) {
	timeout := b.Cfg.CommandTimeout()
	owner := func(h handler.CommandHandler) handler.CommandHandler {
		return handlers.RequireOwner(b.Cfg.Bot.OwnerID, h)
	}

	h.Command("/stock", handlers.WrapWithLogging("stock", timeout, StockHandler(b)))
	h.Command("/gen", handlers.WrapWithLogging("gen", timeout, GenHandler(b)))
	h.Command("/help", handlers.WrapWithLogging("help", timeout, HelpHandler(b)))

	h.Command("/cancel", handlers.WrapWithLogging("cancel", timeout, owner(CancelHandler(b))))
	h.Command("/recent", handlers.WrapWithLogging("recent", timeout, owner(RecentHandler(b))))
	h.Route("/settings", func(r handler.Router) {
		settings := handlers.WrapWithLogging("settings", timeout, owner(SettingsHandler(b)))
		r.Command("/view", settings)
		r.Command("/set", settings)
	})
	h.Route("/module", func(r handler.Router) {
		module := handlers.WrapWithLogging("module", timeout, owner(ModuleHandler(b)))
		r.Command("/add", module)
		r.Command("/remove", module)
		r.Autocomplete("/remove", ModuleAutocomplete(b))
	})
	h.Command("/stock-add", handlers.WrapWithLogging("stock-add", timeout, owner(StockAddHandler(b))))
	h.Command("/stock-remove", handlers.WrapWithLogging("stock-remove", timeout, owner(StockRemoveHandler(b))))

	autocomplete := ModuleAutocomplete(b)
	h.Autocomplete("/gen", autocomplete)
	h.Autocomplete("/stock-add", autocomplete)
	h.Autocomplete("/stock-remove", autocomplete)
}
