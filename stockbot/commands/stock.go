package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/stockbot"
	"github.com/ruthless-bot/ruthless/stockbot/config"
	"github.com/ruthless-bot/ruthless/stockbot/utils"
)

var Stock = discord.SlashCommandCreate{
	Name:        "stock",
	Description: "Show available modules and stock",
}

var Module = discord.SlashCommandCreate{
	Name:        "module",
	Description: "Manage stock modules (owner only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "add",
			Description: "Create a module",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "name", Description: "Module name", Required: true},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "remove",
			Description: "Delete a module and its stock",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "name", Description: "Module name", Required: true, Autocomplete: true},
			},
		},
	},
}

var StockAdd = discord.SlashCommandCreate{
	Name:        "stock-add",
	Description: "Add comma separated accounts to a module (owner only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "module", Description: "Module name", Required: true, Autocomplete: true},
		discord.ApplicationCommandOptionString{Name: "items", Description: "Accounts, separated by commas", Required: true},
	},
}

var StockRemove = discord.SlashCommandCreate{
	Name:        "stock-remove",
	Description: "Remove comma separated accounts from a module (owner only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{Name: "module", Description: "Module name", Required: true, Autocomplete: true},
		discord.ApplicationCommandOptionString{Name: "items", Description: "Accounts, separated by commas", Required: true},
	},
}

type moduleStock struct {
	Name  string
	Count int
}

func StockHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateUserError(e, "This command only works in a server.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		modules, err := b.Inventory.ListModules(ctx, *guildID)
		if err != nil {
			return err
		}
		if len(modules) == 0 {
			return utils.EH.CreateClassifiedError(e, utils.NotFoundError, "No modules available.")
		}

		stock := make([]moduleStock, 0, len(modules))
		for _, name := range modules {
			items, err := b.Inventory.ListItems(ctx, *guildID, name)
			if err != nil {
				return err
			}
			stock = append(stock, moduleStock{Name: name, Count: len(items)})
		}

		pages := pageCount(len(stock), config.ModulesPerPage)
		footer := b.Cfg.Bot.Name + " • " + time.Now().UTC().Format("2006-01-02 15:04 UTC")

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * config.ModulesPerPage
				end := min(start+config.ModulesPerPage, len(stock))

				embed.
					SetTitle(b.Cfg.Bot.Name + " Stock").
					SetDescription("Available modules:").
					SetColor(config.InfoColor).
					SetFooter(fmt.Sprintf("%s • Page %d/%d", footer, page+1, pages), "")
				for _, m := range stock[start:end] {
					embed.AddField("🗂️ "+m.Name, fmt.Sprintf("%d accounts available", m.Count), false)
				}
			},
			Pages:      pages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func ModuleHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateUserError(e, "This command only works in a server.")
		}
		data := e.SlashCommandInteractionData()

		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		switch subcommand := *data.SubCommandName; subcommand {
		case "add":
			name, err := inventory.NormalizeModuleName(data.String("name"))
			if err != nil {
				return utils.EH.HandleDomainError(e, err)
			}
			if err = b.Inventory.CreateModule(ctx, *guildID, name); err != nil {
				return utils.EH.HandleDomainError(e, err)
			}
			return utils.EH.UpdateSuccessEmbed(e, fmt.Sprintf("Module `%s` created.", name))

		case "remove":
			name := strings.TrimSpace(data.String("name"))
			if err := b.Inventory.DeleteModule(ctx, *guildID, name); err != nil {
				return utils.EH.HandleDomainError(e, err)
			}
			return utils.EH.UpdateSuccessEmbed(e, fmt.Sprintf("Module `%s` removed.", name))

		default:
			return fmt.Errorf("unknown module subcommand %q", subcommand)
		}
	}
}

func StockAddHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateUserError(e, "This command only works in a server.")
		}
		data := e.SlashCommandInteractionData()
		module := strings.TrimSpace(data.String("module"))
		items := inventory.ParseItems(data.String("items"))
		if len(items) == 0 {
			return utils.EH.CreateUserError(e, "Provide at least one account.")
		}

		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		if err := b.Inventory.AddItems(ctx, *guildID, module, items); err != nil {
			return utils.EH.HandleDomainError(e, err)
		}
		return utils.EH.UpdateSuccessEmbed(e, fmt.Sprintf("Added %d accounts to `%s`.", len(items), module))
	}
}

func StockRemoveHandler(b *stockbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateUserError(e, "This command only works in a server.")
		}
		data := e.SlashCommandInteractionData()
		module := strings.TrimSpace(data.String("module"))
		items := inventory.ParseItems(data.String("items"))
		if len(items) == 0 {
			return utils.EH.CreateUserError(e, "Provide at least one account.")
		}

		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		removed, err := b.Inventory.RemoveItems(ctx, *guildID, module, items)
		if err != nil {
			return utils.EH.HandleDomainError(e, err)
		}
		return utils.EH.UpdateSuccessEmbed(e, fmt.Sprintf("Removed %d accounts from `%s`.", removed, module))
	}
}

func pageCount(total, perPage int) int {
	return max(1, (total+perPage-1)/perPage)
}
