package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/tenzies/internal/services/game"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	"github.com/KirkDiggler/tenzies/internal/view"
	"github.com/bwmarrin/discordgo"
)

// TenziesCommand handles the /tenzies command
type TenziesCommand struct {
	BaseCommand
	bot *Bot
}

// NewTenziesCommand creates a new tenzies command handler
func NewTenziesCommand(bot *Bot) *TenziesCommand {
	minLimit := float64(1)

	return &TenziesCommand{
		BaseCommand: BaseCommand{
			Name:        "tenzies",
			Description: "Roll until all ten dice match",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Deal a new game",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show your Tenzies stats",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show the fastest Tenzies players",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "limit",
							Description: "How many players to show",
							MinValue:    &minLimit,
							MaxValue:    game.MaxLeaderboardLimit,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "abandon",
					Description: "Abandon your current game",
				},
			},
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the tenzies command
func (c *TenziesCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	userID, username := interactionUser(i)
	ctx := context.Background()

	var (
		response *discordgo.InteractionResponseData
		err      error
	)

	subcommand := data.Options[0]
	switch subcommand.Name {
	case "start":
		response, err = c.startResponse(ctx, userID, username)
	case "stats":
		response, err = c.statsResponse(ctx, userID, username)
	case "leaderboard":
		response, err = c.leaderboardResponse(ctx, leaderboardLimit(subcommand))
	case "abandon":
		response, err = c.abandonResponse(ctx, userID)
	default:
		err = errors.New("unknown subcommand")
	}
	if err != nil {
		return RespondWithError(s, i, c.bot.errorMessage(ctx, err))
	}

	return RespondWithData(s, i, response)
}

// startResponse deals a new game and shows the board only to the player
func (c *TenziesCommand) startResponse(ctx context.Context, userID, username string) (*discordgo.InteractionResponseData, error) {
	output, err := c.bot.gameService.StartGame(ctx, &game.StartGameInput{
		PlayerID:   userID,
		PlayerName: username,
	})
	if err != nil {
		log.Printf("Error starting game for %s: %v", userID, err)
		return nil, err
	}

	description := ""
	msg, err := c.bot.messagingService.GetGameStartedMessage(ctx, &messaging.GetGameStartedMessageInput{
		PlayerName: username,
	})
	if err != nil {
		log.Printf("Error getting game started message: %v", err)
	} else {
		description = msg.Message
	}

	data := renderBoard(view.Render(output.Game, c.bot.clock.Now()), "Tenzies", description)
	data.Flags = discordgo.MessageFlagsEphemeral
	return data, nil
}

func (c *TenziesCommand) statsResponse(ctx context.Context, userID, username string) (*discordgo.InteractionResponseData, error) {
	output, err := c.bot.gameService.GetStats(ctx, &game.GetStatsInput{PlayerID: userID})
	if err != nil {
		log.Printf("Error getting stats for %s: %v", userID, err)
		return nil, err
	}

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{renderStats(output.Stats, username)},
		Flags:  discordgo.MessageFlagsEphemeral,
	}, nil
}

func (c *TenziesCommand) leaderboardResponse(ctx context.Context, limit int) (*discordgo.InteractionResponseData, error) {
	output, err := c.bot.gameService.GetLeaderboard(ctx, &game.GetLeaderboardInput{Limit: limit})
	if err != nil {
		log.Printf("Error getting leaderboard: %v", err)
		return nil, err
	}

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{renderLeaderboard(output.Leaderboard)},
	}, nil
}

func (c *TenziesCommand) abandonResponse(ctx context.Context, userID string) (*discordgo.InteractionResponseData, error) {
	output, err := c.bot.gameService.AbandonGame(ctx, &game.AbandonGameInput{PlayerID: userID})
	if err != nil {
		return nil, err
	}
	log.Printf("Player %s abandoned game %s", userID, output.GameID)

	return &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Game abandoned. Use `/%s start` to play again.", c.Name),
		Flags:   discordgo.MessageFlagsEphemeral,
	}, nil
}

// leaderboardLimit reads the optional limit option
func leaderboardLimit(subcommand *discordgo.ApplicationCommandInteractionDataOption) int {
	for _, opt := range subcommand.Options {
		if opt.Name == "limit" {
			return int(opt.IntValue())
		}
	}
	return 0
}
