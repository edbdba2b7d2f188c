package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/KirkDiggler/tenzies/internal/common/clock"
	"github.com/KirkDiggler/tenzies/internal/services/game"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	"github.com/KirkDiggler/tenzies/internal/view"
	"github.com/bwmarrin/discordgo"
)

// Bot represents the Discord bot instance
type Bot struct {
	session          *discordgo.Session
	commands         map[string]CommandHandler
	commandIDs       map[string]string // Maps command name to command ID
	gameService      game.Service
	messagingService messaging.Service
	clock            clock.Clock
	config           *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Services
	GameService      game.Service
	MessagingService messaging.Service

	Clock clock.Clock
}

// Button IDs
const (
	ButtonRollDice = "roll_dice"

	// ButtonHoldDiePrefix is followed by the die ID
	ButtonHoldDiePrefix = "hold_die:"
)

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:          session,
		commands:         make(map[string]CommandHandler),
		commandIDs:       make(map[string]string),
		gameService:      cfg.GameService,
		messagingService: cfg.MessagingService,
		clock:            cfg.Clock,
		config:           cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	tenziesCmd := NewTenziesCommand(b)
	if err := b.RegisterCommand(tenziesCmd); err != nil {
		return fmt.Errorf("failed to register tenzies command: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop removes the registered commands and closes the connection
func (b *Bot) Stop() error {
	appID := b.appID()

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		} else {
			log.Printf("Successfully deleted command %s (ID: %s)", cmdName, cmdID)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord. Commands are registered
// for the configured guild, or globally when there is none.
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	guildID := b.config.GuildID
	if guildID != "" {
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks on a board
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID
	userID, username := interactionUser(i)

	var (
		data *discordgo.InteractionResponseData
		err  error
	)

	switch {
	case customID == ButtonRollDice:
		data, err = b.rollResponse(context.Background(), userID, username)
	case strings.HasPrefix(customID, ButtonHoldDiePrefix):
		dieID, ok := parseHoldDieCustomID(customID)
		if !ok {
			return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
		}
		data, err = b.holdResponse(context.Background(), userID, dieID)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}
	if err != nil {
		return RespondWithError(s, i, b.errorMessage(context.Background(), err))
	}

	// Update the board in place
	return UpdateWithData(s, i, data)
}

// rollResponse rolls for the player and renders the updated board
func (b *Bot) rollResponse(ctx context.Context, userID, username string) (*discordgo.InteractionResponseData, error) {
	output, err := b.gameService.RollDice(ctx, &game.RollDiceInput{
		PlayerID:   userID,
		PlayerName: username,
	})
	if err != nil {
		log.Printf("Error rolling dice for %s: %v", userID, err)
		return nil, err
	}

	description := ""
	msg, err := b.messagingService.GetRollResultMessage(ctx, &messaging.GetRollResultMessageInput{
		HeldCount: output.Game.Dice.HeldCount(),
		Rolls:     output.Game.Rolls,
		NewGame:   output.NewGame,
	})
	if err != nil {
		log.Printf("Error getting roll message: %v", err)
	} else {
		description = msg.Message
	}

	board := view.Render(output.Game, b.clock.Now())
	return renderBoard(board, boardTitle(board), description), nil
}

// holdResponse toggles a die and renders the updated board
func (b *Bot) holdResponse(ctx context.Context, userID, dieID string) (*discordgo.InteractionResponseData, error) {
	output, err := b.gameService.ToggleHold(ctx, &game.ToggleHoldInput{
		PlayerID: userID,
		DieID:    dieID,
	})
	if err != nil {
		log.Printf("Error toggling die %s for %s: %v", dieID, userID, err)
		return nil, err
	}

	now := b.clock.Now()
	board := view.Render(output.Game, now)
	title, description := boardTitle(board), ""

	if output.JustWon {
		g := output.Game
		log.Printf("Player %s won game %s in %d rolls", userID, g.ID, g.Rolls)

		win, err := b.messagingService.GetWinMessage(ctx, &messaging.GetWinMessageInput{
			PlayerName:   g.PlayerName,
			Rolls:        g.Rolls,
			Duration:     g.Duration(now),
			PersonalBest: output.PersonalBest,
		})
		if err != nil {
			log.Printf("Error getting win message: %v", err)
		} else {
			title, description = win.Title, win.Message
		}
	}

	return renderBoard(board, title, description), nil
}

// errorMessage turns a service error into a friendly message
func (b *Bot) errorMessage(ctx context.Context, err error) string {
	errorType := messaging.ErrorTypeUnknown
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		errorType = messaging.ErrorTypeGameNotFound
	case errors.Is(err, game.ErrGameAlreadyWon):
		errorType = messaging.ErrorTypeGameAlreadyWon
	case errors.Is(err, game.ErrInvalidGameState):
		errorType = messaging.ErrorTypeInvalidGameState
	}

	output, msgErr := b.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		ErrorType: errorType,
	})
	if msgErr != nil {
		return "Something went wrong! Try again later."
	}
	return output.Message
}

// interactionUser returns the user ID and display name. Member is only set in
// guilds; direct messages carry User instead.
func interactionUser(i *discordgo.InteractionCreate) (string, string) {
	if i.Member != nil && i.Member.User != nil {
		name := i.Member.User.Username
		if i.Member.Nick != "" {
			name = i.Member.Nick
		}
		return i.Member.User.ID, name
	}
	if i.User != nil {
		return i.User.ID, i.User.Username
	}
	return "", ""
}
