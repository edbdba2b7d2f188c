// Package terminal is a line-oriented Tenzies front end for a terminal.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KirkDiggler/tenzies/internal/common/clock"
	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/KirkDiggler/tenzies/internal/services/game"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	"github.com/KirkDiggler/tenzies/internal/view"
)

const prompt = "> "

// ErrUnknownCommand is returned for input the client does not understand
var ErrUnknownCommand = errors.New("unknown command")

// Config holds the configuration for the terminal client
type Config struct {
	GameService      game.Service
	MessagingService messaging.Service
	Clock            clock.Clock

	PlayerID   string
	PlayerName string

	In  io.Reader
	Out io.Writer

	// Theme defaults to DefaultTheme
	Theme *Theme
}

// Client plays one player's games over a reader and writer
type Client struct {
	gameService      game.Service
	messagingService messaging.Service
	clock            clock.Clock
	playerID         string
	playerName       string
	in               io.Reader
	out              io.Writer
	theme            *Theme

	// game is the last game shown to the player
	game *models.Game
}

// New creates a terminal client
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
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

	if cfg.PlayerID == "" {
		return nil, errors.New("player ID cannot be empty")
	}

	if cfg.In == nil || cfg.Out == nil {
		return nil, errors.New("input and output cannot be nil")
	}

	theme := cfg.Theme
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Client{
		gameService:      cfg.GameService,
		messagingService: cfg.MessagingService,
		clock:            cfg.Clock,
		playerID:         cfg.PlayerID,
		playerName:       cfg.PlayerName,
		in:               cfg.In,
		out:              cfg.Out,
		theme:            theme,
	}, nil
}

// Run resumes or deals the player's game and reads commands until quit,
// end of input, or ctx is done. Cancelling ctx returns at once even while
// waiting for a line.
func (c *Client) Run(ctx context.Context) error {
	if err := c.resume(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.theme.Hint.Sprint(`Type "h" for help.`))

	// Stops the reader once Run returns
	readCtx, stop := context.WithCancel(ctx)
	defer stop()
	lines, readErr := c.readLines(readCtx)

	fmt.Fprint(c.out, prompt)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}

			quit, err := c.Execute(ctx, line)
			if err != nil {
				c.printError(ctx, err)
			}
			if quit {
				return nil
			}
			fmt.Fprint(c.out, prompt)
		}
	}
}

// readLines scans input on its own goroutine. The channel closes at end of
// input, after the scanner error is sent. A read blocked on a terminal stays
// blocked until the process exits.
func (c *Client) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}

// Execute runs one command line and reports whether the client should quit
func (c *Client) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, c.roll(ctx)
	}

	switch fields[0] {
	case "r", "roll":
		return false, c.roll(ctx)
	case "n", "new":
		return false, c.newGame(ctx)
	case "s", "stats":
		return false, c.stats(ctx)
	case "l", "leaderboard":
		return false, c.leaderboard(ctx)
	case "a", "abandon":
		return true, c.abandon(ctx)
	case "h", "help":
		fmt.Fprintln(c.out, helpText)
		return false, nil
	case "q", "quit", "exit":
		return true, nil
	}

	positions, err := parsePositions(fields)
	if err != nil {
		return false, err
	}
	return false, c.hold(ctx, positions)
}

func (c *Client) resume(ctx context.Context) error {
	output, err := c.gameService.GetGame(ctx, &game.GetGameInput{PlayerID: c.playerID})
	if err == nil {
		c.game = output.Game
		c.show("Welcome back", "")
		return nil
	}
	if !errors.Is(err, game.ErrGameNotFound) && !errors.Is(err, game.ErrInvalidGameState) {
		return fmt.Errorf("failed to load game: %w", err)
	}
	return c.newGame(ctx)
}

func (c *Client) newGame(ctx context.Context) error {
	output, err := c.gameService.StartGame(ctx, &game.StartGameInput{
		PlayerID:   c.playerID,
		PlayerName: c.playerName,
	})
	if err != nil {
		return err
	}
	c.game = output.Game

	message := ""
	if msg, err := c.messagingService.GetGameStartedMessage(ctx, &messaging.GetGameStartedMessageInput{
		PlayerName: c.playerName,
	}); err == nil {
		message = msg.Message
	}
	c.show("New game", message)
	return nil
}

func (c *Client) roll(ctx context.Context) error {
	output, err := c.gameService.RollDice(ctx, &game.RollDiceInput{
		PlayerID:   c.playerID,
		PlayerName: c.playerName,
	})
	if err != nil {
		return err
	}
	c.game = output.Game

	message := ""
	if msg, err := c.messagingService.GetRollResultMessage(ctx, &messaging.GetRollResultMessageInput{
		HeldCount: output.Game.Dice.HeldCount(),
		Rolls:     output.Game.Rolls,
		NewGame:   output.NewGame,
	}); err == nil {
		message = msg.Message
	}

	title := "Rolled"
	if output.NewGame {
		title = "New game"
	}
	c.show(title, message)
	return nil
}

// hold toggles the dice at the given 1-based positions in order and stops at
// the first error. The board is drawn once at the end.
func (c *Client) hold(ctx context.Context, positions []int) error {
	if c.game == nil {
		return game.ErrGameNotFound
	}

	title, message := "Held", ""
	for _, p := range positions {
		if p > len(c.game.Dice) {
			return fmt.Errorf("%w: no die at position %d", ErrUnknownCommand, p)
		}

		output, err := c.gameService.ToggleHold(ctx, &game.ToggleHoldInput{
			PlayerID: c.playerID,
			DieID:    c.game.Dice[p-1].ID,
		})
		if err != nil {
			return err
		}
		c.game = output.Game

		if output.JustWon {
			title = "Tenzies!"
			if win, err := c.messagingService.GetWinMessage(ctx, &messaging.GetWinMessageInput{
				PlayerName:   c.playerName,
				Rolls:        output.Game.Rolls,
				Duration:     output.Game.Duration(c.clock.Now()),
				PersonalBest: output.PersonalBest,
			}); err == nil {
				title, message = win.Title, win.Message
			}
			break
		}
	}

	c.show(title, message)
	return nil
}

func (c *Client) stats(ctx context.Context) error {
	output, err := c.gameService.GetStats(ctx, &game.GetStatsInput{PlayerID: c.playerID})
	if err != nil {
		return err
	}

	stats := output.Stats
	if stats.PlayerName == "" {
		stats.PlayerName = c.playerName
	}
	renderStats(c.out, stats, c.theme)
	return nil
}

func (c *Client) leaderboard(ctx context.Context) error {
	output, err := c.gameService.GetLeaderboard(ctx, &game.GetLeaderboardInput{})
	if err != nil {
		return err
	}
	renderLeaderboard(c.out, output.Leaderboard, c.theme)
	return nil
}

func (c *Client) abandon(ctx context.Context) error {
	if _, err := c.gameService.AbandonGame(ctx, &game.AbandonGameInput{PlayerID: c.playerID}); err != nil {
		return err
	}
	c.game = nil
	fmt.Fprintln(c.out, "Game abandoned.")
	return nil
}

func (c *Client) show(title, message string) {
	renderBoard(c.out, view.Render(c.game, c.clock.Now()), title, message, c.theme)
}

// printError prints a friendly message for service errors and the raw error
// for input mistakes
func (c *Client) printError(ctx context.Context, err error) {
	if errors.Is(err, ErrUnknownCommand) {
		fmt.Fprintln(c.out, c.theme.Error.Sprint(err.Error()))
		return
	}

	errorType := messaging.ErrorTypeUnknown
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		errorType = messaging.ErrorTypeGameNotFound
	case errors.Is(err, game.ErrGameAlreadyWon):
		errorType = messaging.ErrorTypeGameAlreadyWon
	case errors.Is(err, game.ErrInvalidGameState):
		errorType = messaging.ErrorTypeInvalidGameState
	}

	text := "Something went wrong! Try again later."
	if msg, msgErr := c.messagingService.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		ErrorType: errorType,
	}); msgErr == nil {
		text = msg.Message
	}
	fmt.Fprintln(c.out, c.theme.Error.Sprint(text))
}

// parsePositions reads 1-based die positions
func parsePositions(fields []string) ([]int, error) {
	positions := make([]int, 0, len(fields))
	for _, f := range fields {
		p, err := strconv.Atoi(f)
		if err != nil || p < 1 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, f)
		}
		positions = append(positions, p)
	}
	return positions, nil
}
