package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/KirkDiggler/tenzies/internal/models"
	gameService "github.com/KirkDiggler/tenzies/internal/services/game"
	"github.com/KirkDiggler/tenzies/internal/services/messaging"
	"github.com/KirkDiggler/tenzies/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const (
	templateIndex = "index.html"
	templateBoard = "board"
)

type statsResponse struct {
	PlayerName          string  `json:"playerName"`
	GamesStarted        int     `json:"gamesStarted"`
	GamesWon            int     `json:"gamesWon"`
	TotalRolls          int     `json:"totalRolls"`
	BestRolls           int     `json:"bestRolls"`
	BestDurationSeconds float64 `json:"bestDurationSeconds"`
	AverageRolls        float64 `json:"averageRolls"`
}

// leaderboardEntry leaves out the player ID: for web players it is the session cookie
type leaderboardEntry struct {
	Rank                int     `json:"rank"`
	PlayerName          string  `json:"playerName"`
	BestRolls           int     `json:"bestRolls"`
	BestDurationSeconds float64 `json:"bestDurationSeconds"`
	GamesWon            int     `json:"gamesWon"`
}

// homeHandler renders the full page for the session's game, dealing one if needed
func (h *Handler) homeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := h.getOrCreateSession(c)
	playerName := h.getOrCreatePlayerName(c)

	game, started, err := h.currentGame(ctx, playerID, playerName)
	if err != nil {
		h.fail(c, err)
		return
	}

	message := ""
	if started {
		message = h.gameStartedMessage(ctx, playerName)
	}

	data := h.boardData(game, message)
	data["title"] = "Tenzies"
	data["playerName"] = playerName
	c.HTML(http.StatusOK, templateIndex, data)
}

// gameStateHandler renders the board fragment
func (h *Handler) gameStateHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := h.getOrCreateSession(c)

	game, _, err := h.currentGame(ctx, playerID, h.getOrCreatePlayerName(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, templateBoard, h.boardData(game, ""))
}

// rollHandler rolls the unheld dice, or deals a new game after a win
func (h *Handler) rollHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := h.getOrCreateSession(c)

	output, err := h.gameService.RollDice(ctx, &gameService.RollDiceInput{
		PlayerID:   playerID,
		PlayerName: h.getOrCreatePlayerName(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	logInfo("Session %s rolled (game %s, rolls %d, new game %t) [%s]",
		playerID, output.Game.ID, output.Game.Rolls, output.NewGame, requestID(c))

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, RouteHome)
		return
	}

	message := ""
	msg, err := h.messagingService.GetRollResultMessage(ctx, &messaging.GetRollResultMessageInput{
		HeldCount: output.Game.Dice.HeldCount(),
		Rolls:     output.Game.Rolls,
		NewGame:   output.NewGame,
	})
	if err != nil {
		logWarn("Failed to get roll message: %v", err)
	} else {
		message = msg.Message
	}

	c.HTML(http.StatusOK, templateBoard, h.boardData(output.Game, message))
}

// holdHandler toggles the held flag of one die
func (h *Handler) holdHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := h.getOrCreateSession(c)

	output, err := h.gameService.ToggleHold(ctx, &gameService.ToggleHoldInput{
		PlayerID: playerID,
		DieID:    c.Param("id"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, RouteHome)
		return
	}

	data := h.boardData(output.Game, "")
	if output.JustWon {
		game := output.Game
		logInfo("Session %s won game %s in %d rolls", playerID, game.ID, game.Rolls)
		c.Header("HX-Trigger", "tenzies-won")

		win, err := h.messagingService.GetWinMessage(ctx, &messaging.GetWinMessageInput{
			PlayerName:   game.PlayerName,
			Rolls:        game.Rolls,
			Duration:     game.Duration(h.clock.Now()),
			PersonalBest: output.PersonalBest,
		})
		if err != nil {
			logWarn("Failed to get win message: %v", err)
		} else {
			data["winTitle"] = win.Title
			data["message"] = win.Message
		}
	}

	c.HTML(http.StatusOK, templateBoard, data)
}

// abandonHandler throws the current game away
func (h *Handler) abandonHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := h.getOrCreateSession(c)

	_, err := h.gameService.AbandonGame(ctx, &gameService.AbandonGameInput{
		PlayerID: playerID,
	})
	if err != nil && !errors.Is(err, gameService.ErrGameNotFound) {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, RouteHome)
}

// statsHandler returns the session player's stats as JSON
func (h *Handler) statsHandler(c *gin.Context) {
	playerID := h.getOrCreateSession(c)

	output, err := h.gameService.GetStats(c.Request.Context(), &gameService.GetStatsInput{
		PlayerID: playerID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	stats := output.Stats
	c.JSON(http.StatusOK, statsResponse{
		PlayerName:          stats.PlayerName,
		GamesStarted:        stats.GamesStarted,
		GamesWon:            stats.GamesWon,
		TotalRolls:          stats.TotalRolls,
		BestRolls:           stats.BestRolls,
		BestDurationSeconds: stats.BestDuration.Seconds(),
		AverageRolls:        stats.AverageRolls(),
	})
}

// leaderboardHandler returns the best players as JSON
func (h *Handler) leaderboardHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
			return
		}
		limit = n
	}

	output, err := h.gameService.GetLeaderboard(c.Request.Context(), &gameService.GetLeaderboardInput{
		Limit: limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": lo.Map(output.Leaderboard.Entries, func(e *models.LeaderboardEntry, _ int) leaderboardEntry {
			return leaderboardEntry{
				Rank:                e.Rank,
				PlayerName:          e.PlayerName,
				BestRolls:           e.BestRolls,
				BestDurationSeconds: e.BestDuration.Seconds(),
				GamesWon:            e.GamesWon,
			}
		}),
	})
}

// healthHandler reports liveness
func (h *Handler) healthHandler(c *gin.Context) {
	now := h.clock.Now()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"env":       map[bool]string{true: "production", false: "development"}[h.isProduction],
		"uptime":    view.FormatDuration(now.Sub(h.startTime)),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// currentGame returns the player's game, starting one when there is none or
// the stored one is unusable
func (h *Handler) currentGame(ctx context.Context, playerID, playerName string) (*models.Game, bool, error) {
	output, err := h.gameService.GetGame(ctx, &gameService.GetGameInput{PlayerID: playerID})
	if err == nil {
		return output.Game, false, nil
	}

	if !errors.Is(err, gameService.ErrGameNotFound) && !errors.Is(err, gameService.ErrInvalidGameState) {
		return nil, false, err
	}

	started, err := h.gameService.StartGame(ctx, &gameService.StartGameInput{
		PlayerID:   playerID,
		PlayerName: playerName,
	})
	if err != nil {
		return nil, false, err
	}
	logInfo("Started game %s for session %s", started.Game.ID, playerID)
	return started.Game, true, nil
}

func (h *Handler) gameStartedMessage(ctx context.Context, playerName string) string {
	output, err := h.messagingService.GetGameStartedMessage(ctx, &messaging.GetGameStartedMessageInput{
		PlayerName: playerName,
	})
	if err != nil {
		logWarn("Failed to get game started message: %v", err)
		return ""
	}
	return output.Message
}

func (h *Handler) boardData(game *models.Game, message string) gin.H {
	return gin.H{
		"board":   view.Render(game, h.clock.Now()),
		"message": message,
	}
}

// fail maps a service error to a status and a friendly message
func (h *Handler) fail(c *gin.Context, err error) {
	errorType := messaging.ErrorTypeUnknown
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, gameService.ErrGameNotFound):
		errorType, status = messaging.ErrorTypeGameNotFound, http.StatusNotFound
	case errors.Is(err, gameService.ErrGameAlreadyWon):
		errorType, status = messaging.ErrorTypeGameAlreadyWon, http.StatusConflict
	case errors.Is(err, gameService.ErrInvalidGameState):
		errorType, status = messaging.ErrorTypeInvalidGameState, http.StatusConflict
	case errors.Is(err, gameService.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logWarn("Request %s failed: %v", requestID(c), err)
	}

	message := "Something went wrong."
	output, msgErr := h.messagingService.GetErrorMessage(c.Request.Context(), &messaging.GetErrorMessageInput{
		ErrorType: errorType,
	})
	if msgErr == nil {
		message = output.Message
	}

	if isHTMX(c) {
		if b, err := json.Marshal(map[string]string{"server_error": message}); err == nil {
			c.Header("HX-Trigger", string(b))
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
