package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/KirkDiggler/tenzies/internal/view"
	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const (
	colorInProgress = 0x5035ff
	colorWon        = 0xffd700
	colorError      = 0xff0000
	colorInfo       = 0x00ff00
)

// renderBoard renders the board embed with its die and action buttons
func renderBoard(board *view.Board, title, description string) *discordgo.InteractionResponseData {
	color := colorInProgress
	if board.Won {
		color = colorWon
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rolls", Value: strconv.Itoa(board.Rolls), Inline: true},
			{Name: "Held", Value: fmt.Sprintf("%d/%d", board.HeldCount, len(board.Dice)), Inline: true},
			{Name: "Time", Value: board.ElapsedText, Inline: true},
		},
	}
	if board.Won {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: board.Announcement}
	}

	return &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: renderBoardComponents(board),
	}
}

// renderBoardComponents lays the dice out in rows of five with the action
// button on its own row. Dice are disabled once the game is won.
func renderBoardComponents(board *view.Board) []discordgo.MessageComponent {
	components := lo.Map(board.Rows(), func(row []view.DieView, _ int) discordgo.MessageComponent {
		return discordgo.ActionsRow{
			Components: lo.Map(row, func(die view.DieView, _ int) discordgo.MessageComponent {
				style := discordgo.SecondaryButton
				if die.Held {
					style = discordgo.SuccessButton
				}
				return discordgo.Button{
					Label:    strconv.Itoa(die.Value),
					Style:    style,
					CustomID: holdDieCustomID(die.ID),
					Disabled: board.Won,
				}
			}),
		}
	})

	action := discordgo.Button{
		Label:    board.ActionLabel,
		Style:    discordgo.PrimaryButton,
		CustomID: ButtonRollDice,
		Emoji: &discordgo.ComponentEmoji{
			Name: "🎲",
		},
	}

	return append(components, discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{action},
	})
}

// renderStats renders a player's stats
func renderStats(stats *models.PlayerStats, username string) *discordgo.MessageEmbed {
	name := stats.PlayerName
	if name == "" {
		name = username
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Tenzies stats for %s", name),
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Games", Value: strconv.Itoa(stats.GamesStarted), Inline: true},
			{Name: "Wins", Value: strconv.Itoa(stats.GamesWon), Inline: true},
		},
	}

	if !stats.HasWon() {
		embed.Description = "No wins yet. Keep rolling!"
		return embed
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Best", Value: fmt.Sprintf("%d rolls in %s", stats.BestRolls, view.FormatDuration(stats.BestDuration))},
		&discordgo.MessageEmbedField{Name: "Average rolls", Value: fmt.Sprintf("%.1f", stats.AverageRolls()), Inline: true},
	)
	return embed
}

// renderLeaderboard renders the best players, one line each
func renderLeaderboard(leaderboard *models.Leaderboard) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Tenzies Leaderboard",
		Color: colorWon,
	}

	if leaderboard == nil || len(leaderboard.Entries) == 0 {
		embed.Description = "Nobody has won yet. Be the first!"
		return embed
	}

	lines := lo.Map(leaderboard.Entries, func(e *models.LeaderboardEntry, _ int) string {
		return fmt.Sprintf("**%d.** %s: %d rolls (%s)", e.Rank, e.PlayerName, e.BestRolls, view.FormatDuration(e.BestDuration))
	})
	embed.Description = strings.Join(lines, "\n")
	return embed
}

// renderError renders an ephemeral error embed
func renderError(message string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Error",
				Description: message,
				Color:       colorError,
			},
		},
		Flags: discordgo.MessageFlagsEphemeral,
	}
}

// boardTitle is the embed title while no message overrides it
func boardTitle(board *view.Board) string {
	if board.Won {
		return "Tenzies!"
	}
	return "Tenzies"
}

func holdDieCustomID(dieID string) string {
	return ButtonHoldDiePrefix + dieID
}

// parseHoldDieCustomID returns the die ID from a hold button custom ID
func parseHoldDieCustomID(customID string) (string, bool) {
	dieID, ok := strings.CutPrefix(customID, ButtonHoldDiePrefix)
	if !ok || dieID == "" {
		return "", false
	}
	return dieID, true
}
