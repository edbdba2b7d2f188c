package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/KirkDiggler/tenzies/internal/view"
	"github.com/samber/lo"
)

const helpText = `Commands:
  r, roll          roll every die that is not held
  1-10             hold or release dice by position, e.g. "2 5 7"
  n, new           deal a new game
  s, stats         show your stats
  l, leaderboard   show the best players
  a, abandon       abandon the game and quit
  h, help          show this help
  q, quit          quit`

// renderBoard draws the board as two rows of five numbered dice. A held die
// is marked with an asterisk as well as colored.
func renderBoard(w io.Writer, board *view.Board, title, message string, t *Theme) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Title.Sprint(title))
	if message != "" {
		fmt.Fprintln(w, t.Message.Sprint(message))
	}

	for r, row := range board.Rows() {
		cells := lo.Map(row, func(d view.DieView, i int) string {
			position := r*view.RowSize + i + 1
			cell := fmt.Sprintf("%2d) %s %d ", position, d.Face, d.Value)
			if d.Held {
				return t.Held.Sprint(strings.TrimRight(cell, " ") + "*")
			}
			return t.Free.Sprint(cell)
		})
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}

	fmt.Fprintf(w, "Rolls: %d  Held: %d/%d  Time: %s\n", board.Rolls, board.HeldCount, len(board.Dice), board.ElapsedText)
	if board.Won {
		fmt.Fprintln(w, t.Won.Sprint(board.Announcement))
		fmt.Fprintln(w, t.Hint.Sprint(`Type "n" for a new game.`))
	}
}

func renderStats(w io.Writer, stats *models.PlayerStats, t *Theme) {
	fmt.Fprintln(w, t.Title.Sprintf("Stats for %s", stats.PlayerName))
	fmt.Fprintf(w, "Games: %d  Wins: %d\n", stats.GamesStarted, stats.GamesWon)
	if !stats.HasWon() {
		fmt.Fprintln(w, t.Hint.Sprint("No wins yet. Keep rolling!"))
		return
	}
	fmt.Fprintf(w, "Best: %d rolls in %s  Average: %.1f rolls\n",
		stats.BestRolls, view.FormatDuration(stats.BestDuration), stats.AverageRolls())
}

func renderLeaderboard(w io.Writer, leaderboard *models.Leaderboard, t *Theme) {
	fmt.Fprintln(w, t.Title.Sprint("Leaderboard"))
	if leaderboard == nil || len(leaderboard.Entries) == 0 {
		fmt.Fprintln(w, t.Hint.Sprint("Nobody has won yet. Be the first!"))
		return
	}
	for _, e := range leaderboard.Entries {
		fmt.Fprintf(w, "%2d. %-20s %3d rolls  %s\n", e.Rank, e.PlayerName, e.BestRolls, view.FormatDuration(e.BestDuration))
	}
}
