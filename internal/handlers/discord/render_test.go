package discord

import (
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/tenzies/internal/models"
	"github.com/KirkDiggler/tenzies/internal/tenzies"
	"github.com/KirkDiggler/tenzies/internal/view"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardOf(value, held int) *view.Board {
	state := make(tenzies.State, tenzies.DiceCount)
	for i := range state {
		state[i] = tenzies.Die{ID: fmt.Sprintf("die-%d", i), Value: value, IsHeld: i < held}
	}
	return view.RenderState(state)
}

func buttons(t *testing.T, component discordgo.MessageComponent) []discordgo.Button {
	row, ok := component.(discordgo.ActionsRow)
	require.True(t, ok)
	out := make([]discordgo.Button, 0, len(row.Components))
	for _, c := range row.Components {
		b, ok := c.(discordgo.Button)
		require.True(t, ok)
		out = append(out, b)
	}
	return out
}

func TestRenderBoardComponentsLayout(t *testing.T) {
	components := renderBoardComponents(boardOf(4, 3))

	require.Len(t, components, 3)
	first := buttons(t, components[0])
	second := buttons(t, components[1])
	require.Len(t, first, 5)
	require.Len(t, second, 5)

	assert.Equal(t, "4", first[0].Label)
	assert.Equal(t, "hold_die:die-0", first[0].CustomID)
	assert.Equal(t, discordgo.SuccessButton, first[0].Style)
	assert.Equal(t, discordgo.SecondaryButton, first[3].Style)
	assert.Equal(t, "hold_die:die-5", second[0].CustomID)
	assert.False(t, first[0].Disabled)

	action := buttons(t, components[2])
	require.Len(t, action, 1)
	assert.Equal(t, ButtonRollDice, action[0].CustomID)
	assert.Equal(t, "Roll", action[0].Label)
}

func TestRenderBoardComponentsWonDisablesDice(t *testing.T) {
	components := renderBoardComponents(boardOf(2, tenzies.DiceCount))

	for _, row := range components[:2] {
		for _, b := range buttons(t, row) {
			assert.True(t, b.Disabled)
		}
	}
	action := buttons(t, components[2])[0]
	assert.False(t, action.Disabled)
	assert.Equal(t, "New Game", action.Label)
}

func TestParseHoldDieCustomID(t *testing.T) {
	id, ok := parseHoldDieCustomID(holdDieCustomID("abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = parseHoldDieCustomID("hold_die:")
	assert.False(t, ok)

	_, ok = parseHoldDieCustomID(ButtonRollDice)
	assert.False(t, ok)
}

func TestRenderStatsWithWins(t *testing.T) {
	embed := renderStats(&models.PlayerStats{
		PlayerName:   "Pam",
		GamesStarted: 5,
		GamesWon:     2,
		TotalRolls:   21,
		BestRolls:    9,
		BestDuration: 45 * time.Second,
	}, "ignored")

	assert.Equal(t, "Tenzies stats for Pam", embed.Title)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "9 rolls in 45 seconds", embed.Fields[2].Value)
	assert.Equal(t, "10.5", embed.Fields[3].Value)
}

func TestRenderLeaderboardEmpty(t *testing.T) {
	assert.Equal(t, "Nobody has won yet. Be the first!", renderLeaderboard(&models.Leaderboard{}).Description)
	assert.Equal(t, "Nobody has won yet. Be the first!", renderLeaderboard(nil).Description)
}

func TestRenderError(t *testing.T) {
	data := renderError("nope")

	assert.Equal(t, discordgo.MessageFlagsEphemeral, data.Flags)
	assert.Equal(t, "nope", data.Embeds[0].Description)
}

func TestInteractionUser(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{Nick: "Captain", User: &discordgo.User{ID: "1", Username: "archer"}},
	}}
	id, name := interactionUser(guild)
	assert.Equal(t, "1", id)
	assert.Equal(t, "Captain", name)

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "2", Username: "lana"},
	}}
	id, name = interactionUser(dm)
	assert.Equal(t, "2", id)
	assert.Equal(t, "lana", name)
}

func TestLeaderboardLimitOption(t *testing.T) {
	withLimit := &discordgo.ApplicationCommandInteractionDataOption{
		Name: "leaderboard",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "limit", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(7)},
		},
	}
	assert.Equal(t, 7, leaderboardLimit(withLimit))
	assert.Equal(t, 0, leaderboardLimit(&discordgo.ApplicationCommandInteractionDataOption{Name: "leaderboard"}))
}
