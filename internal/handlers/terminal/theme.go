package terminal

import "github.com/fatih/color"

// Theme colors the terminal board
type Theme struct {
	Title   *color.Color
	Held    *color.Color
	Free    *color.Color
	Won     *color.Color
	Message *color.Color
	Error   *color.Color
	Hint    *color.Color
}

// DefaultTheme highlights held dice in green and wins in yellow
func DefaultTheme() *Theme {
	return &Theme{
		Title:   color.New(color.FgCyan, color.Bold),
		Held:    color.New(color.FgGreen, color.Bold),
		Free:    color.New(color.FgWhite),
		Won:     color.New(color.FgYellow, color.Bold),
		Message: color.New(color.FgMagenta),
		Error:   color.New(color.FgRed),
		Hint:    color.New(color.Faint),
	}
}
