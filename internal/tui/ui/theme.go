package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/securechat/internal/config"
)

// Theme holds color constants for the TUI.
type Theme struct {
	Name              string
	BgColor           tcell.Color
	FgColor           tcell.Color
	MutedColor        tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	UnreadColor       tcell.Color
	SelfColor         tcell.Color
	PeerColor         tcell.Color
	StarColor         tcell.Color
	SpamColor         tcell.Color
	MatchFg           tcell.Color
	MatchBg           tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
}

// DarkTheme returns a k9s-inspired dark theme.
func DarkTheme() *Theme {
	return &Theme{
		Name:              config.ThemeDark,
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		MutedColor:        tcell.ColorGray,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		NumericKeyColor:   tcell.ColorFuchsia,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		UnreadColor:       tcell.ColorLime,
		SelfColor:         tcell.ColorAqua,
		PeerColor:         tcell.ColorPapayaWhip,
		StarColor:         tcell.ColorGold,
		SpamColor:         tcell.ColorOrangeRed,
		MatchFg:           tcell.ColorBlack,
		MatchBg:           tcell.ColorYellow,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,
	}
}

// LightTheme returns a palette for light-background terminals.
func LightTheme() *Theme {
	return &Theme{
		Name:              config.ThemeLight,
		BgColor:           tcell.ColorWhite,
		FgColor:           tcell.ColorDarkSlateGray,
		MutedColor:        tcell.ColorDimGray,
		BorderColor:       tcell.ColorSteelBlue,
		BorderFocusColor:  tcell.ColorNavy,
		TableHeaderFg:     tcell.ColorBlack,
		TableHeaderBg:     tcell.ColorWhite,
		TableCursorFg:     tcell.ColorWhite,
		TableCursorBg:     tcell.ColorSteelBlue,
		CrumbActiveFg:     tcell.ColorWhite,
		CrumbActiveBg:     tcell.ColorDarkOrange,
		CrumbInactiveFg:   tcell.ColorWhite,
		CrumbInactiveBg:   tcell.ColorSteelBlue,
		MenuKeyColor:      tcell.ColorNavy,
		NumericKeyColor:   tcell.ColorPurple,
		TitleColor:        tcell.ColorPurple,
		CounterColor:      tcell.ColorSaddleBrown,
		UnreadColor:       tcell.ColorGreen,
		SelfColor:         tcell.ColorTeal,
		PeerColor:         tcell.ColorSaddleBrown,
		StarColor:         tcell.ColorDarkGoldenrod,
		SpamColor:         tcell.ColorFireBrick,
		MatchFg:           tcell.ColorBlack,
		MatchBg:           tcell.ColorKhaki,
		FlashInfoColor:    tcell.ColorNavy,
		FlashWarnColor:    tcell.ColorDarkOrange,
		FlashErrColor:     tcell.ColorFireBrick,
		PromptBorderColor: tcell.ColorSteelBlue,
	}
}

// ResolveTheme picks the palette for a config theme value. "system" reads
// the terminal background from colorfgbg (the COLORFGBG convention,
// "fg;bg" with ANSI indexes) and falls back to dark.
func ResolveTheme(name, colorfgbg string) *Theme {
	switch name {
	case config.ThemeLight:
		return LightTheme()
	case config.ThemeDark:
		return DarkTheme()
	}
	if lightBackground(colorfgbg) {
		return LightTheme()
	}
	return DarkTheme()
}

func lightBackground(colorfgbg string) bool {
	if colorfgbg == "" {
		return false
	}
	parts := strings.Split(colorfgbg, ";")
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return false
	}
	// ANSI 7 (white) and the bright range above 8 are light backgrounds.
	return bg == 7 || (bg > 8 && bg <= 15)
}

// NextTheme cycles system -> light -> dark -> system.
func NextTheme(name string) string {
	switch name {
	case config.ThemeSystem:
		return config.ThemeLight
	case config.ThemeLight:
		return config.ThemeDark
	default:
		return config.ThemeSystem
	}
}
