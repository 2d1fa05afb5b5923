package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/naya-pay/naya_pay/internal/kvstore"
)

// Color themes available to the client.
const (
	ThemeDefault = "default"
	ThemeOcean   = "ocean"
	ThemeSunset  = "sunset"
	ThemeForest  = "forest"
	ThemePurple  = "purple"
	ThemePink    = "pink"
	ThemeRainbow = "rainbow"
	ThemeNeon    = "neon"
)

// UI modes.
const (
	ModeLight = "light"
	ModeDark  = "dark"
)

var (
	// ErrUnknownTheme indicates a theme outside the fixed palette set.
	ErrUnknownTheme = errors.New("unknown color theme")
	// ErrUnknownMode indicates a UI mode other than light or dark.
	ErrUnknownMode = errors.New("unknown ui mode")
)

var themes = map[string]bool{
	ThemeDefault: true,
	ThemeOcean:   true,
	ThemeSunset:  true,
	ThemeForest:  true,
	ThemePurple:  true,
	ThemePink:    true,
	ThemeRainbow: true,
	ThemeNeon:    true,
}

// Themes returns the supported color themes.
func Themes() []string {
	return []string{ThemeDefault, ThemeOcean, ThemeSunset, ThemeForest, ThemePurple, ThemePink, ThemeRainbow, ThemeNeon}
}

// Preferences are the per-user display settings.
type Preferences struct {
	ColorTheme string
	UIMode     string
}

// Service stores display preferences per user. Values are validated on
// write; reads fall back to defaults for missing or unrecognized values.
type Service struct {
	store kvstore.Store
}

// NewService constructs a preferences service.
func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

func themeKey(userID string) string { return fmt.Sprintf("prefs:%s:color_theme", userID) }
func modeKey(userID string) string  { return fmt.Sprintf("prefs:%s:ui_mode", userID) }

// Get returns the user's preferences, defaulting unknown or missing values.
func (s *Service) Get(ctx context.Context, userID string) (Preferences, error) {
	prefs := Preferences{ColorTheme: ThemeDefault, UIMode: ModeLight}

	theme, err := s.store.Get(ctx, themeKey(userID))
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return Preferences{}, err
	}
	if themes[theme] {
		prefs.ColorTheme = theme
	}

	mode, err := s.store.Get(ctx, modeKey(userID))
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return Preferences{}, err
	}
	if mode == ModeLight || mode == ModeDark {
		prefs.UIMode = mode
	}

	return prefs, nil
}

// SetColorTheme validates and stores the user's color theme.
func (s *Service) SetColorTheme(ctx context.Context, userID, theme string) error {
	if !themes[theme] {
		return ErrUnknownTheme
	}
	return s.store.Set(ctx, themeKey(userID), theme, 0)
}

// SetUIMode validates and stores the user's UI mode.
func (s *Service) SetUIMode(ctx context.Context, userID, mode string) error {
	if mode != ModeLight && mode != ModeDark {
		return ErrUnknownMode
	}
	return s.store.Set(ctx, modeKey(userID), mode, 0)
}
