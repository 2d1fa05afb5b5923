package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/naya-pay/naya_pay/internal/kvstore"
)

func TestGetDefaultsWhenUnset(t *testing.T) {
	service := NewService(kvstore.NewMemory())

	prefs, err := service.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.ColorTheme != ThemeDefault {
		t.Fatalf("expected default theme, got %q", prefs.ColorTheme)
	}
	if prefs.UIMode != ModeLight {
		t.Fatalf("expected light mode, got %q", prefs.UIMode)
	}
}

func TestSetAndGetRoundTrip(t *testing.T) {
	service := NewService(kvstore.NewMemory())
	ctx := context.Background()

	if err := service.SetColorTheme(ctx, "u1", ThemeOcean); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := service.SetUIMode(ctx, "u1", ModeDark); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	prefs, err := service.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.ColorTheme != ThemeOcean || prefs.UIMode != ModeDark {
		t.Fatalf("unexpected prefs: %+v", prefs)
	}

	// Another user is unaffected.
	other, err := service.Get(ctx, "u2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if other.ColorTheme != ThemeDefault || other.UIMode != ModeLight {
		t.Fatalf("expected defaults for other user, got %+v", other)
	}
}

func TestSetRejectsUnknownValues(t *testing.T) {
	service := NewService(kvstore.NewMemory())
	ctx := context.Background()

	if err := service.SetColorTheme(ctx, "u1", "lava"); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if err := service.SetUIMode(ctx, "u1", "sepia"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestCorruptStoredValueFallsBackToDefault(t *testing.T) {
	store := kvstore.NewMemory()
	service := NewService(store)
	ctx := context.Background()

	if err := store.Set(ctx, "prefs:u1:color_theme", "lava", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	prefs, err := service.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.ColorTheme != ThemeDefault {
		t.Fatalf("expected fallback to default theme, got %q", prefs.ColorTheme)
	}
}

func TestPreferencesSurviveNewStoreInstance(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	first := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer first.Close()
	if err := NewService(kvstore.NewRedisStore(first, "nayapay")).SetColorTheme(ctx, "u1", ThemeSunset); err != nil {
		t.Fatalf("set theme: %v", err)
	}

	second := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer second.Close()
	prefs, err := NewService(kvstore.NewRedisStore(second, "nayapay")).Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.ColorTheme != ThemeSunset {
		t.Fatalf("expected persisted theme, got %q", prefs.ColorTheme)
	}
}
