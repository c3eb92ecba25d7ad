package domain

import "testing"

func TestWithTimerDurationClampsAndRejects(t *testing.T) {
	s := DefaultSettings()
	s.TimerDuration = 10

	got, ok := s.WithTimerDuration("30")
	if !ok || got.TimerDuration != MaxTimerDuration {
		t.Fatalf("expected clamp to %d, got %d ok=%v", MaxTimerDuration, got.TimerDuration, ok)
	}

	got, ok = s.WithTimerDuration("7")
	if !ok || got.TimerDuration != 7 {
		t.Fatalf("expected 7, got %d ok=%v", got.TimerDuration, ok)
	}

	for _, raw := range []string{"0", "-3", "abc", ""} {
		got, ok = s.WithTimerDuration(raw)
		if ok || got.TimerDuration != 10 {
			t.Fatalf("input %q: expected previous value 10 kept, got %d ok=%v", raw, got.TimerDuration, ok)
		}
	}
}

func TestApplyTimerToggleResetsDependents(t *testing.T) {
	on, off := true, false
	s := DefaultSettings()
	s.TimerDuration = 5
	s.AutoSwitch = true

	enabled := s.Apply(SettingsPatch{ShowTimer: &on})
	if !enabled.ShowTimer || enabled.TimerDuration != DefaultTimerDuration || enabled.AutoSwitch {
		t.Fatalf("unexpected settings after enabling timer: %+v", enabled)
	}

	disabled := enabled.Apply(SettingsPatch{ShowTimer: &off})
	if disabled.ShowTimer || disabled.TimerDuration != 0 || disabled.AutoSwitch {
		t.Fatalf("unexpected settings after disabling timer: %+v", disabled)
	}
}

func TestApplyIgnoresUnknownTheme(t *testing.T) {
	theme := "neon"
	s := DefaultSettings().Apply(SettingsPatch{ColorTheme: &theme})
	if s.ColorTheme != ThemeDark {
		t.Fatalf("expected theme unchanged, got %q", s.ColorTheme)
	}
}

func TestQuizConfigFromSettings(t *testing.T) {
	s := Settings{ShowTimer: false, TimerDuration: 0, AutoSwitch: true, RespondInRealTime: true}
	cfg := s.QuizConfig()
	if cfg.TimerEnabled || cfg.AutoAdvanceOnTimeout {
		t.Fatalf("timer and auto-advance must be off: %+v", cfg)
	}
	if cfg.TimerDurationSeconds != DefaultTimerDuration {
		t.Fatalf("expected default duration, got %d", cfg.TimerDurationSeconds)
	}
	if !cfg.ShowLiveFeedback {
		t.Fatalf("expected live feedback enabled")
	}
}

func TestNormalizeRepairsStoredValues(t *testing.T) {
	s := Settings{ColorTheme: "", TimerDuration: 99}.Normalize()
	if s.ColorTheme != ThemeDark || s.TimerDuration != MaxTimerDuration {
		t.Fatalf("unexpected normalized settings: %+v", s)
	}
}
