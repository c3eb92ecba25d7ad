package domain

import (
	"strconv"
	"strings"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	// DefaultTimerDuration is used when the timer gets switched on.
	DefaultTimerDuration = 15
	// MaxTimerDuration caps user input.
	MaxTimerDuration = 15
)

// Settings is the single persisted preferences blob. JSON keys match the
// blob written by earlier clients so existing data keeps loading.
type Settings struct {
	ColorTheme        string `json:"colorTheme"`
	ShowTimer         bool   `json:"showTimer"`
	TimerDuration     int    `json:"timerDuration"`
	AutoSwitch        bool   `json:"autoSwitch"`
	ShowProgress      bool   `json:"showProgress"`
	RespondInRealTime bool   `json:"respondInRealTime"`
}

// DefaultSettings returns the settings used when nothing valid is persisted.
func DefaultSettings() Settings {
	return Settings{
		ColorTheme:    ThemeDark,
		TimerDuration: DefaultTimerDuration,
	}
}

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	ColorTheme        *string `json:"colorTheme,omitempty"`
	ShowTimer         *bool   `json:"showTimer,omitempty"`
	TimerDuration     *string `json:"timerDuration,omitempty"`
	AutoSwitch        *bool   `json:"autoSwitch,omitempty"`
	ShowProgress      *bool   `json:"showProgress,omitempty"`
	RespondInRealTime *bool   `json:"respondInRealTime,omitempty"`
}

// Apply merges the patch into s. Toggling the timer resets its dependent
// fields; invalid theme and duration input is ignored.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.ColorTheme != nil && validTheme(*p.ColorTheme) {
		s.ColorTheme = *p.ColorTheme
	}
	if p.ShowTimer != nil {
		s.ShowTimer = *p.ShowTimer
		if s.ShowTimer {
			s.TimerDuration = DefaultTimerDuration
			s.AutoSwitch = false
		} else {
			s.TimerDuration = 0
			s.AutoSwitch = false
		}
	}
	if p.TimerDuration != nil {
		s, _ = s.WithTimerDuration(*p.TimerDuration)
	}
	if p.AutoSwitch != nil {
		s.AutoSwitch = *p.AutoSwitch
	}
	if p.ShowProgress != nil {
		s.ShowProgress = *p.ShowProgress
	}
	if p.RespondInRealTime != nil {
		s.RespondInRealTime = *p.RespondInRealTime
	}
	return s
}

// WithTimerDuration parses raw user input. Positive values are clamped to
// MaxTimerDuration; empty, zero, negative or non-numeric input keeps the
// previous value and reports false.
func (s Settings) WithTimerDuration(raw string) (Settings, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return s, false
	}
	s.TimerDuration = min(v, MaxTimerDuration)
	return s, true
}

// Normalize repairs values loaded from storage.
func (s Settings) Normalize() Settings {
	if !validTheme(s.ColorTheme) {
		s.ColorTheme = ThemeDark
	}
	if s.TimerDuration > MaxTimerDuration {
		s.TimerDuration = MaxTimerDuration
	}
	if s.TimerDuration < 0 {
		s.TimerDuration = 0
	}
	return s
}

// QuizConfig derives the state machine configuration. Auto-advance only
// applies when the timer is shown.
func (s Settings) QuizConfig() QuizConfig {
	duration := s.TimerDuration
	if duration <= 0 {
		duration = DefaultTimerDuration
	}
	return QuizConfig{
		TimerEnabled:         s.ShowTimer,
		TimerDurationSeconds: min(duration, MaxTimerDuration),
		AutoAdvanceOnTimeout: s.ShowTimer && s.AutoSwitch,
		ShowProgress:         s.ShowProgress,
		ShowLiveFeedback:     s.RespondInRealTime,
	}
}

func validTheme(theme string) bool {
	return theme == ThemeDark || theme == ThemeLight
}
