package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vocab-quiz/internal/config"
	"vocab-quiz/internal/domain"
)

func TestSettingsPatch(t *testing.T) {
	patch, err := settingsPatch("showTimer", "true")
	if err != nil || patch.ShowTimer == nil || !*patch.ShowTimer {
		t.Fatalf("unexpected patch %+v err=%v", patch, err)
	}
	patch, err = settingsPatch("timerDuration", "abc")
	if err != nil || patch.TimerDuration == nil || *patch.TimerDuration != "abc" {
		t.Fatalf("duration input should pass through, got %+v err=%v", patch, err)
	}
	if _, err := settingsPatch("autoSwitch", "maybe"); err == nil {
		t.Fatalf("expected error for non-bool value")
	}
	if _, err := settingsPatch("fontSize", "12"); err == nil || !strings.Contains(err.Error(), "unknown setting") {
		t.Fatalf("expected unknown setting error, got %v", err)
	}
}

func TestSettingsSetPersistsToFile(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")
	cfgPath := writeConfig(t, dir, "settings:\n  backend: file\n  path: "+settingsPath+"\nlog:\n  level: error\n  format: json\n")

	out := runCLI(t, "--config", cfgPath, "settings", "set", "showTimer", "true")
	if !strings.Contains(out, "showTimer") || !strings.Contains(out, "true") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	var saved domain.Settings
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !saved.ShowTimer || saved.TimerDuration != domain.DefaultTimerDuration || saved.AutoSwitch {
		t.Fatalf("unexpected saved settings %+v", saved)
	}
}

func TestDashboardCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "settings:\n  backend: memory\nlog:\n  level: error\n  format: json\n")
	out := runCLI(t, "--config", cfgPath, "dashboard")
	if !strings.Contains(out, "四级词汇书") || !strings.Contains(out, "3/321") {
		t.Fatalf("unexpected dashboard output:\n%s", out)
	}
}

func TestRuntimeUsesConfiguredTimingAndDecks(t *testing.T) {
	dir := t.TempDir()
	decksPath := filepath.Join(dir, "decks.yaml")
	decks := "decks:\n  - id: colors\n    title: Colors\n    questions:\n      - prompt: Red\n        options: [红色, 蓝色]\n        correct: 0\n"
	if err := os.WriteFile(decksPath, []byte(decks), 0o644); err != nil {
		t.Fatalf("write decks: %v", err)
	}

	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Settings.Backend = "memory"
	cfg.Decks.Path = decksPath
	cfg.Server.Timing.Settle = "10ms"

	rt, err := newRuntimeWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	defer rt.Close()

	if got := timing(cfg); got.Settle != 10*time.Millisecond || got.Tick != time.Second {
		t.Fatalf("unexpected timing %+v", got)
	}

	session, err := rt.quizzes.Start(context.Background(), "colors")
	if err != nil {
		t.Fatalf("start colors: %v", err)
	}
	defer rt.quizzes.End(context.Background(), session.ID)
	if session.Title != "Colors" {
		t.Fatalf("unexpected deck %+v", session)
	}

	builtin, err := rt.quizzes.Start(context.Background(), "cet4")
	if err != nil {
		t.Fatalf("built-in deck should still resolve: %v", err)
	}
	rt.quizzes.End(context.Background(), builtin.ID)
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestDotEnvSetsConfigPathAndPort(t *testing.T) {
	for _, key := range []string{"CONFIG_PATH", "PORT"} {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("CONFIG_PATH=/etc/vocab/config.yaml\nPORT=9090\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	loadEnv(envFile)

	cmd := newRootCmd()
	if got := cmd.PersistentFlags().Lookup("config").DefValue; got != "/etc/vocab/config.yaml" {
		t.Fatalf("expected config path from .env, got %q", got)
	}
	if got := cmd.PersistentFlags().Lookup("port").DefValue; got != "9090" {
		t.Fatalf("expected port from .env, got %q", got)
	}
}
