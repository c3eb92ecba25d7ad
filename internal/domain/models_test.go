package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSnapshotJSONKeepsZeroCountdown(t *testing.T) {
	snap := Snapshot{
		Phase:         PhaseAnswering,
		Total:         3,
		Prompt:        "Good",
		Options:       []string{"好的", "坏的"},
		TimerEnabled:  true,
		TimeRemaining: 0,
		TimerDuration: 15,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"timeRemaining":0`) {
		t.Fatalf("stalled countdown must be sent as 0: %s", raw)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["timerEnabled"] != true || decoded["timerDuration"] != float64(15) {
		t.Fatalf("unexpected timer fields %v", decoded)
	}
}
