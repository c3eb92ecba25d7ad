package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"vocab-quiz/internal/app"
	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/infra/memory"
)

type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func TestWebSocketQuizFlow(t *testing.T) {
	sched := app.NewManualScheduler()
	handler, _ := newTestHandler(sched)
	server := httptest.NewServer(handler.Routes())
	defer server.Close()

	conn := dial(t, server, "cet4")
	defer conn.Close()

	var started startedPayload
	decodePayload(t, readUntil(t, conn, func(m wireMessage) bool { return m.Type == "started" }), &started)
	if started.SessionID == "" || started.Title != "四级词汇书" {
		t.Fatalf("unexpected started payload %+v", started)
	}

	send(t, conn, "results", nil)
	readUntil(t, conn, func(m wireMessage) bool { return m.Type == "error" })

	for i, option := range []int{0, 0, 2} {
		send(t, conn, "select", map[string]any{"option": option})
		readUntil(t, conn, stateMatches(t, func(s domain.Snapshot) bool { return len(s.Answers) == i+1 && s.Locked }))
		sched.Advance(app.DefaultTiming.Settle)
	}
	readUntil(t, conn, stateMatches(t, func(s domain.Snapshot) bool { return s.Finished && s.Celebrating }))

	send(t, conn, "results", nil)
	var results resultsPayload
	decodePayload(t, readUntil(t, conn, func(m wireMessage) bool { return m.Type == "results" }), &results)
	if results.Score != 2 || results.Total != 3 {
		t.Fatalf("expected 2/3, got %d/%d", results.Score, results.Total)
	}
	if results.Results[1].IsRight {
		t.Fatalf("second answer should be graded incorrect: %+v", results.Results[1])
	}

	send(t, conn, "restart", nil)
	readUntil(t, conn, stateMatches(t, func(s domain.Snapshot) bool {
		return !s.Finished && s.CurrentIndex == 0 && len(s.Answers) == 0
	}))
}

func TestWebSocketUnknownDeck(t *testing.T) {
	handler, _ := newTestHandler(app.NewManualScheduler())
	server := httptest.NewServer(handler.Routes())
	defer server.Close()

	conn := dial(t, server, "missing")
	defer conn.Close()

	msg := readUntil(t, conn, func(m wireMessage) bool { return true })
	if msg.Type != "error" {
		t.Fatalf("expected error, got %s", msg.Type)
	}
}

func TestWebSocketTimerSettingsApplyToNewSessions(t *testing.T) {
	sched := app.NewManualScheduler()
	handler, settings := newTestHandler(sched)
	server := httptest.NewServer(handler.Routes())
	defer server.Close()

	on := true
	settings.Update(context.Background(), domain.SettingsPatch{ShowTimer: &on})

	conn := dial(t, server, "")
	defer conn.Close()

	var started startedPayload
	decodePayload(t, readUntil(t, conn, func(m wireMessage) bool { return m.Type == "started" }), &started)
	if !started.Config.TimerEnabled || started.Config.TimerDurationSeconds != 15 {
		t.Fatalf("expected timer config, got %+v", started.Config)
	}

	sched.Advance(time.Second)
	msg := readUntil(t, conn, stateMatches(t, func(s domain.Snapshot) bool { return s.TimeRemaining == 14 }))
	var view struct {
		TimerPercentage float64 `json:"timerPercentage"`
	}
	decodePayload(t, msg, &view)
	if view.TimerPercentage <= 93 || view.TimerPercentage >= 94 {
		t.Fatalf("unexpected timer percentage %v", view.TimerPercentage)
	}
}

func TestSettingsEndpoint(t *testing.T) {
	handler, _ := newTestHandler(app.NewManualScheduler())
	routes := handler.Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	var got domain.Settings
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	body := `{"showTimer": true, "timerDuration": 30, "colorTheme": "light"}`
	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status %d", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.ShowTimer || got.TimerDuration != domain.MaxTimerDuration || got.ColorTheme != domain.ThemeLight {
		t.Fatalf("unexpected settings %+v", got)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`{"timerDuration": "abc"}`)))
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TimerDuration != domain.MaxTimerDuration {
		t.Fatalf("non-numeric duration must be ignored, got %d", got.TimerDuration)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`not json`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"showTimer": false}`)))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for PUT, got %d", rec.Code)
	}
	if !handler.settings.Current(context.Background()).ShowTimer {
		t.Fatalf("PUT must not change settings")
	}
}

func TestDashboardEndpoint(t *testing.T) {
	handler, _ := newTestHandler(app.NewManualScheduler())
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	var view dashboardView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Book != "四级词汇书" || view.Learned != 3 || view.Total != 321 {
		t.Fatalf("unexpected dashboard %+v", view)
	}
	if view.Percent < 0.93 || view.Percent > 0.94 {
		t.Fatalf("unexpected percent %v", view.Percent)
	}
}

func newTestHandler(sched app.Scheduler) (*Handler, *app.SettingsService) {
	settings := app.NewSettingsService(memory.NewSettingsStore(), zerolog.Nop())
	decks := memory.NewDeckRepository(memory.NewStaticDeckLoader(memory.BuiltinDecks()), time.Minute)
	service := app.NewQuizService(memory.NewSessionStore(), decks, settings, app.WithScheduler(sched))
	dashboard := domain.Dashboard{CheckInDays: 3, Book: "四级词汇书", Learned: 3, Total: 321}
	return NewHandler(service, settings, dashboard, memory.DefaultDeckID, zerolog.Nop()), settings
}

func dial(t *testing.T, server *httptest.Server, deck string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws"
	if deck != "" {
		u += "?deck=" + deck
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil reads messages until match accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(wireMessage) bool) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func stateMatches(t *testing.T, pred func(domain.Snapshot) bool) func(wireMessage) bool {
	return func(m wireMessage) bool {
		if m.Type != "state" {
			return false
		}
		var snap domain.Snapshot
		decodePayload(t, m, &snap)
		return pred(snap)
	}
}

func decodePayload(t *testing.T, msg wireMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		t.Fatalf("decode %s payload: %v", msg.Type, err)
	}
}
