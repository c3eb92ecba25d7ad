package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"vocab-quiz/internal/app"
	"vocab-quiz/internal/domain"
)

// Handler serves the quiz presentation: a websocket per quiz view plus small
// JSON endpoints for the dashboard and settings views.
type Handler struct {
	quizzes     *app.QuizService
	settings    *app.SettingsService
	dashboard   domain.Dashboard
	defaultDeck string
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

func NewHandler(quizzes *app.QuizService, settings *app.SettingsService, dashboard domain.Dashboard, defaultDeck string, log zerolog.Logger) *Handler {
	return &Handler{
		quizzes:     quizzes,
		settings:    settings,
		dashboard:   dashboard,
		defaultDeck: defaultDeck,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/dashboard", h.ServeDashboard)
	mux.HandleFunc("/settings", h.ServeSettings)
	mux.HandleFunc("/ws", h.ServeWS)
	return mux
}

type dashboardView struct {
	domain.Dashboard
	Percent float64 `json:"percent"`
}

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, dashboardView{Dashboard: h.dashboard, Percent: h.dashboard.Percent()})
}

// settingsRequest accepts timerDuration as a number or a string; the raw
// value goes through the same input policy as the settings form.
type settingsRequest struct {
	ColorTheme        *string         `json:"colorTheme"`
	ShowTimer         *bool           `json:"showTimer"`
	TimerDuration     json.RawMessage `json:"timerDuration"`
	AutoSwitch        *bool           `json:"autoSwitch"`
	ShowProgress      *bool           `json:"showProgress"`
	RespondInRealTime *bool           `json:"respondInRealTime"`
}

func (r settingsRequest) patch() domain.SettingsPatch {
	p := domain.SettingsPatch{
		ColorTheme:        r.ColorTheme,
		ShowTimer:         r.ShowTimer,
		AutoSwitch:        r.AutoSwitch,
		ShowProgress:      r.ShowProgress,
		RespondInRealTime: r.RespondInRealTime,
	}
	if len(r.TimerDuration) > 0 && string(r.TimerDuration) != "null" {
		raw := strings.Trim(string(r.TimerDuration), `"`)
		p.TimerDuration = &raw
	}
	return p
}

func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.settings.Current(r.Context()))
	case http.MethodPatch:
		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid settings payload", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, h.settings.Update(r.Context(), req.patch()))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
