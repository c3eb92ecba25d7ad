package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"vocab-quiz/internal/domain"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option *int `json:"option"`
}

type startedPayload struct {
	SessionID string            `json:"sessionId"`
	DeckID    string            `json:"deckId"`
	Title     string            `json:"title"`
	Theme     string            `json:"theme"`
	Config    domain.QuizConfig `json:"config"`
}

// stateView adds the derived percentages the countdown ring and progress bar draw from.
type stateView struct {
	domain.Snapshot
	TimerPercentage    float64 `json:"timerPercentage"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

type resultsPayload struct {
	Score   int                     `json:"score"`
	Total   int                     `json:"total"`
	Results []domain.QuestionResult `json:"results"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func newState(s domain.Snapshot) outboundMessage {
	return outboundMessage{Type: "state", Payload: stateView{
		Snapshot:           s,
		TimerPercentage:    s.TimerPercentage(),
		ProgressPercentage: s.ProgressPercentage(),
	}}
}

func newError(message string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Message: message}}
}

// ServeWS upgrades HTTP requests to websockets and mounts one quiz session for
// the lifetime of the connection.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	deckID := r.URL.Query().Get("deck")
	if deckID == "" {
		deckID = h.defaultDeck
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	session, err := h.quizzes.Start(r.Context(), deckID)
	if err != nil {
		_ = conn.WriteJSON(newError(err.Error()))
		return
	}
	defer h.quizzes.End(r.Context(), session.ID)

	updates, cancel, err := h.quizzes.Subscribe(r.Context(), session.ID)
	if err != nil {
		_ = conn.WriteJSON(newError(err.Error()))
		return
	}
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	emit := func(msg outboundMessage) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("session", session.ID).Msg("ws write error")
				return
			}
		}
	}()

	emit(outboundMessage{Type: "started", Payload: startedPayload{
		SessionID: session.ID,
		DeckID:    session.DeckID,
		Title:     session.Title,
		Theme:     session.Settings.ColorTheme,
		Config:    session.Config(),
	}})

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- newState(update):
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Option == nil {
				emit(newError("invalid select payload"))
				continue
			}
			// Ignored selections are not reported; the state stream shows the outcome.
			if _, _, err := h.quizzes.Select(r.Context(), session.ID, *payload.Option); err != nil {
				emit(newError(err.Error()))
			}
		case "restart":
			if _, err := h.quizzes.Restart(r.Context(), session.ID); err != nil {
				emit(newError(err.Error()))
			}
		case "results":
			results, err := h.quizzes.Results(r.Context(), session.ID)
			if errors.Is(err, domain.ErrQuizNotFinished) {
				emit(newError("results are available once the quiz is finished"))
				continue
			}
			if err != nil {
				emit(newError(err.Error()))
				continue
			}
			emit(outboundMessage{Type: "results", Payload: resultsPayload{
				Score:   domain.Score(results),
				Total:   len(results),
				Results: results,
			}})
		default:
			emit(newError("unsupported message type"))
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
