package http

import (
	"encoding/json"
	"log"
	"net/http"

	"classquiz-service/internal/app"
	"classquiz-service/internal/domain"
	"classquiz-service/internal/identity"
	"classquiz-service/internal/play"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	AlternativeID   string `json:"alternativeId"`
	AlternativeText string `json:"alternativeText"`
}

// questionView is a question with correctness flags stripped; the client
// only learns correctness through feedback frames.
type questionView struct {
	Index        int               `json:"index"`
	Total        int               `json:"total"`
	Statement    string            `json:"statement"`
	Points       int               `json:"points"`
	Alternatives []alternativeView `json:"alternatives"`
}

type alternativeView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type feedbackView struct {
	Correct bool `json:"correct"`
}

type completedView struct {
	Result        domain.SubmitQuizResult `json:"result"`
	TotalAnswered int                     `json:"totalAnswered"`
	CorrectCount  int                     `json:"correctCount"`
	Accuracy      float64                 `json:"accuracy"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one play session
// over the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" || userID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}
	caller := identity.Session{UserID: userID, Role: identity.RoleStudent}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.service.StartSession(r.Context(), caller, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.EndSession(session)

	notices, cancelNotices := h.service.Notifier().Subscribe()
	defer cancelNotices()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case notice, ok := <-notices:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "notice", Payload: notice}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			var event play.Event
			var ok bool
			select {
			case event, ok = <-session.Events():
				if !ok {
					return
				}
			case <-closeSignals:
				return
			}
			var msg outboundMessage[any]
			switch event.Kind {
			case play.EventQuestion:
				msg = outboundMessage[any]{Type: "question", Payload: questionView{
					Index:        event.Index,
					Total:        session.QuestionCount(),
					Statement:    event.Question.Statement,
					Points:       event.Question.Points,
					Alternatives: stripCorrectness(event.Question.Alternatives),
				}}
			case play.EventFeedback:
				msg = outboundMessage[any]{Type: "feedback", Payload: feedbackView{Correct: event.Correct}}
			case play.EventSubmitting:
				outcome, err := h.service.SubmitSession(r.Context(), session)
				if err != nil {
					msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "submission failed, send submit to retry"}}
					break
				}
				msg = outboundMessage[any]{Type: "completed", Payload: completedView{
					Result:        outcome.Result,
					TotalAnswered: outcome.TotalAnswered,
					CorrectCount:  outcome.CorrectCount,
					Accuracy:      outcome.Accuracy,
				}}
			case play.EventCompleted:
				continue
			default:
				continue
			}
			select {
			case send <- msg:
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
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if _, err := session.SelectAnswer(payload.AlternativeID, payload.AlternativeText); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "submit":
			// Explicit retry after a failed submission call.
			if session.State() != play.StateSubmitting {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "nothing to submit"}}
				continue
			}
			outcome, err := h.service.SubmitSession(r.Context(), session)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "submission failed, send submit to retry"}}
				continue
			}
			send <- outboundMessage[any]{Type: "completed", Payload: completedView{
				Result:        outcome.Result,
				TotalAnswered: outcome.TotalAnswered,
				CorrectCount:  outcome.CorrectCount,
				Accuracy:      outcome.Accuracy,
			}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func stripCorrectness(alts []domain.Alternative) []alternativeView {
	out := make([]alternativeView, 0, len(alts))
	for _, alt := range alts {
		out = append(out, alternativeView{ID: alt.ID, Text: alt.Text})
	}
	return out
}
