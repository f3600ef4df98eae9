package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classquiz-service/internal/app"
	"classquiz-service/internal/domain"
	"classquiz-service/internal/infra/memory"
	"classquiz-service/internal/notify"
	"github.com/gorilla/websocket"
)

func TestWebSocketPlayFlow(t *testing.T) {
	server, _, quizID := newTestServer(t)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/play?quizId=" + quizID + "&userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The first frame is the current question, without correctness flags.
	question := readUntil(conn, t, "question")
	if question["statement"] == "" {
		t.Fatalf("expected question payload, got %+v", question)
	}
	alts, ok := question["alternatives"].([]any)
	if !ok || len(alts) != 2 {
		t.Fatalf("expected 2 alternatives, got %+v", question["alternatives"])
	}
	for _, a := range alts {
		if _, leaked := a.(map[string]any)["isCorrect"]; leaked {
			t.Fatalf("correctness flag leaked to the client: %+v", a)
		}
	}

	// Answer with the known-correct alternative id.
	first := alts[0].(map[string]any)
	if err := conn.WriteJSON(map[string]any{
		"type": "answer",
		"payload": map[string]any{
			"alternativeId":   first["id"],
			"alternativeText": first["text"],
		},
	}); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	feedback := readUntil(conn, t, "feedback")
	if feedback["correct"] != true {
		t.Fatalf("expected correct feedback, got %+v", feedback)
	}

	// Single-question quiz: after the feedback window the session submits
	// and the final result arrives.
	completed := readUntil(conn, t, "completed")
	result, ok := completed["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result payload, got %+v", completed)
	}
	if result["successCount"] != float64(1) || result["errorCount"] != float64(0) {
		t.Fatalf("unexpected result: %+v", result)
	}
	if completed["correctCount"] != float64(1) || completed["accuracy"] != float64(1) {
		t.Fatalf("unexpected summary: %+v", completed)
	}
}

func TestDisconnectMidSessionReleasesSession(t *testing.T) {
	server, service, quizID := newTestServer(t)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/play?quizId=" + quizID + "&userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	// session is live and waiting on the first answer
	readUntil(conn, t, "question")
	if _, err := service.Session(quizID, "u1"); err != nil {
		t.Fatalf("expected registered session, got %v", err)
	}

	// navigating away closes the socket; the handler must tear the
	// session down rather than wait for an answer that never comes
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := service.Session(quizID, "u1"); errors.Is(err, domain.ErrSessionNotFound) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session still registered after client disconnect")
}

func TestWebSocketRejectsUnknownQuiz(t *testing.T) {
	server, _, _ := newTestServer(t)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/play?quizId=missing&userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	errFrame := readUntil(conn, t, "error")
	if errFrame["message"] == "" {
		t.Fatalf("expected error message, got %+v", errFrame)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *app.QuizService, string) {
	t.Helper()
	ctx := context.Background()

	repo := memory.NewQuizRepository()
	quiz, err := repo.CreateQuiz(ctx, domain.Quiz{Title: "Math", CreatedBy: "t1"})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	err = repo.SaveQuestions(ctx, quiz.ID, []domain.Question{
		{
			Statement: "What is 2 + 2?",
			Points:    10,
			Alternatives: []domain.Alternative{
				{Text: "4", IsCorrect: true},
				{Text: "5"},
			},
		},
	})
	if err != nil {
		t.Fatalf("save questions: %v", err)
	}

	service := app.NewQuizService(repo, app.NewLocalGrader(repo), memory.NewSessionStore(), notify.NewNotifier())
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/play", wsHandler.ServeWS)
	return httptest.NewServer(mux), service, quiz.ID
}

// readUntil skips frames of other types (notices arrive interleaved) until
// it sees the wanted type.
func readUntil(conn *websocket.Conn, t *testing.T, want string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json waiting for %q: %v", want, err)
		}
		if msg.Type == want {
			return msg.Payload
		}
	}
	t.Fatalf("timed out waiting for %q frame", want)
	return nil
}
