package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/infra/memory"
	infraredis "timed-quiz-service/internal/infra/redis"
	"timed-quiz-service/internal/present"
	"timed-quiz-service/internal/quiz"
)

func TestWebSocketQuizFlow(t *testing.T) {
	sessions := memory.NewSessionStore()
	conn, cleanup := dialQuiz(t, NewWSHandler(memory.NewQuestionStore(sampleQuestions()...), sessions))
	defer cleanup()

	ready := readUntil(t, conn, func(p sessionPayload) bool { return p.View.Status == quiz.StatusReady })
	if ready.SessionID == "" {
		t.Fatalf("expected session id")
	}
	if sessions.Len() != 1 {
		t.Fatalf("expected registered session, got %d", sessions.Len())
	}
	if ready.View.Question == nil || ready.View.Question.ID != "q1" {
		t.Fatalf("expected first question, got %+v", ready.View.Question)
	}
	if ready.View.Timer == nil || ready.View.Timer.Display != "10:00" {
		t.Fatalf("expected full clock, got %+v", ready.View.Timer)
	}

	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"questionId": "q1", "option": 1}})
	readUntil(t, conn, func(p sessionPayload) bool {
		return p.View.Question != nil && p.View.Question.Options[1].Selected
	})

	send(t, conn, map[string]any{"type": "previous"})
	last := readUntil(t, conn, func(p sessionPayload) bool {
		return p.View.Question != nil && p.View.Question.ID == "q2"
	})
	if !last.View.Controls.ShowSubmit {
		t.Fatalf("expected submit on last question")
	}

	send(t, conn, map[string]any{"type": "submit"})
	reviewed := readUntil(t, conn, func(p sessionPayload) bool { return p.View.Status == quiz.StatusReviewed })
	if reviewed.View.Result == nil || reviewed.View.Result.Score != "1 / 2" || reviewed.View.Result.AutoSubmitted {
		t.Fatalf("unexpected result %+v", reviewed.View.Result)
	}
	if reviewed.View.Question.Review == nil || reviewed.View.Question.Review.UserAnswer != present.NotAnswered {
		t.Fatalf("expected unanswered review, got %+v", reviewed.View.Question.Review)
	}
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	conn, cleanup := dialQuiz(t, NewWSHandler(memory.NewQuestionStore(sampleQuestions()...), memory.NewSessionStore()))
	defer cleanup()

	readUntil(t, conn, func(p sessionPayload) bool { return p.View.Status == quiz.StatusReady })

	send(t, conn, map[string]any{"type": "dance"})
	if msg := readError(t, conn); msg != "unsupported message type" {
		t.Fatalf("unexpected error %q", msg)
	}

	send(t, conn, map[string]any{"type": "submit"})
	if msg := readError(t, conn); !strings.Contains(msg, "last question") {
		t.Fatalf("unexpected error %q", msg)
	}

	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"questionId": "q1", "option": 7}})
	if msg := readError(t, conn); !strings.Contains(msg, "option") {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestWebSocketLoadFailureShowsError(t *testing.T) {
	conn, cleanup := dialQuiz(t, NewWSHandler(failingLister{}, memory.NewSessionStore()))
	defer cleanup()

	got := readUntil(t, conn, func(p sessionPayload) bool { return p.View.Status == quiz.StatusError })
	if got.View.Message != present.ErrorMessage {
		t.Fatalf("unexpected message %q", got.View.Message)
	}
}

func TestWebSocketDeregistersOnClose(t *testing.T) {
	sessions := memory.NewSessionStore()
	conn, cleanup := dialQuiz(t, NewWSHandler(memory.NewQuestionStore(sampleQuestions()...), sessions))
	defer cleanup()

	readUntil(t, conn, func(p sessionPayload) bool { return p.View.Status == quiz.StatusReady })
	_ = conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for sessions.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session was not deregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketKeepsRedisMarkerWhileActive(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ttl := 15 * time.Minute
	sessions := infraredis.NewSessionStore(client, ttl)
	conn, cleanup := dialQuiz(t, NewWSHandler(memory.NewQuestionStore(sampleQuestions()...), sessions))
	defer cleanup()

	ready := readUntil(t, conn, func(p sessionPayload) bool { return p.View.Status == quiz.StatusReady })
	key := "quiz:session:" + ready.SessionID

	mr.FastForward(10 * time.Minute)
	send(t, conn, map[string]any{"type": "next"})
	readUntil(t, conn, func(p sessionPayload) bool { return p.View.Question != nil && p.View.Question.ID == "q2" })
	mr.FastForward(10 * time.Minute)
	if !mr.Exists(key) {
		t.Fatalf("expected marker to outlive the ttl while messages keep arriving")
	}

	_ = conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for mr.Exists(key) {
		if time.Now().After(deadline) {
			t.Fatalf("marker was not cleared on close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketLogsCarrySessionID(t *testing.T) {
	hook := captureLogs(t)
	conn, cleanup := dialQuiz(t, NewWSHandler(failingLister{}, memory.NewSessionStore()))
	defer cleanup()

	failed := readUntil(t, conn, func(p sessionPayload) bool { return p.View.Status == quiz.StatusError })

	deadline := time.Now().Add(5 * time.Second)
	for {
		for _, entry := range hook.AllEntries() {
			if entry.Message == "hosted session failed to load questions" {
				if entry.Data["session_id"] != failed.SessionID {
					t.Fatalf("expected session_id %q, got %v", failed.SessionID, entry.Data["session_id"])
				}
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("load failure was not logged")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func dialQuiz(t *testing.T, h *WSHandler) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(NewRouter(RouterConfig{Questions: memory.NewQuestionStore(), WS: h}))

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
		server.Close()
	}
}

type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readNext(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	var msg wireMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(sessionPayload) bool) sessionPayload {
	t.Helper()
	for i := 0; i < 50; i++ {
		msg := readNext(t, conn)
		if msg.Type != "session" {
			continue
		}
		var payload sessionPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("decode session payload: %v", err)
		}
		if match(payload) {
			return payload
		}
	}
	t.Fatalf("expected session message never arrived")
	return sessionPayload{}
}

func readError(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	for i := 0; i < 50; i++ {
		msg := readNext(t, conn)
		if msg.Type != "error" {
			continue
		}
		var payload errorPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("decode error payload: %v", err)
		}
		return payload.Message
	}
	t.Fatalf("expected error message never arrived")
	return ""
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}
