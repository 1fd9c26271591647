package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"timed-quiz-service/internal/logging"
	"timed-quiz-service/internal/present"
	"timed-quiz-service/internal/quiz"
)

// SessionRegistry tracks live hosted sessions. Touch is called on every
// inbound message so registries with expiring markers keep active sessions.
type SessionRegistry interface {
	Register(id string, session *quiz.Session)
	Touch(id string)
	Delete(id string)
}

type WSHandler struct {
	questions QuestionLister
	sessions  SessionRegistry
	opts      []quiz.Option
	upgrader  websocket.Upgrader
}

func NewWSHandler(questions QuestionLister, sessions SessionRegistry, opts ...quiz.Option) *WSHandler {
	return &WSHandler{
		questions: questions,
		sessions:  sessions,
		opts:      opts,
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

type selectPayload struct {
	QuestionID string `json:"questionId"`
	Option     *int   `json:"option"`
}

type gotoPayload struct {
	Index *int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sessionPayload struct {
	SessionID string       `json:"sessionId"`
	View      present.View `json:"view"`
}

type errorPayload struct {
	Message string `json:"message"`
}

var errSubmitUnavailable = errors.New("submit is only available on the last question before the quiz is reviewed")

// ServeWS upgrades the request and plays one quiz session over the socket. The
// client sees the same view a local renderer would, so the correct option is
// never sent before review.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.WithContext(r.Context()).WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	ctx, cancelCtx := context.WithCancel(logging.WithFields(r.Context(), logrus.Fields{"session_id": id}))
	defer cancelCtx()
	log := logging.WithContext(ctx)

	session := quiz.NewSession(h.opts...)
	h.sessions.Register(id, session)
	defer h.sessions.Delete(id)
	defer session.Close()

	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Debug("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				msg := outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: id, View: present.Project(snap)}}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	go func() {
		if err := session.Start(ctx, quiz.SourceFunc(h.questions.ListQuestions)); err != nil {
			log.WithError(err).Error("hosted session failed to load questions")
		}
	}()

	reply := func(err error) {
		select {
		case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.sessions.Touch(id)
		if err := h.dispatch(session, inbound); err != nil {
			reply(err)
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(session *quiz.Session, inbound inboundMessage) error {
	switch inbound.Type {
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Option == nil {
			return errors.New("invalid select payload")
		}
		if payload.QuestionID == "" {
			return session.SelectCurrent(*payload.Option)
		}
		return session.Select(payload.QuestionID, *payload.Option)
	case "goto":
		var payload gotoPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Index == nil {
			return errors.New("invalid goto payload")
		}
		session.GoTo(*payload.Index)
	case "next":
		session.Next()
	case "previous":
		session.Previous()
	case "skip":
		session.Skip()
	case "submit":
		if res, _ := session.Submit(); res == nil {
			return errSubmitUnavailable
		}
	default:
		return errors.New("unsupported message type")
	}
	return nil
}
