package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"decor-funnel/internal/app"
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

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades to a websocket bound to one quiz session. A sessionId query parameter
// attaches to an existing session; otherwise a new one is opened for the visitor query
// parameter. Every state change of the session, from this socket or from REST calls, is
// pushed as a "state" message.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.URL.Query().Get("sessionId")

	var started *app.Started
	if sessionID == "" {
		s, err := h.service.Start(ctx, r.URL.Query().Get("visitor"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		started = &s
		sessionID = s.SessionID
	}

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("ws write error", "err", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case st, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: st}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	if started != nil {
		send <- outboundMessage[any]{Type: "session", Payload: started}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.dispatch(r, sessionID, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch runs one inbound command. Successful transitions reach the client through the
// session subscription, so only errors and results produce a direct reply.
func (h *WSHandler) dispatch(r *http.Request, sessionID string, in inboundMessage) (outboundMessage[any], bool) {
	ctx := r.Context()
	var err error
	switch in.Type {
	case "answer":
		var payload answerRequest
		if err := json.Unmarshal(in.Payload, &payload); err != nil {
			return wsError("invalid answer payload"), true
		}
		_, err = h.service.Answer(ctx, sessionID, payload.QuestionID, payload.OptionID)
	case "back":
		var payload backRequest
		if err := json.Unmarshal(in.Payload, &payload); err != nil {
			return wsError("invalid back payload"), true
		}
		_, err = h.service.Back(ctx, sessionID, payload.QuestionID)
	case "restart":
		_, err = h.service.Restart(ctx, sessionID)
	case "result":
		res, rerr := h.service.Result(ctx, sessionID)
		if rerr == nil {
			return outboundMessage[any]{Type: "result", Payload: res}, true
		}
		err = rerr
	default:
		return wsError("unsupported message type"), true
	}
	if err != nil {
		return wsError(err.Error()), true
	}
	return outboundMessage[any]{}, false
}

func wsError(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
