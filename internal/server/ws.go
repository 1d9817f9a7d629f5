package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsReadTimeout = 120 * time.Second

// Same-origin is not enforced; the server is meant for local use.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// WSMessage is a client message: "expand" or "ping".
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSResponse is a server message: "result", "pong" or "error".
type WSResponse struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// WSExpandPayload is the payload of an "expand" message.
type WSExpandPayload struct {
	Text      string `json:"text"`
	Recursive bool   `json:"recursive"`
}

// WSErrorPayload is the payload of an "error" message.
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleWebSocket answers every expand message on the connection with the
// result for that text. Messages are handled in order.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	s.logger.Debug("websocket connection established", "remote", conn.RemoteAddr().String())

	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("websocket read error", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var resp WSResponse
		switch msg.Type {
		case "ping":
			resp = WSResponse{Type: "pong"}
		case "expand":
			resp = s.wsExpand(r, msg.Payload)
		default:
			resp = wsError("unknown_type", "unknown message type: "+msg.Type)
		}

		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Error("websocket write error", "error", err)
			return
		}
	}
}

func (s *Server) wsExpand(r *http.Request, raw json.RawMessage) WSResponse {
	var payload WSExpandPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return wsError("invalid_payload", "invalid expand payload")
	}

	res, err := s.resolver.Resolve(payload.Text, payload.Recursive)
	if err != nil {
		return wsError("resolve_failed", err.Error())
	}
	s.record(r.Context(), payload.Text, payload.Recursive, res)
	return WSResponse{Type: "result", Payload: res}
}

func wsError(code, msg string) WSResponse {
	return WSResponse{Type: "error", Payload: WSErrorPayload{Code: code, Message: msg}}
}
