package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket frame.
type wsRequest struct {
	Type             string `json:"type"` // "message"
	ID               string `json:"id"`   // echoed back so clients can pair replies
	Content          string `json:"content"`
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// wsResponse is the outgoing WebSocket frame.
type wsResponse struct {
	Type    string `json:"type"` // "reply" or "error"
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

func handleWebSocket(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			svc.log.Warn().Err(err).Msg("websocket upgrade")
			return
		}
		defer conn.Close()

		// Each reply gets its own deadline from the service. The session
		// itself outlives any deadline on the upgrade request.
		ctx := context.WithoutCancel(r.Context())

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					svc.log.Warn().Err(err).Msg("websocket read")
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				svc.sendError(conn, "", "invalid message format")
				continue
			}
			if req.Type != "" && req.Type != "message" {
				svc.sendError(conn, req.ID, "unknown message type: "+req.Type)
				continue
			}

			reply, err := svc.Reply(ctx, Request{Message: req.Content, DetectedLanguage: req.DetectedLanguage})
			if err != nil {
				_, detail := errorStatus(err)
				svc.sendError(conn, req.ID, detail)
				continue
			}
			svc.send(conn, wsResponse{Type: "reply", ID: req.ID, Content: reply.Text, Source: reply.Source})
		}
	}
}

func (s *Service) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn().Err(err).Msg("websocket write")
	}
}

func (s *Service) sendError(conn *websocket.Conn, id, message string) {
	s.send(conn, wsResponse{Type: "error", ID: id, Content: message})
}
