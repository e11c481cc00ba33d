package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"armycompare/internal/store"
)

// wsMsg is the message envelope for compare sessions.
type wsMsg struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type wsReply struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type wsCompareRequest struct {
	System string `json:"system"`
	From   string `json:"from"`
	To     string `json:"to"`
	ArmyID string `json:"armyId"`
}

// handleWS runs an interactive compare session: a browser keeps one
// socket open while the user flips between armies and versions, sending
// a compare request per selection and getting a result or error frame
// back. Sessions hold no state beyond the connection itself.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var msg wsMsg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Debug("websocket closed")
			}
			return
		}

		switch msg.Type {
		case "ping":
			s.wsSend(conn, wsReply{Type: "pong"})
		case "compare":
			var req wsCompareRequest
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				s.wsSend(conn, wsError("malformed compare request"))
				continue
			}
			result, err := s.compare(req.System, req.From, req.To, req.ArmyID)
			if err != nil {
				s.wsSend(conn, wsCompareError(err))
				continue
			}
			s.wsSend(conn, wsReply{Type: "result", Data: result})
		default:
			s.wsSend(conn, wsError("unknown message type: "+msg.Type))
		}
	}
}

func (s *Server) wsSend(conn *websocket.Conn, reply wsReply) {
	if err := conn.WriteJSON(reply); err != nil {
		s.log.WithError(err).Debug("websocket write failed")
	}
}

func wsError(msg string) wsReply {
	return wsReply{Type: "error", Data: map[string]string{"error": msg}}
}

func wsCompareError(err error) wsReply {
	var ambiguous *store.AmbiguousArmyError
	if errors.As(err, &ambiguous) {
		return wsReply{Type: "error", Data: map[string]any{
			"error":      ambiguous.Error(),
			"candidates": ambiguous.Candidates,
		}}
	}
	if errors.Is(err, store.ErrNotFound) {
		return wsError("army not found")
	}
	return wsError(err.Error())
}
