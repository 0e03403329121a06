package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/helmcode/cricshot/pkg/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// stateMessage is pushed to the browser after every state change.
type stateMessage struct {
	State session.State `json:"state"`
	SVG   string        `json:"svg"`
	Panel string        `json:"panel"`
}

// HandleWebSocket streams the caller's session state. The session must
// already exist; the page load creates it.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	v, release, ok := s.sessions.attach(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusUnauthorized)
		return
	}
	defer release()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	updates, cancel := v.controller.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go s.readPump(conn, closed)
	s.writePump(conn, v.controller.Snapshot(), updates, closed)
}

// readPump discards client messages and keeps the read deadline fresh. It
// closes closed when the peer goes away.
func (s *Server) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, initial session.State, updates <-chan session.State, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	if err := s.send(conn, initial); err != nil {
		return
	}

	for {
		select {
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case <-closed:
			return

		case state, ok := <-updates:
			if !ok {
				return
			}
			if err := s.send(conn, state); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, state session.State) error {
	panel, err := s.renderPanel(state)
	if err != nil {
		s.logger.Error("render panel", zap.Error(err))
		return err
	}
	msg := stateMessage{
		State: state,
		SVG:   string(inlineSVG(state)),
		Panel: panel,
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write failed", zap.Error(err))
		return err
	}
	return nil
}
