package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// serveWS streams hub events to one client. Each round starts with a ping
// that must be answered within PingTimeout; the round then forwards events
// until none arrived for IdleTimeout, so an unused connection is probed
// about once per IdleTimeout.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("failed to upgrade", "err", err)
		return
	}
	defer conn.Close()

	log := s.log.With("conn_id", uuid.NewString(), "remote", r.RemoteAddr)
	log.Debug("websocket connected")
	defer log.Debug("websocket closed")

	sub := s.hub.Subscribe()
	defer sub.Close()

	pongs := make(chan struct{}, 1)
	conn.SetPongHandler(func(string) error {
		select {
		case pongs <- struct{}{}:
		default:
		}
		return nil
	})
	// clients never send data; reading only services control frames
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	idle := time.NewTimer(s.cfg.IdleTimeout)
	defer idle.Stop()
	for {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			return
		}
		select {
		case <-pongs:
		case <-time.After(s.cfg.PingTimeout):
			log.Debug("no pong in time")
			return
		case <-closed:
			return
		case <-s.done:
			return
		}

		idle.Reset(s.cfg.IdleTimeout)
	forward:
		for {
			select {
			case msg := <-sub.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Error("error when sending websocket message, closing connection", "err", err)
					return
				}
				idle.Reset(s.cfg.IdleTimeout)
			case <-idle.C:
				break forward
			case <-closed:
				return
			case <-s.done:
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
				return
			}
		}
	}
}
