// Package server hosts the browser version of the game. Every WebSocket
// connection on /play gets its own engine and session; the page only sends
// key presses and start clicks and draws the frames it receives.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"

	"github.com/brensch/snekgrid/config"
	"github.com/brensch/snekgrid/engine"
	"github.com/brensch/snekgrid/input"
	"github.com/brensch/snekgrid/logging"
	"github.com/brensch/snekgrid/session"
)

//go:embed static/index.html
var indexHTML []byte

const (
	writeWait      = 2 * time.Second
	maxMessageSize = 512
)

type Server struct {
	cfg      config.Config
	log      *slog.Logger
	upgrader websocket.Upgrader
	router   *way.Router

	connSeq atomic.Int64
	active  atomic.Int64
}

func New(cfg config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc(http.MethodGet, "/", s.handleIndex)
	s.router.HandleFunc(http.MethodGet, "/healthz", s.handleHealth)
	s.router.HandleFunc(http.MethodGet, "/play", s.handlePlay)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	withNoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": s.active.Load(),
	})
}

// handlePlay upgrades to a WebSocket and runs one game session until the
// client goes away.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	eng, err := engine.New(s.cfg.Settings(), s.cfg.Width, s.cfg.Height, s.cfg.CellSize, s.cfg.NewRand())
	if err != nil {
		s.log.Error("engine setup failed", "err", err)
		http.Error(w, "game unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	log := s.log.With("conn", s.connSeq.Add(1), "remote", r.RemoteAddr)
	s.active.Add(1)
	defer s.active.Add(-1)
	log.Info("player connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Only the session goroutine writes to conn.
	publish := func(u session.Update) {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frameMessage(u)); err != nil {
			log.Debug("write failed", "err", err)
			cancel()
		}
	}
	sess := session.New(eng, session.Config{TickUnit: s.cfg.TickUnit, Logger: log}, publish)

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = sess.Run(ctx)
	}()

	go func() {
		// Unblock the read loop when the session ends on a write error.
		<-ctx.Done()
		_ = conn.SetReadDeadline(time.Now())
	}()

	s.readLoop(conn, sess, log)
	cancel()
	<-runDone

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	log.Info("player disconnected")
}

func (s *Server) readLoop(conn *websocket.Conn, sess *session.Session, log *slog.Logger) {
	conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			log.Debug("read ended", "err", err)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug("bad client message", "err", err)
			continue
		}

		switch msg.Type {
		case MsgStart:
			sess.Start()
		case MsgKey:
			if d, ok := input.Direction(msg.Key); ok {
				sess.Steer(d)
			}
		default:
			log.Debug("unknown client message", "type", msg.Type)
		}
	}
}
