package ws

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/registry"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

const (
	writeTimeout = 5 * time.Second
	// DefaultIdleTimeout closes connections that send nothing for this long.
	DefaultIdleTimeout = 5 * time.Minute
)

// Server serves one environment per websocket connection.
type Server struct {
	envID string
	cfg   config.RocketConfig
	log   *log.Logger

	// IdleTimeout bounds the wait for the next request.
	IdleTimeout time.Duration

	upgrader websocket.Upgrader
	sessions atomic.Int64
}

// NewServer creates a server for the given registered environment.
// Server-side environments never pace rendering.
func NewServer(envID string, base config.RocketConfig, logger *log.Logger) (*Server, error) {
	cfg, err := registry.Config(envID, base)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Render.FPS = 0
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		envID:       envID,
		cfg:         cfg,
		log:         logger,
		IdleTimeout: DefaultIdleTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

// Sessions returns the number of open connections.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

// Handler returns the websocket endpoint.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		env, err := sim.New(s.cfg)
		if err != nil {
			s.log.Error("Failed to create environment", "error", err)
			return
		}
		defer env.Close()

		n := s.sessions.Add(1)
		defer s.sessions.Add(-1)
		s.log.Info("Session started", "remote", r.RemoteAddr, "env", s.envID, "sessions", n)
		steps := 0

		for {
			if s.IdleTimeout > 0 {
				_ = conn.SetReadDeadline(time.Now().Add(s.IdleTimeout))
			}
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}

			resp, done := s.handle(env, msg)
			if resp.Type == TypeObs && resp.Tick > 0 {
				steps++
			}
			if err := writeJSON(conn, resp); err != nil {
				break
			}
			if done {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closed"),
					time.Now().Add(time.Second))
				break
			}
		}
		s.log.Info("Session ended", "remote", r.RemoteAddr, "steps", steps)
	}
}

// handle executes one request. done reports that the session should end.
func (s *Server) handle(env *sim.Env, msg []byte) (resp Response, done bool) {
	req, err := decodeRequest(msg)
	if err != nil {
		return errorResponse(ErrCodeBadRequest, err.Error()), false
	}

	switch req.Type {
	case TypeReset:
		if req.Seed != nil {
			env.Seed(*req.Seed)
		}
		obs := env.Reset()
		return Response{Type: TypeObs, Observation: obs}, false

	case TypeStep:
		res, err := env.Step(core.Action(*req.Action))
		if err != nil {
			return errorResponse(codeFor(err), err.Error()), false
		}
		return Response{
			Type:        TypeObs,
			Observation: res.Observation,
			Reward:      res.Reward,
			Terminal:    res.Terminal,
			Tick:        env.Tick(),
			Info:        res.Info,
		}, false

	case TypeSpec:
		return Response{Type: TypeSpec, Spec: &Spec{
			EnvID:           s.envID,
			ObservationSize: env.ObservationSize(),
			ActionCount:     env.ActionCount(),
			Width:           s.cfg.Playfield.Width,
			Height:          s.cfg.Playfield.Height,
			MaxHazards:      s.cfg.Hazards.Max,
		}}, false

	case TypeClose:
		if err := env.Close(); err != nil && !errors.Is(err, sim.ErrClosed) {
			return errorResponse(ErrCodeInternal, err.Error()), true
		}
		return Response{Type: TypeClosed}, true
	}
	return errorResponse(ErrCodeBadRequest, "unknown request type"), false
}

func errorResponse(code, msg string) Response {
	return Response{Type: TypeError, Code: code, Message: msg}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
