package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"squeeze-scanner/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Handler streams the latest scan result to websocket clients. Clients get
// the current result on connect, then a refresh on every poll tick.
type Handler struct {
	repo domain.ScanRepository
	poll time.Duration
	log  zerolog.Logger
}

func NewHandler(repo domain.ScanRepository, poll time.Duration, log zerolog.Logger) *Handler {
	if poll <= 0 {
		poll = 30 * time.Second
	}
	return &Handler{repo: repo, poll: poll, log: log}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket client connected")

	if result := h.repo.GetResult(); result != nil {
		if err := conn.WriteJSON(result); err != nil {
			h.log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}

	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result := h.repo.GetResult()
			if result == nil {
				continue
			}
			if err := conn.WriteJSON(result); err != nil {
				h.log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
