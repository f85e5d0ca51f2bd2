package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func allowOrigin(r *http.Request, origin string) bool {
	if origin == "*" {
		return true
	}
	reqOrigin := r.Header.Get("Origin")
	if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
		if strings.Contains(reqOrigin, "localhost") || strings.Contains(reqOrigin, "127.0.0.1") {
			return true
		}
	}
	return strings.EqualFold(reqOrigin, origin)
}

// sweepStreamHandler upgrades to a websocket and forwards every progress
// event published for the sweep named in the URL until the sweep
// reports done or the client disconnects. Auth is via the same bearer
// token as the REST endpoints, passed as a query parameter since browser
// websocket clients cannot set an Authorization header.
type sweepStreamHandler struct {
	registry *sweepRegistry
	tokens   *TokenService
	upgrader websocket.Upgrader
}

func newSweepStreamHandler(registry *sweepRegistry, tokens *TokenService, origin string) *sweepStreamHandler {
	return &sweepStreamHandler{
		registry: registry,
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) },
		},
	}
}

func (h *sweepStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if _, err := h.tokens.ParseToken(token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	sweepID := chi.URLParam(r, "id")
	bus := h.registry.busFor(sweepID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := bus.subscribe()
	defer bus.unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-sub:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
			if evt.Done {
				return
			}
		case <-done:
			return
		}
	}
}
