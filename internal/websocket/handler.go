package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/fitcoach/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and streams the
// caller's change notifications until the connection closes. It must sit
// behind the auth gateway.
func HandleWebSocket(hub *Hub, origins []string, logger *slog.Logger) http.HandlerFunc {
	opts := &ws.AcceptOptions{}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = origins
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "Access token required", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			logger.Warn("websocket accept", "user_id", id.UserID, "error", err)
			return
		}

		NewClient(hub, conn, id.UserID).Run(r.Context())
	}
}
