package handlers

import (
	"net/http"

	"github.com/snapserve/snapserve/internal/server/middleware"
	"github.com/snapserve/snapserve/internal/server/ws"
)

// HandleWebSocket upgrades the connection at /ws and registers it with the
// hub. When the upgrade request's session context already carries identity,
// it is bound immediately; otherwise the connection stays unauthenticated
// until the client sends its in-band AUTH message.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		client.BindIdentity(id.UserID, id.Role)
	}
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
