package server

import (
	"net/http"

	"postline/logger"

	"github.com/gorilla/websocket"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedWSHandler upgrades the connection and streams activity events to it.
func (h *APIHandler) FeedWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade feed connection", logger.ErrorField(err))
		return
	}

	logger.Debug("Feed client connected", logger.String("remote", r.RemoteAddr))
	h.feedHub.Serve(conn)
}
