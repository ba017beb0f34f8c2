package router

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/store"
)

const (
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
	changeBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// changesHandler streams store changes to the UI as JSON frames
// ({"slice":"doubts","id":"..."}) so it can re-query the affected views.
// A slow reader misses frames; the "all" slice means start over.
func changesHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		// Subscribed before the handshake completes, so nothing written
		// after the client connects is missed.
		id, changes := st.Subscribe(changeBuffer)
		defer st.Unsubscribe(id)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("Failed to open change stream")
			return
		}
		defer conn.Close()
		log.Debug("Change stream opened")

		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-gone:
				log.Debug("Change stream closed by client")
				return
			case c, ok := <-changes:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(c); err != nil {
					log.WithError(err).Debug("Change stream write failed")
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}
}
