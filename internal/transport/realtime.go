package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Event is one push frame from the realtime server.
type Event struct {
	Name    string          `json:"event"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Conn interface {
	ReadEvent() (Event, error)
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, userID string) (Conn, error)
}

// WSDialer opens the per-session websocket, keyed by user id in the query.
type WSDialer struct {
	URL    string
	Header http.Header
}

func (d *WSDialer) Dial(ctx context.Context, userID string) (Conn, error) {
	u, err := url.Parse(d.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing realtime url")
	}
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()

	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), d.Header)
	if err != nil {
		return nil, errors.Wrap(err, "dialing realtime server")
	}
	return &wsConn{c: c}, nil
}

type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) ReadEvent() (Event, error) {
	var ev Event
	if err := w.c.ReadJSON(&ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (w *wsConn) Close() error {
	_ = w.c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return w.c.Close()
}
