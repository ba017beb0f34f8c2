// Package bridge keeps the one realtime connection a signed-in session owns
// and turns push events into store refreshes.
package bridge

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
	"github.com/sirupsen/logrus"
)

const (
	EventDoubtAnswered    = "doubtAnswered"
	EventDoubtAssigned    = "doubtAssigned"
	EventNewDoubtReceived = "newDoubtReceived"
)

type RefreshFunc func(ctx context.Context) error

type Bridge struct {
	dialer transport.Dialer
	store  *store.Store

	mu       sync.Mutex
	handlers map[string]RefreshFunc
	conn     transport.Conn
	userID   string
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(dialer transport.Dialer, st *store.Store) *Bridge {
	return &Bridge{
		dialer:   dialer,
		store:    st,
		handlers: make(map[string]RefreshFunc),
	}
}

// On binds an event name to the refresh it triggers. Rebinding replaces.
func (b *Bridge) On(event string, fn RefreshFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = fn
}

func (b *Bridge) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// Open connects for userID. While a connection is live it is a no-op.
func (b *Bridge) Open(ctx context.Context, userID string) error {
	log := config.WithContext(ctx).WithField("user_id", userID)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		log.Debug("Realtime bridge already open")
		return nil
	}

	conn, err := b.dialer.Dial(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Failed to open realtime bridge")
		return err
	}

	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	b.conn = conn
	b.userID = userID
	b.cancel = cancel
	b.done = done

	go b.listen(listenCtx, conn, done)
	log.Info("Realtime bridge opened")
	return nil
}

// Close shuts the connection and waits for the reader to exit. Closing a
// closed bridge does nothing.
func (b *Bridge) Close() error {
	b.mu.Lock()
	conn, cancel, done := b.conn, b.cancel, b.done
	b.conn, b.cancel, b.done, b.userID = nil, nil, nil, ""
	b.mu.Unlock()

	if conn == nil {
		return nil
	}
	cancel()
	err := conn.Close()
	<-done
	config.Logger().Info("Realtime bridge closed")
	return err
}

func (b *Bridge) listen(ctx context.Context, conn transport.Conn, done chan struct{}) {
	defer close(done)
	log := config.WithContext(ctx)

	for {
		ev, err := conn.ReadEvent()
		if err != nil {
			b.mu.Lock()
			dropped := b.conn == conn
			var cancel context.CancelFunc
			if dropped {
				cancel = b.cancel
				b.conn, b.cancel, b.done, b.userID = nil, nil, nil, ""
			}
			b.mu.Unlock()

			if dropped {
				cancel()
				log.WithError(err).Warn("Realtime connection dropped; live updates stop until the next open")
			}
			return
		}
		b.dispatch(ctx, ev)
	}
}

func (b *Bridge) dispatch(ctx context.Context, ev transport.Event) {
	log := config.WithContext(ctx).WithField("event", ev.Name)

	b.mu.Lock()
	fn, ok := b.handlers[ev.Name]
	b.mu.Unlock()

	if !ok {
		log.Debug("Ignoring unknown realtime event")
		return
	}

	b.store.Notify(ev.Name, ev.Message)
	if len(ev.Data) > 0 {
		b.applyPatch(log, ev.Data)
	}
	if err := fn(ctx); err != nil {
		log.WithError(err).WithFields(logrus.Fields{"message": ev.Message}).Warn("Refresh after realtime event failed")
	}
}

// doubtPayload is the optional data frame doubt events carry. When present
// the cached copies are patched before the refresh lands.
type doubtPayload struct {
	DoubtID string `json:"doubtId"`
	model.DoubtPatch
}

func (b *Bridge) applyPatch(log logrus.FieldLogger, data json.RawMessage) {
	var p doubtPayload
	if err := json.Unmarshal(data, &p); err != nil || p.DoubtID == "" {
		log.WithError(err).Debug("Ignoring realtime payload")
		return
	}
	if p.Status != nil && !p.Status.IsValid() {
		p.Status = nil
	}
	n := b.store.PatchDoubt(p.DoubtID, p.DoubtPatch)
	log.WithFields(logrus.Fields{"doubt_id": p.DoubtID, "copies": n}).Debug("Patched cached doubt")
}
