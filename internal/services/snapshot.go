package services

import (
	"context"
	"sync"
	"time"

	"bizhub/internal/amqp"
	"bizhub/internal/cache"
	"bizhub/internal/log"
	"bizhub/internal/store"
)

// SnapshotPublisher mirrors collection snapshots to the durable side
// channel. *amqp.Client satisfies it.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, msg *amqp.SnapshotMessage) error
}

// SnapshotService follows the signed-in user, keeps every store's backend
// subscription alive for them, and mirrors each collection to the
// publisher. Mirroring is debounced per kind so a burst of edits produces
// one snapshot message, sent once the collection has been quiet for the
// configured delay.
type SnapshotService struct {
	hub       *Hub
	publisher SnapshotPublisher
	delay     time.Duration
	logger    *log.Logger

	// onChange fires on every snapshot delivery, before the debounced
	// mirror. Set once via NotifyChange before the service starts
	// following anyone.
	onChange func(userID, kind string)

	mu         sync.Mutex
	userID     string
	cancels    []store.CancelFunc
	debouncers map[string]*cache.Debouncer
}

func NewSnapshotService(hub *Hub, publisher SnapshotPublisher, delay time.Duration, logger *log.Logger) *SnapshotService {
	return &SnapshotService{
		hub:        hub,
		publisher:  publisher,
		delay:      delay,
		logger:     logger.WithComponent(log.ComponentSnapshot),
		debouncers: make(map[string]*cache.Debouncer),
	}
}

// NotifyChange registers a hook invoked whenever a backend snapshot
// replaces a collection, letting derived state (cached summaries) drop
// entries that a write from another session just made stale. Call it
// before the first SetUser.
func (s *SnapshotService) NotifyChange(fn func(userID, kind string)) {
	s.onChange = fn
}

// SetUser switches every store to the given user: the previous user's
// subscriptions are cancelled and pending mirrors dropped, then each
// collection is resubscribed. An empty userID (signed out) leaves all
// stores unsubscribed with empty lists.
func (s *SnapshotService) SetUser(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	for _, d := range s.debouncers {
		d.Stop()
	}
	s.debouncers = make(map[string]*cache.Debouncer)
	s.userID = userID

	for _, col := range s.hub.Collections() {
		col := col
		debouncer := cache.NewDebouncer(s.delay)
		s.debouncers[col.Kind] = debouncer

		cancel, err := col.Subscribe(ctx, userID, func(payload []byte) {
			if s.onChange != nil {
				s.onChange(userID, col.Kind)
			}
			debouncer.Trigger(func() {
				s.mirror(ctx, userID, col.Kind, payload)
			})
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "subscription failed",
				log.FieldRecordKind, col.Kind,
				log.FieldUserID, userID,
				log.FieldError, err)
			continue
		}
		s.cancels = append(s.cancels, cancel)
	}

	if userID != "" {
		s.logger.InfoContext(ctx, "following user collections",
			log.FieldUserID, userID)
	}
}

// Flush sends any pending mirrors immediately. Called on shutdown so the
// quiet-period delay does not drop the last edits.
func (s *SnapshotService) Flush() {
	s.mu.Lock()
	debouncers := make([]*cache.Debouncer, 0, len(s.debouncers))
	for _, d := range s.debouncers {
		debouncers = append(debouncers, d)
	}
	s.mu.Unlock()

	for _, d := range debouncers {
		d.Flush()
	}
}

// Close cancels all subscriptions and discards pending mirrors.
func (s *SnapshotService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	for _, d := range s.debouncers {
		d.Stop()
	}
	s.debouncers = make(map[string]*cache.Debouncer)
	s.userID = ""
}

func (s *SnapshotService) mirror(ctx context.Context, userID, kind string, payload []byte) {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "publisher not available, skipping snapshot",
			log.FieldRecordKind, kind)
		return
	}
	msg := amqp.NewSnapshotMessage(userID, kind, payload)
	if err := s.publisher.PublishSnapshot(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "snapshot publish failed",
			log.FieldRecordKind, kind,
			log.FieldUserID, userID,
			log.FieldError, err)
	}
}
