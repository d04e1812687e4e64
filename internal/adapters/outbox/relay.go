package outbox

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/config"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/metrics"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

const markProcessed = `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`

// Relay listens for PostgreSQL NOTIFY signals on outbox_channel and forwards
// the referenced outbox rows to the event publisher.
type Relay struct {
	db        *sql.DB
	publisher ports.EventPublisher
	listener  *pq.Listener
	dbURL     string
	dbCB      *gobreaker.CircuitBreaker
	logger    *zap.Logger

	mu            sync.RWMutex
	lastProcessed time.Time
	healthy       bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.EventPublisher, logger *zap.Logger) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker(config.BreakerRelayPostgres, logger),
		logger:        logger,
		lastProcessed: time.Now(),
		healthy:       true,
	}
}

// IsHealthy is the liveness signal. An open breaker does not count as dead.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.healthy
}

// IsReady is false while the database breaker is open or the relay has not
// made progress recently.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy
}

func (r *Relay) markProgress() {
	r.mu.Lock()
	r.lastProcessed = time.Now()
	r.healthy = true
	r.mu.Unlock()
}

func (r *Relay) setHealthy(v bool) {
	r.mu.Lock()
	r.healthy = v
	r.mu.Unlock()
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Warn("outbox listener problem", zap.Int("event", int(ev)), zap.Error(err))
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}
	r.logger.Info("outbox relay listening", zap.String("channel", outboxChannelName))

	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.logger.Error("startup backlog failed", zap.Error(err))
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay shutting down")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				r.logger.Warn("listener reconnected, notifications may have been missed")
				r.setHealthy(false)
				if err := r.processUnprocessedEvents(ctx); err == nil {
					r.markProgress()
				}
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				r.logger.Error("failed to relay event", zap.String("event_id", notification.Extra), zap.Error(err))
			} else {
				r.markProgress()
			}

		case <-ticker.C:
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.logger.Error("periodic backlog failed", zap.Error(err))
			} else {
				r.markProgress()
			}
		}
	}
}

type record struct {
	ID        string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

func (rec record) event() ports.ClinicEvent {
	return ports.ClinicEvent{
		ID:         rec.ID,
		Type:       rec.EventType,
		Payload:    rec.Payload,
		OccurredAt: rec.CreatedAt,
	}
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec record
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload, created_at
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload, &rec.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			// Already handled by the backlog sweep or another relay.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.publisher.Publish(ctx, rec.event()); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, markProcessed, rec.ID); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}

		metrics.OutboxPublished.WithLabelValues(rec.EventType).Inc()
		r.logger.Info("event relayed", zap.String("event_id", rec.ID), zap.String("type", rec.EventType))
		return nil, nil
	})
	return err
}

// processUnprocessedEvents sweeps the oldest pending rows. A publish failure
// leaves that row pending for the next sweep.
func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload, created_at
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload, &rec.CreatedAt); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		var published []string
		for _, rec := range records {
			if err := r.publisher.Publish(ctx, rec.event()); err != nil {
				r.logger.Warn("publish failed, will retry", zap.String("event_id", rec.ID), zap.Error(err))
				continue
			}
			if _, err := tx.ExecContext(ctx, markProcessed, rec.ID); err != nil {
				return nil, err
			}
			published = append(published, rec.EventType)
		}

		if err := tx.Commit(); err != nil {
			return nil, err
		}
		for _, eventType := range published {
			metrics.OutboxPublished.WithLabelValues(eventType).Inc()
		}
		if len(published) > 0 {
			r.logger.Info("outbox backlog relayed", zap.Int("count", len(published)))
		}
		return nil, nil
	})
	return err
}
