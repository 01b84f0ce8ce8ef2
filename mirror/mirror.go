// Package mirror publishes the live crew schedule into a NATS JetStream KV
// bucket so other dashboard views can watch it.
//
// The mirror is write-only from the board's point of view: the board never
// loads state from the bucket, and Reset clears it when a session starts.
// Each occupied cell is stored under "<prefix>.<crewId>.<day>"; empty cells
// have no key.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/crewsched/internal/kvutil"
	"github.com/arloliu/crewsched/internal/logging"
	"github.com/arloliu/crewsched/internal/metrics"
	"github.com/arloliu/crewsched/types"
	"github.com/nats-io/nats.go/jetstream"
)

// Entry is the JSON value stored for an occupied cell.
type Entry struct {
	CrewID    string          `json:"crewId"`
	Day       types.Weekday   `json:"day"`
	ProjectID types.ProjectID `json:"projectId"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithLogger sets the mirror logger.
func WithLogger(logger types.Logger) Option {
	return func(m *Mirror) {
		m.logger = logger
	}
}

// WithMetrics sets the metrics collector for KV operations.
func WithMetrics(collector types.MirrorMetrics) Option {
	return func(m *Mirror) {
		m.metrics = collector
	}
}

// Mirror writes cell changes to a KV bucket.
type Mirror struct {
	kv        jetstream.KeyValue
	cfg       Config
	keyPrefix string // cached "prefix."

	logger  types.Logger
	metrics types.MirrorMetrics
}

// Open creates or opens the configured bucket and returns a mirror over it.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - cfg: Mirror configuration (zero fields take defaults)
//   - opts: Optional logger and metrics
//
// Returns:
//   - *Mirror: Mirror bound to the bucket
//   - error: ErrInvalidConfig or the bucket creation error
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	m, err := mirror.Open(ctx, js, cfg.Mirror, mirror.WithLogger(logger))
//	if err != nil { /* handle */ }
//	_ = m.Reset(ctx)
//	_ = m.Sync(ctx, board.Snapshot())
//	ch, unsubscribe := board.Subscribe()
//	defer unsubscribe()
//	go m.Run(ctx, ch)
func Open(ctx context.Context, js jetstream.JetStream, cfg Config, opts ...Option) (*Mirror, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "Live crew schedule mirror",
		History:     1,
		Replicas:    cfg.Replicas,
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror bucket: %w", err)
	}

	return New(kv, cfg, opts...), nil
}

// New wraps an existing bucket.
func New(kv jetstream.KeyValue, cfg Config, opts ...Option) *Mirror {
	cfg.SetDefaults()

	m := &Mirror{
		kv:        kv,
		cfg:       cfg,
		keyPrefix: cfg.KeyPrefix + ".",
		logger:    logging.NewNop(),
		metrics:   metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Key returns the KV key for a cell.
//
// Returns:
//   - string: "<prefix>.<crewId>.<day>"
//   - error: ErrInvalidWeekday, or ErrUnknownCrew if the crew ID cannot be a key token
func (m *Mirror) Key(cell types.CellKey) (string, error) {
	if !cell.Day.Valid() {
		return "", fmt.Errorf("%w: %d", types.ErrInvalidWeekday, int(cell.Day))
	}
	if !kvutil.ValidKeyToken(cell.CrewID) {
		return "", fmt.Errorf("%w: crew ID %q is not a valid KV key token", types.ErrUnknownCrew, cell.CrewID)
	}

	return m.keyPrefix + cell.CrewID + "." + cell.Day.String(), nil
}

// Publish mirrors one applied change.
//
// An occupied cell is written as an Entry; a cleared cell's key is deleted.
func (m *Mirror) Publish(ctx context.Context, change types.CellChange) error {
	key, err := m.Key(change.Cell)
	if err != nil {
		return err
	}

	if change.Current.IsNone() {
		return m.delete(ctx, key)
	}

	return m.put(ctx, key, Entry{
		CrewID:    change.Cell.CrewID,
		Day:       change.Cell.Day,
		ProjectID: change.Current,
		Version:   change.Version,
		UpdatedAt: change.At,
	})
}

// Sync replaces the mirrored cells with the content of snap.
func (m *Mirror) Sync(ctx context.Context, snap types.Snapshot) error {
	start := time.Now()

	if err := m.Reset(ctx); err != nil {
		m.metrics.RecordMirrorOperation("sync", false, time.Since(start).Seconds())
		return err
	}

	now := time.Now()
	written := 0
	var syncErr error
	snap.Range(func(cell types.CellKey, project types.ProjectID) bool {
		if project.IsNone() {
			return true
		}

		key, err := m.Key(cell)
		if err == nil {
			err = m.put(ctx, key, Entry{
				CrewID:    cell.CrewID,
				Day:       cell.Day,
				ProjectID: project,
				Version:   snap.Version(),
				UpdatedAt: now,
			})
		}
		if err != nil {
			syncErr = err
			return false
		}
		written++

		return true
	})

	m.metrics.RecordMirrorOperation("sync", syncErr == nil, time.Since(start).Seconds())
	if syncErr != nil {
		return fmt.Errorf("mirror sync stopped after %d cells: %w", written, syncErr)
	}

	m.logger.Info("mirror synchronised", "bucket", m.cfg.Bucket, "cells", written, "version", snap.Version())

	return nil
}

// Reset deletes every mirrored cell.
func (m *Mirror) Reset(ctx context.Context) error {
	start := time.Now()

	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	deleted, err := kvutil.DeleteWithPrefix(opCtx, m.kv, m.keyPrefix)
	m.metrics.RecordMirrorOperation("reset", err == nil, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: reset: %w", types.ErrDeleteFailed, err)
	}

	if deleted > 0 {
		m.logger.Debug("mirror reset", "bucket", m.cfg.Bucket, "deleted", deleted)
	}

	return nil
}

// Get reads a mirrored cell back. Absent keys yield NoProject.
func (m *Mirror) Get(ctx context.Context, cell types.CellKey) (types.ProjectID, error) {
	key, err := m.Key(cell)
	if err != nil {
		return types.NoProject, err
	}

	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	entry, err := m.kv.Get(opCtx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return types.NoProject, nil
	}
	if err != nil {
		return types.NoProject, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var e Entry
	if err := json.Unmarshal(entry.Value(), &e); err != nil {
		return types.NoProject, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return e.ProjectID, nil
}

// Run publishes every change received on ch until ch is closed or ctx is done.
//
// Individual publish failures are logged and do not stop the loop, since the
// next change to the same cell overwrites the stale value anyway.
//
// Returns:
//   - error: nil when ch is closed, ctx.Err() on cancellation
func (m *Mirror) Run(ctx context.Context, ch <-chan types.CellChange) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-ch:
			if !ok {
				return nil
			}
			if err := m.Publish(ctx, change); err != nil {
				if kvutil.IsConnectivityError(err) {
					m.logger.Warn("mirror unreachable, change not published", "cell", change.Cell.String(), "error", err)
				} else {
					m.logger.Error("failed to mirror change", "cell", change.Cell.String(), "error", err)
				}
			}
		}
	}
}

func (m *Mirror) put(ctx context.Context, key string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal mirror entry: %w", err)
	}

	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	start := time.Now()
	_, err = m.kv.Put(opCtx, key, data)
	m.metrics.RecordMirrorOperation("put", err == nil, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrPublishFailed, key, err)
	}

	m.logger.Debug("mirrored cell", "key", key, "project", string(e.ProjectID), "version", e.Version)

	return nil
}

func (m *Mirror) delete(ctx context.Context, key string) error {
	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	start := time.Now()
	err := m.kv.Delete(opCtx, key)
	m.metrics.RecordMirrorOperation("delete", err == nil, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrDeleteFailed, key, err)
	}

	m.logger.Debug("removed mirrored cell", "key", key)

	return nil
}

func (m *Mirror) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, m.cfg.OperationTimeout)
}
