package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Tolerant keeps backend failures away from callers where that is safe:
// failed writes are dropped. Failed reads return ErrUnavailable rather than
// absence, since a read-modify-write on a missing list would erase it. Every
// failure is logged.
type Tolerant struct {
	base   Storage
	logger *slog.Logger
}

func NewTolerant(base Storage, logger *slog.Logger) *Tolerant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tolerant{base: base, logger: logger}
}

func (t *Tolerant) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := t.base.Get(ctx, key)
	if err != nil {
		t.logger.Warn("storage get failed", "key", key, "error", err)
		return "", false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	return v, ok, nil
}

func (t *Tolerant) Set(ctx context.Context, key, value string) error {
	if err := t.base.Set(ctx, key, value); err != nil {
		t.logger.Warn("storage set failed, dropping write", "key", key, "error", err)
	}
	return nil
}

func (t *Tolerant) Remove(ctx context.Context, key string) error {
	if err := t.base.Remove(ctx, key); err != nil {
		t.logger.Warn("storage remove failed", "key", key, "error", err)
	}
	return nil
}

func (t *Tolerant) Close() error {
	return Close(t.base)
}
