package sysconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("config key not found")
)

// Well-known keys
const (
	KeyValidRoles       = "valid_roles"
	KeyAttendanceSuffix = "attendance_suffix"
)

// Repository defines key/value access to the system config collection.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

type configRepository struct {
	tab store.Tabular
}

// NewRepository creates a Repository over the tabular store.
func NewRepository(tab store.Tabular) Repository {
	return &configRepository{tab: tab}
}

func (r *configRepository) Get(ctx context.Context, key string) (string, bool, error) {
	row, ok, err := r.tab.FindRow(ctx, store.CollectionSystemConfig, func(row store.Row) bool {
		return row["key"] == key
	})
	if err != nil || !ok {
		return "", false, err
	}
	return row["value"], true, nil
}

// Set updates the key in place, inserting it when absent. The
// read-then-write runs against a single key so callers needing atomicity
// across keys hold the store lock themselves.
func (r *configRepository) Set(ctx context.Context, key, value string) error {
	n, err := r.tab.BatchUpdate(ctx, store.CollectionSystemConfig, func(row store.Row) bool {
		return row["key"] == key
	}, store.Row{"value": value})
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	if n > 0 {
		return nil
	}
	return r.tab.BatchWrite(ctx, store.CollectionSystemConfig, []store.Row{{
		"key":   key,
		"value": value,
	}})
}

func (r *configRepository) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.tab.BatchRead(ctx, store.CollectionSystemConfig)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row["key"]] = row["value"]
	}
	return out, nil
}
