package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/masthead-press/masthead/internal/infrastructure/persistence/postgres/connection"
)

// RowRecord is the generic row table. Every collection shares it; the
// header-named cells live in a JSON column so the tabular contract stays
// schema-free the way the external store is.
type RowRecord struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement"`
	Collection string         `gorm:"index:idx_rows_collection;not null"`
	Cells      datatypes.JSON `gorm:"not null"`
}

// TableName specifies the table name for stored rows
func (RowRecord) TableName() string {
	return "store_rows"
}

// PostgresStore implements Tabular on the generic row table.
type PostgresStore struct {
	db *connection.Database
}

// NewPostgresStore creates a Tabular adapter over the given database.
func NewPostgresStore(db *connection.Database) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) BatchRead(ctx context.Context, collection string) ([]Row, error) {
	var records []RowRecord
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("store: batch read %s: %w", collection, err)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row, err := decodeCells(rec.Cells)
		if err != nil {
			return nil, fmt.Errorf("store: decode row %d in %s: %w", rec.ID, collection, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *PostgresStore) BatchWrite(ctx context.Context, collection string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([]RowRecord, 0, len(rows))
	for _, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("store: encode row for %s: %w", collection, err)
		}
		records = append(records, RowRecord{Collection: collection, Cells: cells})
	}

	if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("store: batch write %s: %w", collection, err)
	}
	return nil
}

// BatchUpdate rewrites every matched row inside one transaction, so a
// fan-out update (shared artifact id across a form group) can never be
// observed half-applied.
func (s *PostgresStore) BatchUpdate(ctx context.Context, collection string, match func(Row) bool, patch Row) (int, error) {
	updated := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var records []RowRecord
		if err := tx.Where("collection = ?", collection).Order("id").Find(&records).Error; err != nil {
			return err
		}

		for i := range records {
			row, err := decodeCells(records[i].Cells)
			if err != nil {
				return err
			}
			if !match(row) {
				continue
			}
			for k, v := range patch {
				row[k] = v
			}
			cells, err := json.Marshal(row)
			if err != nil {
				return err
			}
			records[i].Cells = cells
			if err := tx.Save(&records[i]).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store: batch update %s: %w", collection, err)
	}
	return updated, nil
}

func (s *PostgresStore) FindRow(ctx context.Context, collection string, match func(Row) bool) (Row, bool, error) {
	rows, err := s.BatchRead(ctx, collection)
	if err != nil {
		return nil, false, err
	}
	for _, row := range rows {
		if match(row) {
			return row, true, nil
		}
	}
	return nil, false, nil
}

func decodeCells(cells datatypes.JSON) (Row, error) {
	var row Row
	if err := json.Unmarshal(cells, &row); err != nil {
		return nil, err
	}
	return row, nil
}
