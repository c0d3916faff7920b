package database

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docapp/internal/domain/backend"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// jsonFields stores a document body in a JSONB column
type jsonFields map[string]interface{}

func (j jsonFields) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

func (j *jsonFields) Scan(value interface{}) error {
	if value == nil {
		*j = jsonFields{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = jsonFields(result)
	return err
}

type documentRow struct {
	Collection string     `gorm:"primaryKey;type:varchar(64)"`
	ID         string     `gorm:"primaryKey;type:varchar(128)"`
	Fields     jsonFields `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

// DocumentStore keeps documents as JSONB rows keyed by (collection, id).
// Field values round-trip through JSON: numbers come back as float64 and
// timestamps as RFC 3339 strings.
type DocumentStore struct {
	db *gorm.DB
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (backend.Fields, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return backend.Fields(row.Fields), nil
}

// Set upserts the document. ServerTimestamp fields take the database clock.
func (s *DocumentStore) Set(ctx context.Context, collection, id string, fields backend.Fields) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var now time.Time
		if err := tx.Raw("SELECT now()").Scan(&now).Error; err != nil {
			return fmt.Errorf("failed to read database clock: %w", err)
		}

		row := documentRow{
			Collection: collection,
			ID:         id,
			Fields:     jsonFields(backend.ResolveServerTimestamps(fields, now.UTC())),
			UpdatedAt:  now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

// Query matches on the text form of the field, so value is compared as a
// string.
func (s *DocumentStore) Query(ctx context.Context, collection, field string, value any) ([]backend.Document, error) {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND fields->>? = ?", collection, field, fmt.Sprint(value)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}

	docs := make([]backend.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, backend.Document{ID: row.ID, Fields: backend.Fields(row.Fields)})
	}
	return docs, nil
}
