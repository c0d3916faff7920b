package backend

import (
	"context"
	"time"
)

// Collection names used by the client
const (
	CollectionUsers        = "users"
	CollectionDoctors      = "doctors"
	CollectionAppointments = "appointments"
)

// Fields is a document payload as the store returns it
type Fields map[string]any

// Document is one query result
type Document struct {
	ID     string
	Fields Fields
}

// DocumentStore is the document-database half of the backend.
//
// Get returns nil, nil when the document does not exist.
// Set replaces the whole document, creating it when needed.
// Query returns every document of collection whose field equals value.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Fields, error)
	Set(ctx context.Context, collection, id string, fields Fields) error
	Query(ctx context.Context, collection, field string, value any) ([]Document, error)
}

type serverTimestamp struct{}

// ServerTimestamp marks a field the store fills with its own clock on Set
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp marker
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// ResolveServerTimestamps returns a copy of fields with every top-level
// ServerTimestamp replaced by now. Stores without a server clock use it.
func ResolveServerTimestamps(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if IsServerTimestamp(v) {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}
