// Package store persists named designs: a manifest together with the
// graph composed from it.
//
// Two backends are provided: [MemoryStore] for tests and single-process
// use, and [MongoStore] for the service. Both implement [Store].
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// ErrNotFound is returned when a requested design does not exist.
var ErrNotFound = errors.New("design not found")

// Design is a saved composition: the requirements that went in, the
// pattern used, and the graph that came out.
type Design struct {
	ID           uuid.UUID             `json:"id" bson:"_id"`
	Name         string                `json:"name" bson:"name"`
	CreatedAt    time.Time             `json:"created_at" bson:"created_at"`
	Requirements manifest.Requirements `json:"requirements" bson:"requirements"`
	Pattern      string                `json:"pattern" bson:"pattern"`
	Graph        *layout.Graph         `json:"graph" bson:"graph"`
}

// Summary is the listing view of a design, without the graph payload.
type Summary struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Pattern   string    `json:"pattern" bson:"pattern"`
}

// Store persists designs. Save assigns the ID and creation time when
// the design carries none; Get and Delete return ErrNotFound for
// missing IDs.
type Store interface {
	Save(ctx context.Context, d *Design) error
	Get(ctx context.Context, id uuid.UUID) (*Design, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close(ctx context.Context) error
}

// prepare fills in generated fields before a save.
func prepare(d *Design) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
}
