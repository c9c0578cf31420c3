package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	stackerrors "github.com/stackplan/stackplan/pkg/errors"
	"github.com/stackplan/stackplan/pkg/layout"
	"github.com/stackplan/stackplan/pkg/manifest"
)

// MongoStore persists designs in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoDesign mirrors Design with the UUID stored as its string form,
// which keeps _id readable in queries and shell sessions.
type mongoDesign struct {
	ID           string                `bson:"_id"`
	Name         string                `bson:"name"`
	CreatedAt    time.Time             `bson:"created_at"`
	Requirements manifest.Requirements `bson:"requirements"`
	Pattern      string                `bson:"pattern"`
	Graph        *layout.Graph         `bson:"graph"`
}

// NewMongoStore connects to MongoDB at uri and uses the given database
// and the "designs" collection. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if err := stackerrors.ValidateStoreURI(uri); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection("designs"),
	}, nil
}

// Save upserts the design by ID, assigning ID and creation time if
// unset.
func (s *MongoStore) Save(ctx context.Context, d *Design) error {
	prepare(d)
	doc := mongoDesign{
		ID:           d.ID.String(),
		Name:         d.Name,
		CreatedAt:    d.CreatedAt,
		Requirements: d.Requirements,
		Pattern:      d.Pattern,
		Graph:        d.Graph,
	}
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save design %s: %w", d.ID, err)
	}
	return nil
}

// Get retrieves a design by ID.
func (s *MongoStore) Get(ctx context.Context, id uuid.UUID) (*Design, error) {
	var doc mongoDesign
	err := s.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get design %s: %w", id, err)
	}

	parsed, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("stored design has malformed id %q: %w", doc.ID, err)
	}
	return &Design{
		ID:           parsed,
		Name:         doc.Name,
		CreatedAt:    doc.CreatedAt,
		Requirements: doc.Requirements,
		Pattern:      doc.Pattern,
		Graph:        doc.Graph,
	}, nil
}

// List returns summaries of all designs, newest first.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1, "created_at": 1, "pattern": 1}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID        string    `bson:"_id"`
		Name      string    `bson:"name"`
		CreatedAt time.Time `bson:"created_at"`
		Pattern   string    `bson:"pattern"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode designs: %w", err)
	}

	out := make([]Summary, 0, len(docs))
	for _, doc := range docs {
		parsed, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("stored design has malformed id %q: %w", doc.ID, err)
		}
		out = append(out, Summary{ID: parsed, Name: doc.Name, CreatedAt: doc.CreatedAt, Pattern: doc.Pattern})
	}
	return out, nil
}

// Delete removes a design by ID.
func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete design %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
