package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/menden/shop-api/internal/domain"
)

// ConnectMongoDB opens a connection pool shared by every repository for
// the lifetime of the process.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type mongoDocuments struct {
	collection *mongo.Collection
	timeout    time.Duration
	sort       bson.D
}

// MongoOption configures a Mongo-backed Documents.
type MongoOption func(*mongoDocuments)

// WithSortDesc makes All return documents ordered by field, newest first.
func WithSortDesc(field string) MongoOption {
	return func(m *mongoDocuments) {
		m.sort = bson.D{{Key: field, Value: -1}}
	}
}

// NewMongoDocuments exposes one collection of db as a Documents. Every
// call runs under the given timeout.
func NewMongoDocuments(db *mongo.Database, collection string, timeout time.Duration, opts ...MongoOption) Documents {
	m := &mongoDocuments{
		collection: db.Collection(collection),
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *mongoDocuments) All(ctx context.Context) ([]domain.Document, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	findOpts := options.Find()
	if m.sort != nil {
		findOpts.SetSort(m.sort)
	}

	cursor, err := m.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (m *mongoDocuments) Get(ctx context.Context, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := m.bound(ctx)
	defer cancel()

	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *mongoDocuments) FindByField(ctx context.Context, field, value string) ([]domain.Document, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (m *mongoDocuments) FindOneByField(ctx context.Context, field, value string) (domain.Document, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	return m.findOne(ctx, bson.M{field: value})
}

func (m *mongoDocuments) Search(ctx context.Context, field, keyword string) ([]domain.Document, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	filter := bson.M{field: primitive.Regex{Pattern: keyword, Options: "i"}}
	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (m *mongoDocuments) Insert(ctx context.Context, doc domain.Document) (domain.Document, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	record := make(bson.M, len(doc)+1)
	for k, v := range doc {
		record[k] = v
	}
	if _, ok := record["_id"]; !ok {
		record["_id"] = primitive.NewObjectID()
	}

	if _, err := m.collection.InsertOne(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}
	return normalize(record), nil
}

func (m *mongoDocuments) Update(ctx context.Context, id string, fields domain.Document) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := m.bound(ctx)
	defer cancel()

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": setFields(fields)})
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	// Follow-up read returns the post-update record.
	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *mongoDocuments) UpdateByField(ctx context.Context, field, value string, fields domain.Document) error {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	result, err := m.collection.UpdateOne(ctx, bson.M{field: value}, bson.M{"$set": setFields(fields)})
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoDocuments) Delete(ctx context.Context, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	ctx, cancel := m.bound(ctx)
	defer cancel()

	// Read first so the pre-delete record can be returned. There is a
	// window between the two calls; single-document atomicity is all the
	// store guarantees.
	doc, err := m.findOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}

	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}
	return doc, nil
}

func (m *mongoDocuments) findOne(ctx context.Context, filter bson.M) (domain.Document, error) {
	var record bson.M
	err := m.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return normalize(record), nil
}

func (m *mongoDocuments) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]domain.Document, error) {
	var records []bson.M
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, normalize(r))
	}
	return docs, nil
}

// setFields strips the identifier from an update payload so clients
// cannot rewrite _id through a PUT body.
func setFields(fields domain.Document) bson.M {
	set := make(bson.M, len(fields))
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		set[k] = v
	}
	return set
}

// normalize renders the object id as a hex string so documents serialize
// to JSON the way clients expect.
func normalize(record bson.M) domain.Document {
	doc := make(domain.Document, len(record))
	for k, v := range record {
		if oid, ok := v.(primitive.ObjectID); ok {
			doc[k] = oid.Hex()
			continue
		}
		doc[k] = v
	}
	return doc
}
