package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoCollection = "economy"
	mongoTimeout    = 10 * time.Second
)

// mongoStore is a backend that keeps the serialized document as a single record in a
// MongoDB collection.
type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	documentID string
}

// mongoDocument is the record holding the serialized document.
type mongoDocument struct {
	ID        string    `bson:"_id"`
	Document  string    `bson:"document"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and returns a Store whose document is identified by
// documentID within the given database.
func NewMongoStore(uri string, dbName string, documentID string) (Store, error) {
	log.Trace("--> NewMongoStore")
	defer log.Trace("<-- NewMongoStore")

	if uri == "" {
		return nil, errors.New("you must set your 'MONGODB_URI' environment variable")
	}
	if err := ValidatePath(documentID); err != nil {
		return nil, err
	}

	// Wait for MongoDB to become active before proceeding
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to the MongoDB database")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(err, "unable to ping the MongoDB database")
	}

	m := &mongoStore{
		client:     client,
		collection: client.Database(dbName).Collection(mongoCollection),
		documentID: documentID,
	}
	return newDocumentStore(m), nil
}

func (m *mongoStore) name() string {
	return m.collection.Database().Name() + "/" + mongoCollection + "/" + m.documentID
}

// exists reports whether the record is present in the collection.
func (m *mongoStore) exists() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	count, err := m.collection.CountDocuments(ctx, bson.D{{Key: "_id", Value: m.documentID}})
	if err != nil {
		return false, errors.Wrapf(err, "unable to count documents in %s", m.name())
	}
	return count > 0, nil
}

// read returns the serialized document.
func (m *mongoStore) read() ([]byte, error) {
	log.Trace("--> mongoStore.read")
	defer log.Trace("<-- mongoStore.read")

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	var doc mongoDocument
	err := m.collection.FindOne(ctx, bson.D{{Key: "_id", Value: m.documentID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode document %s", m.name())
	}
	return []byte(doc.Document), nil
}

// write upserts the serialized document.
func (m *mongoStore) write(data []byte) error {
	log.Trace("--> mongoStore.write")
	defer log.Trace("<-- mongoStore.write")

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	doc := mongoDocument{
		ID:        m.documentID,
		Document:  string(data),
		UpdatedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := m.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: m.documentID}}, doc, opts)
	if err != nil {
		log.Errorf("Failed to update or insert document %s, error=%s", m.name(), err.Error())
		return errors.Wrapf(err, "unable to save document %s", m.name())
	}
	return nil
}

// close disconnects from the database.
func (m *mongoStore) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}
