// Package mongo backs the document store with a MongoDB collection,
// documents keyed by the (store, page_type) compound index.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/observability"
	"github.com/slotboard/slotboard/pkg/store"
)

// Store implements store.Store on a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Options configures the connection.
type Options struct {
	// URI is the MongoDB connection string.
	URI string

	// Database name (default "slotboard").
	Database string

	// Collection name (default "layouts").
	Collection string
}

func (o *Options) validateAndSetDefaults() error {
	if o.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo URI is required")
	}
	if o.Database == "" {
		o.Database = "slotboard"
	}
	if o.Collection == "" {
		o.Collection = "layouts"
	}
	return nil
}

// New connects and ensures the compound key index.
func New(ctx context.Context, opts Options) (*Store, error) {
	if err := opts.validateAndSetDefaults(); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "store", Value: 1}, {Key: "page_type", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create layout index")
	}

	return &Store{client: client, coll: coll}, nil
}

func filter(storeID, pageType string) bson.M {
	return bson.M{"store": storeID, "page_type": pageType}
}

func (s *Store) Get(ctx context.Context, storeID, pageType string) (store.Document, error) {
	var doc store.Document
	err := s.coll.FindOne(ctx, filter(storeID, pageType)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		observability.Store().DocumentLoaded(ctx, store.Key(storeID, pageType), false)
		return store.Document{}, store.ErrNotFound
	}
	if err != nil {
		return store.Document{}, errors.Wrap(errors.ErrCodeStorage, err, "load document %s", store.Key(storeID, pageType))
	}
	observability.Store().DocumentLoaded(ctx, doc.Key(), true)
	return doc, nil
}

func (s *Store) Put(ctx context.Context, doc store.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	_, err := s.coll.ReplaceOne(ctx, filter(doc.Store, doc.PageType), doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "upsert document %s", doc.Key())
	}
	return nil
}

func (s *Store) PatchStyles(ctx context.Context, storeID, pageType, slotID string, styles map[string]string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range styles {
		set["slots."+slotID+".styles."+k] = v
	}

	res, err := s.coll.UpdateOne(ctx,
		// The slot must exist; a style patch never creates slots.
		bson.M{"store": storeID, "page_type": pageType, "slots." + slotID: bson.M{"$exists": true}},
		bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "patch styles of %s", slotID)
	}
	if res.MatchedCount == 0 {
		if _, err := s.Get(ctx, storeID, pageType); err != nil {
			return err
		}
		return errors.New(errors.ErrCodeSlotNotFound, "slot %s not in document %s", slotID, store.Key(storeID, pageType))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, storeID, pageType string) error {
	if _, err := s.coll.DeleteOne(ctx, filter(storeID, pageType)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete document %s", store.Key(storeID, pageType))
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ store.Store = (*Store)(nil)
