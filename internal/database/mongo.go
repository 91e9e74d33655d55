package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"sals-backend/internal/apperr"
	"sals-backend/internal/logging"
	"sals-backend/internal/models"
)

const (
	documentID            = "main"
	defaultUpdateAttempts = 5
	operationTimeout      = 5 * time.Second
)

var errConcurrentUpdate = errors.New("document changed by a concurrent update")

// storedDocument wraps the document with the bookkeeping fields Mongo needs.
type storedDocument struct {
	ID              string `bson:"_id"`
	Version         int64  `bson:"version"`
	models.Document `bson:",inline"`
}

// MongoStore keeps the document as one record and guards writes with a
// version number: a replace only succeeds when nobody else wrote in between.
type MongoStore struct {
	client      *mongo.Client
	coll        *mongo.Collection
	maxAttempts int
}

func NewMongoStore(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, coll: coll, maxAttempts: defaultUpdateAttempts}
}

func (s *MongoStore) Load(ctx context.Context) (*models.Document, error) {
	stored, err := s.find(ctx)
	if err != nil {
		return nil, err
	}
	return &stored.Document, nil
}

// Save overwrites the stored document unconditionally and bumps its version.
func (s *MongoStore) Save(ctx context.Context, doc *models.Document) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	doc.Normalize()
	update := bson.M{
		"$set": bson.M{
			"orders":              doc.Orders,
			"customers":           doc.Customers,
			"team":                doc.Team,
			"discounts":           doc.Discounts,
			"last_order_sequence": doc.LastOrderSequence,
		},
		"$inc": bson.M{"version": 1},
	}
	if _, err := s.coll.UpdateByID(ctx, documentID, update, options.Update().SetUpsert(true)); err != nil {
		return apperr.Storage(err, "save document")
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	log := logging.WithModuleAndCollection("database", s.coll.Name())

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		stored, err := s.find(ctx)
		if err != nil {
			return err
		}

		if err := fn(&stored.Document); err != nil {
			return err
		}
		stored.Document.Normalize()

		expected := stored.Version
		stored.Version++

		replaceCtx, cancel := context.WithTimeout(ctx, operationTimeout)
		res, err := s.coll.ReplaceOne(replaceCtx, bson.M{"_id": documentID, "version": expected}, stored)
		cancel()
		if err != nil {
			return apperr.Storage(err, "replace document")
		}
		if res.MatchedCount == 1 {
			return nil
		}

		log.WithField("attempt", attempt).Warn("document version moved, retrying update")
	}

	return apperr.Storage(errConcurrentUpdate, "update gave up after %d attempts", s.maxAttempts)
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) find(ctx context.Context) (*storedDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var stored storedDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": documentID}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if err := EnsureDocument(ctx, s.coll); err != nil {
			return nil, apperr.Storage(err, "initialise document")
		}
		err = s.coll.FindOne(ctx, bson.M{"_id": documentID}).Decode(&stored)
	}
	if err != nil {
		return nil, apperr.Storage(err, "load document")
	}

	stored.Document.Normalize()
	return &stored, nil
}

// Ping checks that the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return apperr.Storage(errors.New("no client"), "ping")
	}
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return apperr.Storage(err, "ping")
	}
	return nil
}
