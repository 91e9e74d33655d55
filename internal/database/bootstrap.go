package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sals-backend/internal/logging"
)

// EnsureDocument creates the empty root document when the collection does not
// have one yet. Existing content is never touched.
func EnsureDocument(ctx context.Context, coll *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	log := logging.WithModuleAndCollection("database", coll.Name())

	update := bson.M{
		"$setOnInsert": bson.M{
			"orders":              bson.A{},
			"customers":           bson.A{},
			"team":                bson.A{},
			"discounts":           bson.A{},
			"last_order_sequence": int64(0),
			"version":             int64(0),
		},
	}

	log.Debug("EnsureDocument: upserting root document")
	res, err := coll.UpdateOne(ctx, bson.M{"_id": documentID}, update, options.Update().SetUpsert(true))
	if err != nil {
		log.WithError(err).Error("EnsureDocument: upsert failed")
		return err
	}
	if res.UpsertedCount > 0 {
		log.Info("EnsureDocument: root document created")
	}
	return nil
}
