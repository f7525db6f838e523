package database

import (
	"context"
	"fmt"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// schemaVersion is bumped whenever an index below changes.
const schemaVersion = 1

// IndexSpec describes the indexes of one collection.
type IndexSpec struct {
	Collection string
	Models     []mongo.IndexModel
}

// Indexes returns every index the application relies on. The unique slot
// index on quests is what makes concurrent batch generation lose cleanly.
func Indexes() []IndexSpec {
	return []IndexSpec{
		{
			Collection: models.CollectionUsers,
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
			},
		},
		{
			Collection: models.CollectionPersonas,
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("user_unique")},
			},
		},
		{
			Collection: models.CollectionQuests,
			Models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "batch_number", Value: 1}, {Key: "slot", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("user_batch_slot_unique"),
				},
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("user_status")},
			},
		},
		{
			Collection: models.CollectionStories,
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "generated_at", Value: -1}}, Options: options.Index().SetName("user_generated_at")},
			},
		},
	}
}

// EnsureIndexes creates missing indexes. Creating an index that already
// exists with the same definition is a no-op on the server.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	start := time.Now()
	for _, set := range Indexes() {
		names, err := d.Collection(set.Collection).Indexes().CreateMany(ctx, set.Models)
		if err != nil {
			logger.LogQuery("create_indexes "+set.Collection, time.Since(start), err)
			return fmt.Errorf("failed to create indexes on %s: %w", set.Collection, err)
		}
		logger.LogSystem("Indexes ensured",
			"collection", set.Collection,
			"indexes", names)
	}
	logger.LogSystem("Schema ready", "version", schemaVersion, "took", time.Since(start))
	return nil
}
