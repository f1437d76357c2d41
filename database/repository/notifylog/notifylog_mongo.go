package notifyLogRepo

import (
	"context"
	"fmt"
	"time"

	"roombook/database"
	"roombook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoNotifyLogRepo implements NotifyLogRepository using MongoDB. The ledger
// key is the document _id, so the unique-index guarantee of InsertOne is the
// atomicity of Reserve.
type MongoNotifyLogRepo struct {
	coll *mongo.Collection
}

// NewMongoNotifyLogRepo creates a new NotifyLogRepository backed by MongoDB.
func NewMongoNotifyLogRepo() NotifyLogRepository {
	return &MongoNotifyLogRepo{coll: database.DB().Collection("notifylogs")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoNotifyLogRepo) Reserve(key, groupID, kind, ref string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	entry := models.NotifyLog{
		Key:     key,
		GroupID: groupID,
		Kind:    kind,
		Ref:     ref,
		SentAt:  time.Now(),
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to reserve notify log %s: %w", key, err)
	}
	return nil
}

func (r *MongoNotifyLogRepo) Release(key string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to release notify log %s: %w", key, err)
	}
	return nil
}
