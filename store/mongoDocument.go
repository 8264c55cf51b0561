package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const patientsDocID = "patients"

type mongoEnvelope struct {
	ID      string `bson:"_id"`
	Version int64  `bson:"version"`
	Payload string `bson:"payload"`
}

// MongoDocument stores the whole patient collection as one document in a
// Mongo collection, keeping the load-all/save-all contract of the original
// spreadsheet while giving the versioned store a real check-and-swap.
type MongoDocument struct {
	coll *mongo.Collection
}

func NewMongoDocument(coll *mongo.Collection) *MongoDocument {
	return &MongoDocument{coll: coll}
}

func (d *MongoDocument) Load(ctx context.Context) ([]byte, int64, error) {
	var env mongoEnvelope
	err := d.coll.FindOne(ctx, bson.M{"_id": patientsDocID}).Decode(&env)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return []byte(env.Payload), env.Version, nil
}

func (d *MongoDocument) Store(ctx context.Context, payload []byte, expected int64) error {
	if expected < 0 {
		upsert := true
		_, err := d.coll.UpdateOne(ctx,
			bson.M{"_id": patientsDocID},
			bson.D{
				{Key: "$set", Value: bson.D{{Key: "payload", Value: string(payload)}}},
				{Key: "$inc", Value: bson.D{{Key: "version", Value: int64(1)}}},
			},
			&options.UpdateOptions{Upsert: &upsert},
		)
		return err
	}

	if expected == 0 {
		// First write: only valid while the document does not exist yet.
		_, err := d.coll.InsertOne(ctx, mongoEnvelope{
			ID:      patientsDocID,
			Version: 1,
			Payload: string(payload),
		})
		if mongo.IsDuplicateKeyError(err) {
			return ErrStale
		}
		return err
	}

	result, err := d.coll.UpdateOne(ctx,
		bson.M{"_id": patientsDocID, "version": expected},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "payload", Value: string(payload)}}},
			{Key: "$inc", Value: bson.D{{Key: "version", Value: int64(1)}}},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrStale
	}
	return nil
}
