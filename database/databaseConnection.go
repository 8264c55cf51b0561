package database

import (
	"context"
	"log"
	"os"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	client     *mongo.Client
	clientOnce sync.Once
)

// Client connects on first use. MONGODB_URI must be set; startup fails hard
// otherwise, same as a bad connection.
func Client() *mongo.Client {
	clientOnce.Do(func() {
		uri := os.Getenv("MONGODB_URI")
		if uri == "" {
			log.Fatal("MONGODB_URI is not set")
		}
		serverAPI := options.ServerAPI(options.ServerAPIVersion1)
		opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

		c, err := mongo.Connect(context.TODO(), opts)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}

		if err := c.Database("admin").RunCommand(context.TODO(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			log.Fatalf("Failed to ping MongoDB: %v", err)
		}
		client = c
	})
	return client
}

func OpenCollection(collectionName string) *mongo.Collection {
	return Client().Database("golang-physiodb").Collection(collectionName)
}
