package db

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dbName = "emergency"

// Store owns the Mongo client and the collections the handlers work with.
// It is constructed once in main and passed into the handler structs; the
// driver pools connections internally, so one Store is safe to share across
// concurrent requests.
type Store struct {
	Client      *mongo.Client
	Visitors    *mongo.Collection
	Users       *mongo.Collection
	Departments *mongo.Collection
	Activity    *mongo.Collection
}

func Connect(ctx context.Context) (*Store, error) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	database := client.Database(dbName)
	return &Store{
		Client:      client,
		Visitors:    database.Collection("v4protocol"),
		Users:       database.Collection("v5users"),
		Departments: database.Collection("v5departments"),
		Activity:    database.Collection("v4activity"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
