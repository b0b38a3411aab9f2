package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MongoDBClient wraps the driver client together with the selected database.
type MongoDBClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDBClient connects to MongoDB, verifies the connection and ties
// disconnection to the fx lifecycle.
func NewMongoDBClient(lc fx.Lifecycle, cfg *Config, logger *zap.Logger) (*MongoDBClient, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	db := client.Database(cfg.MongoDatabase)

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			return EnsureIndexes(startCtx, db)
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info("closing MongoDB connection")
			return client.Disconnect(stopCtx)
		},
	})

	return &MongoDBClient{Client: client, Database: db}, db, nil
}

// EnsureIndexes creates the unique indexes the domain invariants rely on.
// The store's unique-index enforcement is the sole correctness mechanism for
// races such as two simultaneous registrations with the same roll number.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"students": {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "studentId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "rollNumber", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "department", Value: 1}, {Key: "semester", Value: 1}}},
		},
		"teachers": {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "teacherId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "department", Value: 1}}},
		},
		"admins": {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "adminId", Value: 1}}, Options: unique},
		},
		"subjects": {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "department", Value: 1}, {Key: "semester", Value: 1}}},
			{Keys: bson.D{{Key: "teacher", Value: 1}}},
		},
		"attendance": {
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "subject", Value: 1}, {Key: "date", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "date", Value: 1}}},
		},
		"notices": {
			{Keys: bson.D{{Key: "targetAudience", Value: 1}, {Key: "department", Value: 1}}},
			{Keys: bson.D{{Key: "isActive", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
