package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Package-global handles, set once by InitMongo at application startup.
// Store functions return an error when called before initialization.
var (
	client           *mongo.Client
	inputCollection  *mongo.Collection
	outputCollection *mongo.Collection
	jobsCollection   *mongo.Collection
)

// InitMongo connects to MongoDB and binds the input, output and jobs
// collections. It pings the deployment so misconfiguration fails at startup
// rather than on the first request.
func InitMongo(ctx context.Context, uri, dbName, inputColl, outputColl, jobsColl string) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := c.Ping(connectCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	client = c
	db := c.Database(dbName)
	inputCollection = db.Collection(inputColl)
	outputCollection = db.Collection(outputColl)
	jobsCollection = db.Collection(jobsColl)

	logrus.WithFields(logrus.Fields{
		"database":          dbName,
		"input_collection":  inputColl,
		"output_collection": outputColl,
		"jobs_collection":   jobsColl,
	}).Info("MongoDB document store initialized")
	return nil
}

// CloseMongo disconnects the client. Intended for deferred shutdown in main.
func CloseMongo(ctx context.Context) error {
	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}

func ensureInitialized() error {
	if inputCollection == nil || outputCollection == nil || jobsCollection == nil {
		return fmt.Errorf("document store not initialized; call InitMongo first")
	}
	return nil
}
