package database

import (
	"context"
	"time"

	"contest_judge/internal/platform/config"
	"contest_judge/internal/platform/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var Mongo *mongo.Client

// ConnectMongo opens the client for the contest, problem and submission collections.
func ConnectMongo() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	Mongo, err = mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.MongoURI))
	if err != nil {
		logger.L().Fatal("Error connecting to mongo", zap.Error(err))
	}
	if err = Mongo.Ping(ctx, nil); err != nil {
		logger.L().Fatal("Error pinging mongo", zap.Error(err))
	}

	logger.L().Info("Connected to MongoDB", zap.String("db", config.AppConfig.MongoDB))
}

func MongoDatabase() *mongo.Database {
	return Mongo.Database(config.AppConfig.MongoDB)
}

func CloseMongo() {
	if Mongo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Mongo.Disconnect(ctx); err != nil {
		logger.L().Warn("Mongo disconnect failed", zap.Error(err))
		return
	}
	logger.L().Info("Mongo connection closed")
}
