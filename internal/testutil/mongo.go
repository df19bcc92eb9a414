// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// UnreachableMongoURI points at a port nothing listens on.
const UnreachableMongoURI = "mongodb://127.0.0.1:1"

// LazyMongoClient returns a client for UnreachableMongoURI. mongo.Connect does
// not contact the server, so this works without a running MongoDB; any
// operation (Ping included) fails after a short server selection timeout.
// The client is disconnected when the test ends.
func LazyMongoClient(t testing.TB) *mongo.Client {
	t.Helper()
	client, err := NewLazyMongoClient(context.Background())
	if err != nil {
		t.Fatalf("mongo.Connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client
}

// NewLazyMongoClient is LazyMongoClient without test cleanup, for code paths
// (such as a Shutdown hook) that disconnect the client themselves.
func NewLazyMongoClient(ctx context.Context) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().
		ApplyURI(UnreachableMongoURI).
		SetServerSelectionTimeout(100*time.Millisecond))
}

// ObservedLogger returns a logger that records entries at level and above.
func ObservedLogger(level zapcore.LevelEnabler) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}
