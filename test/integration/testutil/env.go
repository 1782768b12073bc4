package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"staybook/pkg/client"
)

const DefaultReadyTimeout = 60 * time.Second

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	ServerPort   string
}

func NewTestEnv() *TestEnv {
	serverPort := getEnv("TEST_SERVER_PORT", "8080")

	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:    getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort)),
		ServerPort:   serverPort,
	}
}

// Setup empties the service collections and waits for the service to accept
// application traffic. Collections are emptied, not dropped, so migrated
// validators and indexes survive.
func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollection(t, ListingsCollection)
	mongo.CleanCollection(t, BookingsCollection)

	if err := client.NewHttpClient(e.ServerURL).WaitForReady(DefaultReadyTimeout); err != nil {
		t.Fatalf("service not ready: %v", err)
	}

	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
