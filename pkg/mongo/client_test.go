package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricare/authcore/pkg/mongo"
)

func TestConnectInvalidURI(t *testing.T) {
	t.Parallel()

	_, err := mongo.Connect(context.Background(), mongo.Config{URI: "postgres://nope"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, mongo.ErrInvalidURI)
}

func TestConnectCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := mongo.Connect(ctx, mongo.Config{
		URI:            "mongodb://127.0.0.1:1",
		ConnectTimeout: 100 * time.Millisecond,
		RetryAttempts:  5,
		RetryInterval:  time.Second,
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, mongo.ErrConnect)
}

func TestConnectLive(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	t.Parallel()

	ctx := context.Background()
	client, err := mongo.Connect(ctx, mongo.Config{URI: uri, RetryAttempts: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	assert.NoError(t, mongo.Healthcheck(client)(ctx))
}
