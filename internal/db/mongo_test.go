package db

import (
    "context"
    "os"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestConnectMongo_BadURI(t *testing.T) {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    client, err := ConnectMongo(ctx, "mongodb://bad:uri")
    if err == nil {
        t.Error("expected error for bad URI, got nil")
    }
    if client != nil {
        t.Error("expected nil client on error")
    }
}

func TestMongoStore_NilCollection(t *testing.T) {
    store := &MongoStore{Collection: nil}
    _, err := store.Get(context.Background(), "vehicles")
    assert.Error(t, err)
    assert.Error(t, store.Set(context.Background(), "vehicles", "[]"))
    assert.Error(t, store.Delete(context.Background(), "vehicles"))
}

// Integration test (requires running MongoDB)
func TestMongoStore_Integration(t *testing.T) {
    uri := os.Getenv("MONGO_URI")
    if uri == "" {
        t.Skip("MONGO_URI not set, skipping integration test")
        return
    }
    ctx := context.Background()
    client, err := ConnectMongo(ctx, uri)
    if err != nil {
        t.Skipf("failed to connect: %v, skipping integration test", err)
        return
    }
    store := NewMongoStore(client, "test_portal")
    defer store.Close()
    _ = store.Collection.Drop(ctx)

    _, err = store.Get(ctx, "vehicles")
    assert.ErrorIs(t, err, ErrNotFound)

    require.NoError(t, store.Set(ctx, "vehicles", `[{"id":"v1"}]`))
    require.NoError(t, store.Set(ctx, "vehicles", `[{"id":"v2"}]`))

    value, err := store.Get(ctx, "vehicles")
    require.NoError(t, err)
    assert.Equal(t, `[{"id":"v2"}]`, value)

    require.NoError(t, store.Delete(ctx, "vehicles"))
    _, err = store.Get(ctx, "vehicles")
    assert.ErrorIs(t, err, ErrNotFound)
}
