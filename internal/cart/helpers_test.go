package cart

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/drinkshop/drinkshop-backend/pkg/config"
	"github.com/drinkshop/drinkshop-backend/pkg/db"
	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
	"github.com/drinkshop/drinkshop-backend/pkg/migrate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const snapshotWait = 2 * time.Second

func setupCartTestDB(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), config.DefaultSQLiteFile),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	require.NoError(t, migrate.Run(context.Background(), sqlDB, "sqlite3", "", "up"))
	return client
}

func newTestService(t *testing.T, mutate ...func(*ServiceParams)) (Service, *db.Client) {
	t.Helper()

	client := setupCartTestDB(t)
	params := ServiceParams{
		Repo:   NewRepository(client.DB()),
		Tx:     client,
		Logger: logger.Nop(),
	}
	for _, fn := range mutate {
		fn(&params)
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc, client
}

func drink(id int64, name string, qty int) *models.Drink {
	return &models.Drink{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString("4.50"),
		Quantity: qty,
	}
}

func nextSnapshot(t *testing.T, ch <-chan []models.Drink) []models.Drink {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "cart stream closed unexpectedly")
		return snap
	case <-time.After(snapshotWait):
		t.Fatal("timed out waiting for cart snapshot")
	}
	return nil
}

func requireClosed(t *testing.T, ch <-chan []models.Drink) {
	t.Helper()
	deadline := time.After(snapshotWait)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("cart stream was not closed")
		}
	}
}

type line struct {
	ID   int64
	Name string
	Qty  int
}

func lines(snapshot []models.Drink) []line {
	out := make([]line, 0, len(snapshot))
	for _, d := range snapshot {
		out = append(out, line{ID: d.ID, Name: d.Name, Qty: d.Quantity})
	}
	return out
}

type recordingNotifier struct {
	mu       sync.Mutex
	channels []string
	payloads []string
	err      error
}

func (n *recordingNotifier) Publish(_ context.Context, channel string, payload any) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return 0, n.err
	}
	n.channels = append(n.channels, channel)
	n.payloads = append(n.payloads, payload.(string))
	return 1, nil
}

func (n *recordingNotifier) events(t *testing.T) []ChangeEvent {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ChangeEvent, 0, len(n.payloads))
	for _, p := range n.payloads {
		evt, err := DecodeChangeEvent(p)
		require.NoError(t, err)
		out = append(out, evt)
	}
	return out
}
