package order

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/models"
	"storefront/pkg/store"
)

func newLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	st := store.New(store.NewFileBackend(path))
	require.NoError(t, st.Import(context.Background(), []byte(`{"orders":[]}`)))
	return NewLedger(st), path
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	l, path := newLedger(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	l.WithClock(func() time.Time { return now })

	o, err := l.Create(ctx, map[string]any{
		"userId":  "C01",
		"items":   []any{map[string]any{"productId": "p1", "qty": 2}},
		"total":   90,
		"orderId": "client-chosen",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_1735787045678", o.ID())
	assert.Equal(t, "2025-01-02T03:04:05.678Z", o.Timestamp())
	assert.Equal(t, "C01", o.UserID())

	again, err := l.Create(ctx, map[string]any{"userId": "C01"})
	require.NoError(t, err)
	assert.Equal(t, "order_1735787045679", again.ID(), "same millisecond gets the next id")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk struct {
		Orders []map[string]any `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Len(t, onDisk.Orders, 2)
	assert.Equal(t, "order_1735787045678", onDisk.Orders[0]["orderId"])
	assert.EqualValues(t, 90, onDisk.Orders[0]["total"])
}

func TestCreateResultIsDetached(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	o, err := l.Create(ctx, map[string]any{"userId": "C01"})
	require.NoError(t, err)
	o["userId"] = "C02"

	assert.Len(t, l.History(ctx, "C01"), 1)
	assert.Empty(t, l.History(ctx, "C02"))
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	for _, f := range []map[string]any{
		{"userId": "C01", "n": 1},
		{"userId": "C02", "n": 2},
		{"userId": "C01", "n": 3},
		{"n": 4},
		{"userId": 1, "n": 5},
	} {
		_, err := l.Create(ctx, f)
		require.NoError(t, err)
	}

	tests := []struct {
		userID string
		want   []int
	}{
		{"C01", []int{1, 3}},
		{"C02", []int{2}},
		{"C03", nil},
	}
	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			got := l.History(ctx, tt.userID)
			require.NotNil(t, got)
			require.Len(t, got, len(tt.want))
			for i, o := range got {
				assert.Equal(t, tt.userID, o.UserID())
				assert.Equal(t, fmt.Sprint(tt.want[i]), fmt.Sprint(o["n"]))
			}
		})
	}
}

func TestHistoryEmptyStore(t *testing.T) {
	l, _ := newLedger(t)
	got := l.History(context.Background(), "C01")
	assert.Equal(t, []models.Order{}, got)
}
