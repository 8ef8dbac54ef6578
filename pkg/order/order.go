// Package order records customer orders in the document store.
package order

import (
	"context"
	"fmt"
	"maps"
	"time"

	"storefront/pkg/models"
	"storefront/pkg/store"
)

// Ledger appends orders and answers per-user history queries.
type Ledger struct {
	store *store.Store
	now   func() time.Time

	// lastMillis is only touched inside store.Update, which serializes it.
	lastMillis int64
}

// NewLedger returns a ledger backed by st.
func NewLedger(st *store.Store) *Ledger {
	return &Ledger{store: st, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Create stores a new order built from the caller's fields. The fields are
// not validated; orderId and timestamp are always set by the ledger. IDs
// are order_<unix millis>, bumped by one when two orders share a millisecond.
func (l *Ledger) Create(ctx context.Context, fields map[string]any) (models.Order, error) {
	o := make(models.Order, len(fields)+2)
	maps.Copy(o, fields)

	err := l.store.Update(ctx, func(doc *store.Document) error {
		now := l.now().UTC()
		ms := now.UnixMilli()
		if ms <= l.lastMillis {
			ms = l.lastMillis + 1
		}
		o[models.OrderIDField] = fmt.Sprintf("order_%d", ms)
		o[models.OrderTimestampField] = now.Format(models.TimestampLayout)
		doc.Orders = append(doc.Orders, o)
		l.lastMillis = ms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(o), nil
}

// History returns the orders whose userId equals userID, oldest first. It
// never returns nil.
func (l *Ledger) History(ctx context.Context, userID string) []models.Order {
	out := make([]models.Order, 0)
	l.store.View(func(doc *store.Document) {
		for _, o := range doc.Orders {
			if o.UserID() == userID {
				out = append(out, maps.Clone(o))
			}
		}
	})
	return out
}
