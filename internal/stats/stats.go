// Package stats derives the dashboard figures from the stored orders. Nothing
// is cached; every call reads the current document.
package stats

import (
	"context"
	"strings"
	"time"

	"sals-backend/internal/database"
	"sals-backend/internal/models"
)

// UnknownMonth buckets orders whose createdAt is missing or unreadable.
const UnknownMonth = "unknown"

// createdAt values written by older deployments have no zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

type Stats struct {
	TotalOrders    int              `json:"total_orders"`
	TotalRevenue   int64            `json:"total_revenue"`
	PendingOrders  int              `json:"pending_orders"`
	RevenueByMonth map[string]int64 `json:"revenue_by_month"`
}

type Aggregator struct {
	store database.Store
}

func NewAggregator(store database.Store) *Aggregator {
	return &Aggregator{store: store}
}

func (a *Aggregator) Compute(ctx context.Context) (Stats, error) {
	doc, err := a.store.Load(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(doc.Orders), nil
}

// Summarize totals orders. Prices are truncated to whole units before summing.
func Summarize(orders []models.Order) Stats {
	s := Stats{
		TotalOrders:    len(orders),
		RevenueByMonth: map[string]int64{},
	}

	for _, o := range orders {
		price := o.TotalPrice.Int()
		s.TotalRevenue += price
		if o.IsPending() {
			s.PendingOrders++
		}
		s.RevenueByMonth[MonthKey(o.CreatedAt)] += price
	}
	return s
}

// MonthKey returns YYYY-MM for a stored timestamp, or UnknownMonth.
func MonthKey(createdAt string) string {
	value := strings.TrimSpace(createdAt)
	if value == "" {
		return UnknownMonth
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01")
		}
	}
	return UnknownMonth
}
