package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/angelcm/commerce-insights-go/internal/cache"
	"github.com/angelcm/commerce-insights-go/internal/config"
	"github.com/angelcm/commerce-insights-go/internal/models"
	"github.com/angelcm/commerce-insights-go/internal/store"
	"github.com/angelcm/commerce-insights-go/internal/utils"
)

// Fetcher pulls MetricRow JSON for a customer and date range from the
// warehouse endpoint and materializes it into the in-memory row store.
// The analytics core never talks to the network; this is the boundary
// where retries and timeouts live.
type Fetcher struct {
	c     HTTPClient
	st    *store.MemoryStore
	cache *cache.SummaryCache
	log   *slog.Logger
	cfg   config.Config
}

func NewFetcher(c HTTPClient, st *store.MemoryStore, cc *cache.SummaryCache, log *slog.Logger, cfg config.Config) *Fetcher {
	return &Fetcher{c: c, st: st, cache: cc, log: log, cfg: cfg}
}

// Run fetches rows for the customer across [from, to] and upserts them,
// replacing any earlier fetch of the same days. Rows with unparseable
// dates are skipped, not fatal. Cached payloads for the customer are
// dropped once new rows land. Returns the number of rows stored.
func (f *Fetcher) Run(ctx context.Context, customer, from, to string) (int, error) {
	if customer == "" {
		return 0, fmt.Errorf("customer required")
	}
	u, err := url.Parse(f.cfg.WarehouseURL)
	if err != nil || f.cfg.WarehouseURL == "" {
		return 0, fmt.Errorf("warehouse url not configured")
	}
	q := u.Query()
	q.Set("customer", customer)
	q.Set("from", from)
	q.Set("to", to)
	u.RawQuery = q.Encode()

	var rows []models.MetricRow
	backoff := utils.NewBackoff(100*time.Millisecond, 150*time.Millisecond, 2)
	if err := backoff.Do(func(i int) error {
		if i > 0 {
			f.log.Debug("retrying warehouse fetch", slog.Int("attempt", i))
		}
		return getJSON(ctx, f.c, u.String(), &rows)
	}); err != nil {
		return 0, fmt.Errorf("fetch warehouse rows: %w", err)
	}

	stored := 0
	for _, r := range rows {
		r.Date = strings.TrimSpace(r.Date)
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			f.log.Warn("skipping row with bad date", slog.String("date", r.Date))
			continue
		}
		f.st.UpsertRow(customer, r)
		stored++
	}
	if stored > 0 {
		if err := f.cache.InvalidateCustomer(ctx, customer); err != nil {
			f.log.Warn("cache invalidation failed", slog.String("err", err.Error()))
		}
	}
	f.log.Info("ingest complete",
		slog.String("customer", customer),
		slog.Int("rows", stored),
		slog.Int("total", f.st.Count(customer)))
	return stored, nil
}
