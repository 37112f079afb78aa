package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docketlabeler/pkg/courtlistener"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/models"
	"docketlabeler/pkg/retry"
)

// Order is the pop order of records within a fetched page
type Order string

const (
	OrderFIFO Order = "fifo"
	OrderLIFO Order = "lifo"
)

// ParseOrder converts a configuration value to an Order
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case OrderFIFO, "":
		return OrderFIFO, nil
	case OrderLIFO:
		return OrderLIFO, nil
	default:
		return "", fmt.Errorf("unknown order %q (want fifo or lifo)", s)
	}
}

// PageSource supplies raw catalog items one page at a time
type PageSource interface {
	NextPage(ctx context.Context) ([]courtlistener.RawItem, error)
	Exhausted() bool
}

// Generator is a pull-based, never-ending stream of records. It refills its
// buffer from the page source whenever it runs dry and backs off while the
// catalog has nothing new.
type Generator struct {
	pages    PageSource
	order    Order
	queue    []models.Record
	backoff  *retry.Tracker
	mustWait bool
	wait     func(ctx context.Context, d time.Duration) error
	logger   logger.Logger
}

// NewGenerator creates a generator over pages. A nil backoff uses
// retry.DefaultExponentialBackoff.
func NewGenerator(pages PageSource, order Order, backoff retry.BackoffStrategy, log logger.Logger) *Generator {
	if log == nil {
		log = logger.GetLogger()
	}
	if backoff == nil {
		backoff = retry.DefaultExponentialBackoff()
	}
	if order == "" {
		order = OrderFIFO
	}
	return &Generator{
		pages:   pages,
		order:   order,
		backoff: retry.NewTracker(backoff),
		wait:    retry.Wait,
		logger:  log.WithField("component", "generator"),
	}
}

// Buffered returns the number of records waiting in the buffer
func (g *Generator) Buffered() int {
	return len(g.queue)
}

// Next returns the next record, fetching pages as needed. It only returns
// an error when a fetch fails or ctx is done, even with records buffered.
func (g *Generator) Next(ctx context.Context) (models.Record, error) {
	if err := ctx.Err(); err != nil {
		return models.Record{}, err
	}
	for len(g.queue) == 0 {
		if err := g.refill(ctx); err != nil {
			return models.Record{}, err
		}
	}

	var record models.Record
	if g.order == OrderLIFO {
		last := len(g.queue) - 1
		record, g.queue = g.queue[last], g.queue[:last]
	} else {
		record, g.queue = g.queue[0], g.queue[1:]
	}
	return record, nil
}

func (g *Generator) refill(ctx context.Context) error {
	if g.mustWait {
		delay := g.backoff.Next()
		g.logger.InfoWithFields("Catalog has nothing new, waiting", map[string]interface{}{
			"delay":   delay,
			"attempt": g.backoff.Attempts(),
		})
		if err := g.wait(ctx, delay); err != nil {
			return err
		}
	}

	items, err := g.pages.NextPage(ctx)
	if err != nil {
		return err
	}

	records := ExtractAll(items)
	g.queue = append(g.queue, records...)
	g.logger.DebugWithFields("Buffered page records", map[string]interface{}{
		"raw_items": len(items),
		"records":   len(records),
		"buffered":  len(g.queue),
	})

	if len(items) == 0 || g.pages.Exhausted() {
		g.mustWait = true
	} else {
		g.mustWait = false
		g.backoff.Reset()
	}
	return nil
}
