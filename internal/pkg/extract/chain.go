package extract

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/jwlin/tigerfare/internal/pkg/flight"
)

// Chain applies strategies in fixed priority order and short-circuits at
// the first one that yields at least one record.
type Chain struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	if len(strategies) == 0 {
		strategies = []Strategy{CardStrategy{}, ListStrategy{}, CalendarStrategy{}}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Chain{
		strategies: strategies,
		logger:     logger,
	}
}

func (c *Chain) Run(doc *goquery.Document, sourceURL string) []flight.Record {
	for _, strategy := range c.strategies {
		records := strategy.Extract(doc, sourceURL)
		if len(records) > 0 {
			c.logger.Debug("strategy yielded records",
				slog.String("strategy", strategy.Name()),
				slog.Int("count", len(records)))

			return records
		}
	}

	return nil
}
