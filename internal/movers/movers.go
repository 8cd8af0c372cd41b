// Package movers scrapes most-active tables from public market pages as an
// alternative snapshot source when the quote API universe is unavailable.
package movers

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/markethours"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/types"
)

// MoversSource defines a most-active page and the selectors that locate its
// table columns.
type MoversSource struct {
	Name      string
	URL       string
	Selectors RowSelectors
	RateLimit time.Duration
}

// RowSelectors defines CSS selectors for extracting one snapshot row
type RowSelectors struct {
	Row       string
	Symbol    string
	LastPrice string
	PctChange string
	Volume    string
}

// Scraper pulls snapshot rows from configured most-active sources. It also
// satisfies MarketData by delegating bar history to an inner feed.
type Scraper struct {
	sources []MoversSource
	bars    interfaces.MarketData
	timeout time.Duration
}

var _ interfaces.MarketData = (*Scraper)(nil)

// NewScraper creates a movers scraper with default sources. bars supplies
// the per-symbol history the scrape pages cannot.
func NewScraper(bars interfaces.MarketData, timeout time.Duration) *Scraper {
	return &Scraper{
		sources: getDefaultSources(),
		bars:    bars,
		timeout: timeout,
	}
}

// getDefaultSources returns the most-active pages to scrape, in priority order
func getDefaultSources() []MoversSource {
	return []MoversSource{
		{
			Name: "MoneyControl",
			URL:  "https://www.moneycontrol.com/stocks/marketstats/nse-mostactive-stocks/",
			Selectors: RowSelectors{
				Row:       "table.mctable1 tbody tr",
				Symbol:    "td:nth-child(1) a",
				LastPrice: "td:nth-child(4)",
				PctChange: "td:nth-child(6)",
				Volume:    "td:nth-child(7)",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name: "EconomicTimes",
			URL:  "https://economictimes.indiatimes.com/markets/stocks/most-active-stocks-volume",
			Selectors: RowSelectors{
				Row:       "table.dataList tbody tr",
				Symbol:    "td:nth-child(1) a",
				LastPrice: "td:nth-child(2)",
				PctChange: "td:nth-child(4)",
				Volume:    "td:nth-child(5)",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Snapshot scrapes sources in order and returns the first non-empty result.
func (s *Scraper) Snapshot(ctx context.Context) ([]types.SnapshotRow, error) {
	for _, source := range s.sources {
		rows, err := s.scrapeSource(ctx, source)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape movers source", err, "source", source.Name)
			time.Sleep(source.RateLimit)
			continue
		}
		if len(rows) > 0 {
			logger.Info(ctx, "Movers scrape completed", "source", source.Name, "rows", len(rows))
			return rows, nil
		}
	}
	return nil, fmt.Errorf("no movers source returned rows")
}

// Bars delegates to the inner feed
func (s *Scraper) Bars(ctx context.Context, symbol string, n int) ([]types.Bar, error) {
	return s.bars.Bars(ctx, symbol, n)
}

// scrapeSource scrapes one most-active table into snapshot rows
func (s *Scraper) scrapeSource(ctx context.Context, source MoversSource) ([]types.SnapshotRow, error) {
	rows := []types.SnapshotRow{}

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(source.URL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.Row, func(e *colly.HTMLElement) {
		row, ok := parseRow(e.DOM, source.Selectors)
		if !ok {
			return
		}
		rows = append(rows, row)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Movers scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	if err := c.Visit(source.URL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", source.URL, err)
	}
	c.Wait()

	return rows, nil
}

// parseRow extracts one table row. Rows with no symbol cell are skipped;
// malformed numeric cells degrade to zero and get filtered downstream.
func parseRow(sel *goquery.Selection, cols RowSelectors) (types.SnapshotRow, bool) {
	symbol := strings.TrimSpace(sel.Find(cols.Symbol).First().Text())
	if symbol == "" {
		return types.SnapshotRow{}, false
	}

	price := parseNumber(sel.Find(cols.LastPrice).First().Text())
	pct := parseNumber(sel.Find(cols.PctChange).First().Text())
	vol := parseNumber(sel.Find(cols.Volume).First().Text())

	return types.SnapshotRow{
		Symbol:       symbol,
		DayClose:     price,
		DayVolume:    vol,
		PctChange:    pct,
		AvgMinuteVol: vol / sessionMinutes(time.Now()),
	}, true
}

// parseNumber handles the formats these tables use: thousands separators,
// percent suffixes, and dash placeholders. Anything unparsable is zero.
func parseNumber(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// sessionMinutes is the elapsed session time used to approximate a
// per-minute volume from the cumulative day volume, clamped to 1.
func sessionMinutes(now time.Time) float64 {
	t := now.In(markethours.IST)
	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 15, 0, 0, markethours.IST)
	mins := t.Sub(open).Minutes()
	if mins < 1 {
		return 1
	}
	return mins
}

// getDomain extracts domain from URL
func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
