package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"CoinLake/internal/domain/models"
	applogger "CoinLake/pkg/logger"
)

// CoinGeckoConfig configures the markets API client.
type CoinGeckoConfig struct {
	BaseURL      string
	APIKey       string
	Currency     string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// CoinGeckoClient fetches market snapshots from the CoinGecko /coins/markets
// endpoint. Retries with exponential backoff on transport errors and 5xx/429.
type CoinGeckoClient struct {
	http *resty.Client
	cfg  CoinGeckoConfig
	l    *applogger.Logger
}

func NewCoinGeckoClient(cfg CoinGeckoConfig, l *applogger.Logger) *CoinGeckoClient {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		c.SetHeader("x-cg-demo-api-key", cfg.APIKey)
	}
	return &CoinGeckoClient{http: c, cfg: cfg, l: l}
}

// FetchMarkets returns one snapshot record per requested coin id.
func (c *CoinGeckoClient) FetchMarkets(ctx context.Context, coins []string) ([]models.Snapshot, error) {
	if len(coins) == 0 {
		return nil, fmt.Errorf("coingecko: no coins requested")
	}

	var out []models.Snapshot
	op := func() error {
		var page []models.Snapshot
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"vs_currency": c.cfg.Currency,
				"ids":         strings.Join(coins, ","),
				"per_page":    fmt.Sprintf("%d", len(coins)),
			}).
			SetResult(&page).
			Get("/coins/markets")
		if err != nil {
			return err
		}
		if resp.StatusCode() == 429 || resp.StatusCode() >= 500 {
			return fmt.Errorf("coingecko: status %d", resp.StatusCode())
		}
		if resp.IsError() {
			// Client errors will not heal on retry.
			return backoff.Permanent(fmt.Errorf("coingecko: status %d: %s", resp.StatusCode(), resp.String()))
		}
		out = page
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryWaitMin
	bo.MaxInterval = c.cfg.RetryWaitMax
	notify := func(err error, wait time.Duration) {
		c.l.Warn("coingecko fetch retry",
			applogger.Error(err),
			applogger.Duration("wait_ms", wait),
		)
	}
	err := backoff.RetryNotify(op,
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.RetryMax)), ctx),
		notify,
	)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	return out, nil
}
