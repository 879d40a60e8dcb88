// Package yahoo resolves company and quote data from the public Yahoo
// Finance endpoints. The chart call carries price, currency, display
// name, and enough daily closes for the technical snapshot; the
// quoteSummary call adds sector, industry, and market cap.
package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"stock-sentiment/internal/api"
	"stock-sentiment/internal/fetch"
	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/ta"
	"stock-sentiment/internal/types"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Provider struct {
	client  *api.Client
	limiter *fetch.ProviderLimiter
	cfg     Config
}

var _ interfaces.MarketData = (*Provider)(nil)

func NewProvider(cfg Config, limiter *fetch.ProviderLimiter) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	client := api.NewClient(
		api.WithTimeout(cfg.Timeout),
		api.WithBaseURL(cfg.BaseURL),
		api.WithLogging(true),
	)
	return &Provider{client: client, limiter: limiter, cfg: cfg}
}

// StockInfo builds company/quote data for a symbol. The chart lookup is
// required; the profile lookup only enriches, and its failure is noted
// on the result rather than returned.
func (p *Provider) StockInfo(ctx context.Context, symbol string) (*types.StockInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, fetch.ProviderYahoo); err != nil {
			return nil, err
		}
	}

	info, closes, err := p.chart(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("chart lookup for %s: %w", symbol, err)
	}

	snap := ta.FromCloses(closes)
	if !math.IsNaN(snap.SMA20) {
		info.SMA20 = snap.SMA20
	}
	if !math.IsNaN(snap.SMA50) {
		info.SMA50 = snap.SMA50
	}
	if !math.IsNaN(snap.RSI14) {
		info.RSI14 = snap.RSI14
	}
	if chg := ta.PercentChange(closes, 1); !math.IsNaN(chg) {
		info.ChangePct = chg
	}

	if err := p.profile(ctx, symbol, info); err != nil {
		logger.Warn(ctx, "Profile lookup failed", "symbol", symbol, "error", err)
		info.Error = "profile data unavailable"
	}

	return info, nil
}

func (p *Provider) chart(ctx context.Context, symbol string) (*types.StockInfo, []float64, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=3mo&interval=1d", url.PathEscape(symbol))

	req := api.NewRequest("GET", path).WithContext(ctx)
	for k, v := range api.YahooFinanceHeaders() {
		req.WithHeader(k, v)
	}

	resp, err := p.client.DoWithRetry(req, nil)
	if err != nil {
		return nil, nil, err
	}

	var cr chartResponse
	if err := resp.ParseJSON(&cr); err != nil {
		return nil, nil, err
	}
	if cr.Chart.Error != nil {
		return nil, nil, fmt.Errorf("%s: %s", cr.Chart.Error.Code, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, nil, fmt.Errorf("no chart result for %s", symbol)
	}

	res := cr.Chart.Result[0]
	meta := res.Meta

	// Close series has nulls on non-trading days
	var closes []float64
	if len(res.Indicators.Quote) > 0 {
		for _, c := range res.Indicators.Quote[0].Close {
			if c != nil {
				closes = append(closes, *c)
			}
		}
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = symbol
	}

	price := meta.RegularMarketPrice
	if price == 0 && len(closes) > 0 {
		price = closes[len(closes)-1]
	}

	info := &types.StockInfo{
		Symbol:      symbol,
		CompanyName: name,
		Price:       price,
		Currency:    meta.Currency,
	}
	return info, closes, nil
}

func (p *Provider) profile(ctx context.Context, symbol string, info *types.StockInfo) error {
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=assetProfile%%2Cprice", url.PathEscape(symbol))

	resp, err := p.client.GET(ctx, path, api.YahooFinanceHeaders())
	if err != nil {
		return err
	}

	var sr summaryResponse
	if err := resp.ParseJSON(&sr); err != nil {
		return err
	}
	if len(sr.QuoteSummary.Result) == 0 {
		return fmt.Errorf("no quote summary for %s", symbol)
	}

	res := sr.QuoteSummary.Result[0]
	info.Sector = res.AssetProfile.Sector
	info.Industry = res.AssetProfile.Industry
	info.MarketCap = res.Price.MarketCap.Raw
	return nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				LongName           string  `json:"longName"`
				ShortName          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			Price struct {
				MarketCap struct {
					Raw int64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
	} `json:"quoteSummary"`
}
