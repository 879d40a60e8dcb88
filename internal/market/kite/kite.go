// Package kite resolves quote data through Zerodha Kite Connect for
// Indian exchange symbols. Kite has no company profile endpoint, so
// the info it produces is quote-only.
package kite

import (
	"context"
	"fmt"
	"strings"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

type Params struct {
	APIKey      string
	AccessToken string
	Exchange    string
}

type Provider struct {
	kc       *kiteconnect.Client
	exchange string
}

var _ interfaces.MarketData = (*Provider)(nil)

func NewProvider(p Params) *Provider {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)

	exchange := p.Exchange
	if exchange == "" {
		exchange = "NSE"
	}
	return &Provider{kc: kc, exchange: exchange}
}

// StockInfo quotes a symbol. Full quotes need a market data
// subscription on the Kite account; when that call fails the LTP
// endpoint, available on every plan, stands in with price-only data.
func (p *Provider) StockInfo(ctx context.Context, symbol string) (*types.StockInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	instrument := p.exchange + ":" + symbol

	quotes, qerr := p.kc.GetQuote(instrument)
	if qerr == nil {
		if q, ok := quotes[instrument]; ok {
			info := &types.StockInfo{
				Symbol:      symbol,
				CompanyName: symbol,
				Price:       q.LastPrice,
				Currency:    "INR",
			}
			// Kite reports ohlc.close as the previous session's close.
			if q.OHLC.Close != 0 {
				info.ChangePct = (q.LastPrice - q.OHLC.Close) / q.OHLC.Close * 100
			}
			return info, nil
		}
		qerr = fmt.Errorf("no quote returned for %s", instrument)
	}

	logger.Warn(ctx, "Kite quote failed, falling back to LTP", "instrument", instrument, "error", qerr)

	ltp, err := p.kc.GetLTP(instrument)
	if err != nil {
		return nil, fmt.Errorf("kite quote for %s: %w", instrument, qerr)
	}
	q, ok := ltp[instrument]
	if !ok {
		return nil, fmt.Errorf("no ltp returned for %s", instrument)
	}

	return &types.StockInfo{
		Symbol:      symbol,
		CompanyName: symbol,
		Price:       q.LastPrice,
		Currency:    "INR",
		Error:       "full quote unavailable, price from ltp",
	}, nil
}
