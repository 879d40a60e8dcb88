// Package sentiment orchestrates the full analysis pipeline: fetch
// content about a ticker, select and filter the text, classify it,
// aggregate the scores, and fan the result out to the store, the
// stream and the audit log. Results are cached per ticker and source
// for a configurable TTL.
package sentiment

import (
	"context"
	"strings"
	"time"

	"stock-sentiment/internal/auditlog"
	"stock-sentiment/internal/engine"
	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

// Source selectors accepted by the service. News and reddit match the
// fetcher names; everything else falls back to all.
const (
	SourceNews   = "news"
	SourceReddit = "reddit"
	SourceAll    = "all"
)

const defaultCacheTTL = 15 * time.Minute

// Params collects the service collaborators. Fetchers run in the order
// given. Market, Store and Publisher are optional; a nil value
// disables that lookup or side effect.
type Params struct {
	Fetchers   []interfaces.Fetcher
	Classifier interfaces.Classifier
	Engine     *engine.Engine
	Market     interfaces.MarketData
	Store      interfaces.Store
	Publisher  interfaces.Publisher
	CacheTTL   time.Duration
}

// Service runs sentiment aggregation for tickers and caches the
// outcome per ticker and source.
type Service struct {
	fetchers   []interfaces.Fetcher
	classifier interfaces.Classifier
	engine     *engine.Engine
	market     interfaces.MarketData
	store      interfaces.Store
	publisher  interfaces.Publisher
	cache      *resultCache
}

// NewService creates the aggregation service.
func NewService(p Params) *Service {
	ttl := p.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	eng := p.Engine
	if eng == nil {
		eng = engine.New(engine.DefaultParams())
	}
	return &Service{
		fetchers:   p.Fetchers,
		classifier: p.Classifier,
		engine:     eng,
		market:     p.Market,
		store:      p.Store,
		publisher:  p.Publisher,
		cache:      newResultCache(ttl),
	}
}

// GetSentiment returns the aggregation result for a ticker, serving
// from cache when a fresh enough entry exists.
func (s *Service) GetSentiment(ctx context.Context, ticker, source string) (types.AggregateResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	source = normalizeSource(source)

	if res, ok := s.cache.get(cacheKey(ticker, source)); ok {
		logger.Debug(ctx, "Serving cached sentiment", "ticker", ticker, "source", source)
		return res, nil
	}
	return s.RefreshSentiment(ctx, ticker, source)
}

// RefreshSentiment runs the pipeline regardless of cache state and
// stores the outcome for later lookups.
func (s *Service) RefreshSentiment(ctx context.Context, ticker, source string) (types.AggregateResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	source = normalizeSource(source)

	res, err := s.analyze(ctx, ticker, source)
	if err != nil {
		return types.AggregateResult{}, err
	}
	s.cache.set(cacheKey(ticker, source), res)
	return res, nil
}

// ClearCache drops every cached result.
func (s *Service) ClearCache() {
	s.cache.clear()
}

// CachedKeys lists the ticker|source keys currently held, expired
// entries included.
func (s *Service) CachedKeys() []string {
	return s.cache.keys()
}

// analyze runs the full pipeline once. Partial failures narrow the
// batch; when nothing at all survives the result is the neutral Hold
// outcome, never an error. The only error path is a cancelled context.
func (s *Service) analyze(ctx context.Context, ticker, source string) (types.AggregateResult, error) {
	ctx, span := trace.StartSpan(ctx, "sentiment.analyze")
	defer span.End()
	start := time.Now()

	companyName := s.resolveCompanyName(ctx, ticker)

	items := s.fetchAll(ctx, ticker, companyName, source)
	if err := ctx.Err(); err != nil {
		return types.AggregateResult{}, err
	}

	kept, texts := s.selectRelevant(ctx, ticker, companyName, items)
	analyzed := s.classify(ctx, ticker, kept, texts)
	if err := ctx.Err(); err != nil {
		return types.AggregateResult{}, err
	}

	res := s.engine.Analyze(analyzed, time.Now())
	res.Ticker = ticker
	res.CompanyName = companyName
	res.DataSource = displaySource(source)

	s.persist(ctx, res, analyzed)

	logger.Recommendation(ctx, ticker, res.Suggestion, res.Score, res.AnalyzedCount,
		"source", source,
		"fetched", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// resolveCompanyName asks the market data provider for the company
// behind a ticker. The ticker itself stands in when no provider is
// configured or the lookup fails, which keeps relevance matching
// usable for symbols that appear verbatim in text.
func (s *Service) resolveCompanyName(ctx context.Context, ticker string) string {
	if s.market == nil {
		return ticker
	}
	info, err := s.market.StockInfo(ctx, ticker)
	if err != nil || info == nil || info.CompanyName == "" {
		logger.Warn(ctx, "Company name lookup failed, using ticker", "ticker", ticker)
		return ticker
	}
	return info.CompanyName
}

// fetchAll gathers content from every fetcher matching the source
// selector. One source failing only narrows the batch.
func (s *Service) fetchAll(ctx context.Context, ticker, companyName, source string) []types.ContentItem {
	var items []types.ContentItem
	for _, f := range s.fetchers {
		if source != SourceAll && f.Name() != source {
			continue
		}
		fetched, err := f.Fetch(ctx, ticker, companyName)
		if err != nil {
			logger.ErrorWithErr(ctx, "Fetcher failed, continuing without it", err,
				"fetcher", f.Name(), "ticker", ticker)
			continue
		}
		items = append(items, fetched...)
	}
	return items
}

// selectRelevant picks the analyzable text for each item and drops the
// ones that never mention the company. Selection runs first so the
// relevance check sees exactly the text that will be classified.
func (s *Service) selectRelevant(ctx context.Context, ticker, companyName string, items []types.ContentItem) ([]types.ContentItem, []string) {
	params := s.engine.Params()
	var kept []types.ContentItem
	var texts []string
	for _, item := range items {
		text, ok := engine.SelectText(item)
		if !ok {
			logger.DataQuality(ctx, ticker, "item without usable text",
				"url", item.URL, "source", item.Source)
			continue
		}
		if !engine.IsRelevant(text, ticker, companyName, params.MinTextLength, params.MinMentions) {
			logger.Debug(ctx, "Dropping irrelevant item", "ticker", ticker, "url", item.URL)
			continue
		}
		kept = append(kept, item)
		texts = append(texts, text)
	}
	return kept, texts
}

// classify sends the selected texts to the classifier in one batch and
// normalizes the labels. A batch-level failure empties the run; labels
// outside the expected set are logged as drift and scored neutral.
func (s *Service) classify(ctx context.Context, ticker string, kept []types.ContentItem, texts []string) []types.AnalyzedItem {
	if len(texts) == 0 {
		return nil
	}

	classifications, err := s.classifier.Classify(ctx, texts)
	if err != nil {
		logger.ErrorWithErr(ctx, "Classification failed for batch", err,
			"ticker", ticker, "texts", len(texts))
		return nil
	}
	if len(classifications) != len(texts) {
		logger.Error(ctx, "Classifier returned a mismatched result count",
			"ticker", ticker, "want", len(texts), "got", len(classifications))
		return nil
	}

	analyzed := make([]types.AnalyzedItem, 0, len(kept))
	for i, cls := range classifications {
		label := strings.ToLower(strings.TrimSpace(cls.Label))
		score, known := engine.Normalize(cls.Label, cls.Confidence)
		if !known {
			logger.DataQuality(ctx, ticker, "unknown sentiment label",
				"label", cls.Label, "url", kept[i].URL)
		}
		analyzed = append(analyzed, types.AnalyzedItem{
			Headline:    kept[i].Title,
			URL:         kept[i].URL,
			Score:       score,
			Label:       label,
			PublishedAt: kept[i].PublishedAt,
			Source:      kept[i].Source,
			SourceType:  kept[i].SourceType,
		})
	}
	return analyzed
}

// persist fans the finished result out to every optional sink.
// Failures are logged and swallowed; the analysis outcome is already
// final and none of the sinks may block it.
func (s *Service) persist(ctx context.Context, res types.AggregateResult, analyzed []types.AnalyzedItem) {
	if s.store != nil {
		if err := s.store.UpsertStock(ctx, res.Ticker, res.CompanyName); err != nil {
			logger.ErrorWithErr(ctx, "Stock upsert failed", err, "ticker", res.Ticker)
		}
		if err := s.store.SaveItems(ctx, res.Ticker, analyzed); err != nil {
			logger.ErrorWithErr(ctx, "Saving analyzed items failed", err, "ticker", res.Ticker)
		}
		run := types.AnalysisRun{
			Ticker:        res.Ticker,
			DataSource:    res.DataSource,
			Score:         res.Score,
			Suggestion:    res.Suggestion,
			AnalyzedCount: res.AnalyzedCount,
		}
		if err := s.store.SaveRun(ctx, run); err != nil {
			logger.ErrorWithErr(ctx, "Saving analysis run failed", err, "ticker", res.Ticker)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, res); err != nil {
			logger.ErrorWithErr(ctx, "Publishing result failed", err, "ticker", res.Ticker)
		}
	}
	if err := auditlog.AppendResult(res); err != nil {
		logger.ErrorWithErr(ctx, "Audit log append failed", err, "ticker", res.Ticker)
	}
}

// normalizeSource folds the selector to one of the accepted values;
// anything unrecognized means all sources.
func normalizeSource(source string) string {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case SourceNews:
		return SourceNews
	case SourceReddit:
		return SourceReddit
	default:
		return SourceAll
	}
}

// displaySource maps a selector to the data_source string reported in
// results.
func displaySource(source string) string {
	switch source {
	case SourceNews:
		return "News"
	case SourceReddit:
		return "Reddit"
	default:
		return "Combined"
	}
}
