// Package server exposes the sentiment pipeline over HTTP: stock info,
// on-demand sentiment analysis, and run history, plus a health probe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"stock-sentiment/internal/config"
	"stock-sentiment/internal/interfaces"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/sentiment"
	"stock-sentiment/internal/types"
)

const shutdownTimeout = 10 * time.Second

// tickerPattern bounds what reaches the providers; values are
// upper-cased before matching.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,12}$`)

// Server handles HTTP requests for the sentiment API.
type Server struct {
	service *sentiment.Service
	market  interfaces.MarketData
	store   interfaces.Store
	addr    string
	origin  string
	limiter *clientLimiter
}

// New creates the API server. Market and store are optional; their
// endpoints answer 503 when the collaborator is not configured.
func New(svc *sentiment.Service, market interfaces.MarketData, store interfaces.Store, cfg *config.Config) *Server {
	return &Server{
		service: svc,
		market:  market,
		store:   store,
		addr:    ":" + strconv.Itoa(cfg.Server.Port),
		origin:  cfg.Server.AllowedOrigin,
		limiter: newClientLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	}
}

// Handler builds the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/stock/{ticker}/info", s.handleInfo)
	mux.HandleFunc("GET /api/stock/{ticker}/sentiment", s.handleSentiment)
	mux.HandleFunc("GET /api/stock/{ticker}/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	h = s.limiter.middleware(h)
	h = withCORS(h, s.origin)
	h = withLogging(h)
	return h
}

// Run serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info(ctx, "Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerFrom(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticker")
		return
	}
	if s.market == nil {
		writeError(w, http.StatusServiceUnavailable, "market data is not configured")
		return
	}

	info, err := s.market.StockInfo(r.Context(), ticker)
	if err != nil {
		writeError(w, http.StatusNotFound, "no stock info found for "+ticker)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerFrom(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticker")
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = sentiment.SourceAll
	}
	switch source {
	case sentiment.SourceNews, sentiment.SourceReddit, sentiment.SourceAll:
	default:
		writeError(w, http.StatusBadRequest, "source must be news, reddit or all")
		return
	}

	refresh := r.URL.Query().Get("refresh")
	var res types.AggregateResult
	var err error
	if refresh == "1" || refresh == "true" {
		res, err = s.service.RefreshSentiment(r.Context(), ticker, source)
	} else {
		res, err = s.service.GetSentiment(r.Context(), ticker, source)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sentiment analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerFrom(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticker")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.store.RunHistory(r.Context(), ticker, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading run history failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"runs":   runs,
	})
}

// tickerFrom validates and normalizes the path ticker.
func tickerFrom(r *http.Request) (string, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(r.PathValue("ticker")))
	if !tickerPattern.MatchString(ticker) {
		return "", false
	}
	return ticker, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
