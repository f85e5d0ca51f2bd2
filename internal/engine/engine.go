// Package engine composes the core pipeline (candle ingestion, indicator
// computation, blackout filtering, strategy scanning, portfolio
// simulation, and metrics) into the two operations the HTTP API and the
// sweep executor both need: run one backtest, run one sweep combination.
package engine

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"fxtrendback/internal/blackout"
	"fxtrendback/internal/candle"
	"fxtrendback/internal/config"
	"fxtrendback/internal/execution"
	"fxtrendback/internal/identity"
	"fxtrendback/internal/indicator"
	"fxtrendback/internal/metrics"
	"fxtrendback/internal/portfolio"
	"fxtrendback/internal/runstore"
	"fxtrendback/internal/strategy"
	"fxtrendback/internal/sweep"
)

const engineVersion = "1"

// RunStore persists completed backtest runs. A nil store disables
// persistence entirely (used by tests that only care about the in-memory
// result).
type RunStore interface {
	SaveRun(ctx context.Context, run runstore.BacktestRun) error
}

// Service owns the candle data directory and the default strategy/
// blackout configuration every request starts from.
type Service struct {
	candleDataDir string
	defaults      config.StrategyConfig
	portfolioCfg  portfolio.Config
	store         RunStore
}

func NewService(candleDataDir string, defaults config.StrategyConfig, portfolioCfg portfolio.Config) *Service {
	return &Service{candleDataDir: candleDataDir, defaults: defaults, portfolioCfg: portfolioCfg}
}

// WithStore attaches a persistence layer; every subsequent RunBacktest call
// saves its result. Returns the same Service for chaining at construction.
func (s *Service) WithStore(store RunStore) *Service {
	s.store = store
	return s
}

func (s *Service) candlePath(symbol string) string {
	return filepath.Join(s.candleDataDir, symbol+".ndjson")
}

// loadAndScan ingests one symbol's candles, computes the indicator
// columns the strategy needs, removes blackout-window rows from signal
// eligibility, and scans for trade signals.
func (s *Service) loadAndScan(symbol string, params strategy.Params, blackoutCfg blackout.Config) (*candle.Table, []strategy.TradeSignal, error) {
	tbl, err := candle.LoadNDJSON(s.candlePath(symbol))
	if err != nil {
		return nil, nil, fmt.Errorf("loading candles for %s: %w", symbol, err)
	}

	specs := []string{
		fmt.Sprintf("ema%d", params.EMAFast),
		fmt.Sprintf("ema%d", params.EMASlow),
		fmt.Sprintf("rsi%d", params.RSILength),
		"stoch_rsi",
		fmt.Sprintf("atr%d", params.ATRLength),
	}
	for _, outcome := range indicator.ApplyAll(tbl, specs) {
		if outcome.Skipped {
			return nil, nil, fmt.Errorf("indicator %q could not be applied: %s", outcome.Spec, outcome.Reason)
		}
	}

	signals, err := strategy.Scan(tbl, symbol, params, strategy.ModeBoth)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", symbol, err)
	}

	windows, err := blackout.BuildWindows(tbl.Timestamp[0], tbl.Timestamp[tbl.Len()-1], blackoutCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("building blackout windows for %s: %w", symbol, err)
	}
	signals = removeBlackoutSignals(signals, windows)

	return tbl, signals, nil
}

func removeBlackoutSignals(signals []strategy.TradeSignal, windows []blackout.Window) []strategy.TradeSignal {
	if len(windows) == 0 {
		return signals
	}
	out := signals[:0]
	for _, sig := range signals {
		if !blackout.IsInBlackout(sig.TimestampUTC, windows) {
			out = append(out, sig)
		}
	}
	return out
}

func toSignalInputs(signals []strategy.TradeSignal) []portfolio.SignalInput {
	out := make([]portfolio.SignalInput, len(signals))
	for i, sig := range signals {
		out[i] = portfolio.SignalInput{
			SignalID:         sig.ID,
			TimestampUTC:     sig.TimestampUTC,
			Direction:        execution.Direction(sig.Direction),
			EntryPrice:       sig.EntryPrice,
			InitialStopPrice: sig.InitialStopPrice,
			TargetPrice:      sig.TargetPrice,
		}
	}
	return out
}

func summaryFromTrades(trades []portfolio.PricedTrade) metrics.Summary {
	mTrades := make([]metrics.Trade, len(trades))
	for i, t := range trades {
		mTrades[i] = metrics.Trade{
			PnLR:               t.PnLR,
			OpenTimestampUnix:  t.EntryTimestamp.Unix(),
			CloseTimestampUnix: t.ExitTimestamp.Unix(),
		}
	}
	return metrics.Compute(mTrades)
}

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func mergeParams(base strategy.Params, overrides map[string]map[string]float64) strategy.Params {
	p := base
	get := func(indicatorName, field string, current float64) float64 {
		if vals, ok := overrides[indicatorName]; ok {
			if v, ok := vals[field]; ok {
				return v
			}
		}
		return current
	}
	p.EMAFast = int(get("fast_ema", "period", float64(p.EMAFast)))
	p.EMASlow = int(get("slow_ema", "period", float64(p.EMASlow)))
	p.RSILength = int(get("rsi", "period", float64(p.RSILength)))
	p.ATRLength = int(get("atr", "period", float64(p.ATRLength)))
	p.ATRStopMult = get("atr", "stop_mult", p.ATRStopMult)
	p.TargetRMult = get("atr", "target_r_mult", p.TargetRMult)
	return p
}

// BacktestRequest describes one portfolio backtest run. httpapi aliases
// this type rather than redeclaring it, so Service satisfies
// httpapi.BacktestEngine without either package importing the other's
// business logic.
type BacktestRequest struct {
	StrategyName   string                        `json:"strategy_name"`
	Symbols        []string                      `json:"symbols"`
	StartingEquity float64                       `json:"starting_equity,omitempty"`
	RiskPerTrade   float64                       `json:"risk_per_trade,omitempty"`
	Params         map[string]map[string]float64 `json:"params,omitempty"`
}

// RunBacktest runs one full portfolio backtest across every requested
// symbol, persists it to the run store, and returns both the portfolio
// result and its metrics summary. It satisfies httpapi.BacktestEngine by
// structural typing.
func (s *Service) RunBacktest(ctx context.Context, req BacktestRequest) (portfolio.Result, metrics.Summary, error) {
	startTime := time.Now().UTC()
	result, summary, err := s.runBacktest(ctx, req)
	if err != nil {
		return result, summary, err
	}
	s.persistRun(ctx, req, result, summary, startTime)
	return result, summary, nil
}

// runBacktest does the actual work without touching the run store. Sweep
// combinations go through this path directly: persisting every
// combination of a large sweep to backtest_runs would dwarf the sweep's
// own aggregate row in sweep_results.
func (s *Service) runBacktest(ctx context.Context, req BacktestRequest) (portfolio.Result, metrics.Summary, error) {
	params := s.defaults.Strategy
	if req.Params != nil {
		params = mergeParams(params, req.Params)
	}
	parametersHash := identity.ComputeParametersHash(params.ToMap())
	tracker := identity.NewTracker(parametersHash, req.StrategyName, engineVersion)

	symbolData := make(map[string]*candle.Table, len(req.Symbols))
	symbolSignals := make(map[string][]portfolio.SignalInput, len(req.Symbols))
	candleCount := 0
	for _, symbol := range req.Symbols {
		if err := ctx.Err(); err != nil {
			return portfolio.Result{}, metrics.Summary{}, err
		}
		tbl, signals, err := s.loadAndScan(symbol, params, s.defaults.Blackout)
		if err != nil {
			return portfolio.Result{}, metrics.Summary{}, err
		}
		symbolData[symbol] = tbl
		symbolSignals[symbol] = toSignalInputs(signals)
		candleCount += tbl.Len()
		for _, sig := range signals {
			tracker.AddEvent("SIGNAL_GENERATED", sig.ID)
		}
	}
	tracker.UpdateCandleCount(candleCount)

	cfg := s.portfolioCfg
	if req.StartingEquity > 0 {
		cfg.StartingEquity = decimalFromFloat(req.StartingEquity)
	}
	if req.RiskPerTrade > 0 {
		cfg.RiskPerTrade = decimalFromFloat(req.RiskPerTrade)
	}
	cfg.TargetRMultiple = params.TargetRMult

	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	result := portfolio.Simulate(runID, symbolData, symbolSignals, cfg)
	summary := summaryFromTrades(result.ClosedTrades)

	for _, trade := range result.ClosedTrades {
		tracker.AddEvent("TRADE_CLOSED", trade.SignalID)
	}
	result.ReproducibilityHash = tracker.Finalize()

	return result, summary, nil
}

func (s *Service) persistRun(ctx context.Context, req BacktestRequest, result portfolio.Result, summary metrics.Summary, startTime time.Time) {
	if s.store == nil {
		return
	}
	startingEquity, _ := result.StartingEquity.Float64()
	finalEquity, _ := result.FinalEquity.Float64()
	run := runstore.BacktestRun{
		RunID:               result.RunID,
		StrategyName:        req.StrategyName,
		DirectionMode:       string(strategy.ModeBoth),
		StartingEquity:      startingEquity,
		FinalEquity:         finalEquity,
		TotalTrades:         result.TotalTrades,
		SharpeRatio:         summary.SharpeRatio,
		MaxDrawdownR:        summary.MaxDrawdownR,
		ReproducibilityHash: result.ReproducibilityHash,
		StartTime:           startTime,
		EndTime:             time.Now().UTC(),
		DataStartUTC:        result.DataStartUTC,
		DataEndUTC:          result.DataEndUTC,
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		log.Printf("engine: persisting run %s: %v", result.RunID, err)
	}
}

// RunOne runs one backtest for a single sweep combination and reduces it
// to the SingleResult shape the sweep executor ranks on. It satisfies
// httpapi.SweepRunner, whose handler wraps it into a sweep.RunFunc.
func (s *Service) RunOne(ctx context.Context, strategyName string, symbols []string, params map[string]map[string]float64) (sweep.SingleResult, error) {
	result, summary, err := s.runBacktest(ctx, BacktestRequest{StrategyName: strategyName, Symbols: symbols, Params: params})
	if err != nil {
		return sweep.SingleResult{}, err
	}
	totalPnL, _ := result.TotalPnL.Float64()
	return sweep.SingleResult{
		SharpeRatio: summary.SharpeRatio,
		TotalPnL:    totalPnL,
		WinRate:     summary.WinRate,
		TradeCount:  summary.TradeCount,
		MaxDrawdown: summary.MaxDrawdownR,
	}, nil
}
