package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"fxtrendback/internal/runstore"
	"fxtrendback/internal/sweep"
)

// SweepStore persists a completed sweep's ranking summary. A nil store
// (the zero value of the interface) disables persistence.
type SweepStore interface {
	SaveSweepResult(ctx context.Context, sweep runstore.SweepResultRow) error
}

// Handler wires the HTTP surface to the core engine. Both engine
// dependencies are interfaces so cmd/backtestd can inject the concrete
// wiring (candle ingestion, indicator pipeline, scanner, simulator)
// without this package knowing about any of it.
type Handler struct {
	engine   BacktestEngine
	runner   SweepRunner
	store    SweepStore
	registry *sweepRegistry
}

func NewHandler(engine BacktestEngine, runner SweepRunner, store SweepStore) *Handler {
	return &Handler{engine: engine, runner: runner, store: store, registry: newSweepRegistry()}
}

func newSweepID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// handleCreateBacktest runs one backtest synchronously and returns its
// full result. A single run over a handful of years of minute candles is
// cheap enough to serve inline; sweeps are not (see handleCreateSweep).
func (h *Handler) handleCreateBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.StrategyName == "" {
		writeError(w, http.StatusBadRequest, "strategy_name is required")
		return
	}
	if len(req.Symbols) == 0 {
		writeError(w, http.StatusBadRequest, "at least one symbol is required")
		return
	}

	result, summary, err := h.engine.RunBacktest(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, BacktestResponse{
		RunID:               result.RunID,
		StartingEquity:      result.StartingEquity.String(),
		FinalEquity:         result.FinalEquity.String(),
		TotalTrades:         result.TotalTrades,
		Symbols:             result.Symbols,
		ReproducibilityHash: result.ReproducibilityHash,
		Summary:             summary,
	})
}

// handleCreateSweep parses the requested parameter ranges, expands and
// filters the combination grid, then launches execution in the
// background and returns immediately with a sweep id. Callers follow up
// on GET /v1/sweeps/{id}/stream for progress; the final frame is marked
// done and carries the label of the best-ranked combination.
func (h *Handler) handleCreateSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.StrategyName == "" {
		writeError(w, http.StatusBadRequest, "strategy_name is required")
		return
	}
	if len(req.Ranges) == 0 {
		writeError(w, http.StatusBadRequest, "at least one parameter range is required")
		return
	}

	ranges := make([]sweep.ParameterRange, 0, len(req.Ranges))
	for _, in := range req.Ranges {
		if in.Indicator == "" || in.Param == "" {
			writeError(w, http.StatusBadRequest, "each range requires indicator and param")
			return
		}
		values, isRange, err := sweep.ParseRangeInput(in.Input, in.Default)
		if err != nil {
			writeError(w, http.StatusBadRequest, "range "+in.Indicator+"."+in.Param+": "+err.Error())
			return
		}
		ranges = append(ranges, sweep.ParameterRange{
			IndicatorName: in.Indicator,
			ParamName:     in.Param,
			Values:        values,
			IsRange:       isRange,
			Default:       in.Default,
		})
	}

	combos := sweep.GenerateCombinations(ranges)
	valid, skipped := sweep.FilterInvalidCombinations(combos, []sweep.Constraint{sweep.DefaultEMAConstraint})

	sweepID := newSweepID()
	bus := h.registry.busFor(sweepID)
	rankingMetric := req.RankingMetric
	total := len(valid)

	go h.runSweep(sweepID, bus, valid, req, rankingMetric)

	WriteJSON(w, http.StatusAccepted, SweepAcceptedResponse{
		SweepID:             sweepID,
		TotalCombinations:   total,
		SkippedCombinations: skipped,
		StreamPath:          "/v1/sweeps/" + sweepID + "/stream",
	})
}

func (h *Handler) runSweep(sweepID string, bus *progressBus, valid []sweep.ParameterSet, req SweepRequest, rankingMetric string) {
	defer h.registry.forget(sweepID)

	var completed atomic.Int32
	runFn := func(ctx context.Context, ps sweep.ParameterSet) (sweep.SingleResult, error) {
		result, err := h.runner.RunOne(ctx, req.StrategyName, req.Symbols, ps.Params)
		n := completed.Add(1)
		bus.publish(SweepProgress{SweepID: sweepID, Completed: int(n), Total: len(valid), Label: ps.Label})
		return result, err
	}

	startTime := time.Now()
	result := sweep.Execute(context.Background(), valid, runFn, sweep.Options{
		Sequential:    req.Sequential,
		RankingMetric: rankingMetric,
	})

	label := ""
	if result.BestParams != nil {
		label = result.BestParams.Label
	}
	h.persistSweep(sweepID, req, result, time.Since(startTime).Seconds())

	bus.publish(SweepProgress{
		SweepID:   sweepID,
		Completed: result.TotalCombinations,
		Total:     result.TotalCombinations,
		Label:     label,
		Done:      true,
	})
}

func (h *Handler) persistSweep(sweepID string, req SweepRequest, result sweep.Result, executionSeconds float64) {
	if h.store == nil {
		return
	}
	label := ""
	if result.BestParams != nil {
		label = result.BestParams.Label
	}
	row := runstore.SweepResultRow{
		SweepID:           sweepID,
		StrategyName:      req.StrategyName,
		RankingMetric:     result.RankingMetric,
		TotalCombinations: result.TotalCombinations,
		SuccessfulCount:   result.SuccessfulCount,
		FailedCount:       result.FailedCount,
		BestParamsLabel:   label,
		ExecutionSeconds:  executionSeconds,
		CreatedAt:         time.Now().UTC(),
	}
	if err := h.store.SaveSweepResult(context.Background(), row); err != nil {
		log.Printf("httpapi: persisting sweep %s: %v", sweepID, err)
	}
}
