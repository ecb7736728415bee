// Package api - Endpoint handlers
package api

import (
	"encoding/json"
	"net/http"

	"breakeven/core/engine"
	"breakeven/core/types"
	"breakeven/internal/errors"
)

// Handler decodes requests and delegates to the engine
type Handler struct {
	engine *engine.Engine
	opts   Options
}

// NewHandler creates a new handler
func NewHandler(eng *engine.Engine, opts Options) *Handler {
	return &Handler{engine: eng, opts: opts}
}

// Analyze runs a full engine request
func (h *Handler) Analyze(r *http.Request) (interface{}, interface{}, error) {
	var req engine.Request
	if err := h.decode(r, &req); err != nil {
		return nil, nil, err
	}
	if err := h.checkProducts(req.Products); err != nil {
		return nil, nil, err
	}
	result, err := h.engine.Run(req)
	return req, result, err
}

// BreakEven returns the single-product analysis snapshot
func (h *Handler) BreakEven(r *http.Request) (interface{}, interface{}, error) {
	var req BreakEvenRequest
	if err := h.decode(r, &req); err != nil {
		return nil, nil, err
	}
	costs := req.CostStructure
	result, err := h.engine.Run(engine.Request{
		Costs:         &costs,
		ExpectedUnits: req.ExpectedUnits,
		TargetProfit:  req.TargetProfit,
	})
	return req, result, err
}

// Chart returns the cost/revenue/profit series
func (h *Handler) Chart(r *http.Request) (interface{}, interface{}, error) {
	var req ChartRequest
	if err := h.decode(r, &req); err != nil {
		return nil, nil, err
	}
	costs := req.CostStructure
	result, err := h.engine.Run(engine.Request{
		Costs: &costs,
		Chart: &types.ChartRange{Min: req.MinUnits, Max: req.MaxUnits},
	})
	if err != nil {
		return nil, nil, err
	}
	return req, result.Chart, nil
}

// MultiProduct returns the weighted break-even of a sales mix
func (h *Handler) MultiProduct(r *http.Request) (interface{}, interface{}, error) {
	var req MultiProductRequest
	if err := h.decode(r, &req); err != nil {
		return nil, nil, err
	}
	if err := h.checkProducts(req.Products); err != nil {
		return nil, nil, err
	}
	result, err := h.engine.MultiProduct(req.Products, req.TotalFixedCosts)
	return req, result, err
}

// Sensitivity returns a sweep of one driver
func (h *Handler) Sensitivity(r *http.Request) (interface{}, interface{}, error) {
	var req SensitivityRequest
	if err := h.decode(r, &req); err != nil {
		return nil, nil, err
	}
	result, err := h.engine.Sensitivity(req.CostStructure, req.SensitivityRequest)
	return req, result, err
}

func (h *Handler) decode(r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, h.opts.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Parsing("invalid JSON body", err)
	}
	return nil
}

func (h *Handler) checkProducts(products []types.Product) error {
	if h.opts.MaxProducts > 0 && len(products) > h.opts.MaxProducts {
		return errors.Newf(errors.TypeInput, "at most %d products are accepted, got %d",
			h.opts.MaxProducts, len(products))
	}
	return nil
}

// errorBody maps an error onto a response body and HTTP status
func errorBody(err error) (ErrorBody, int) {
	e, ok := errors.As(err)
	if !ok {
		e = errors.Internal("unexpected error", err)
	}

	body := ErrorBody{Code: string(e.Type), Message: e.Message, Context: e.Context}
	if e.Cause != nil {
		body.Message = e.Message + ": " + e.Cause.Error()
	}

	switch e.Type {
	case errors.TypeInvalidModel, errors.TypeInvalidMix,
		errors.TypeBelowBreakEven, errors.TypeUndefinedAtBreakEven:
		return body, http.StatusUnprocessableEntity
	case errors.TypeInput, errors.TypeParsing:
		return body, http.StatusBadRequest
	default:
		return body, http.StatusInternalServerError
	}
}
