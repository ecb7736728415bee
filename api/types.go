// Package api - Request and response types
package api

import (
	"github.com/shopspring/decimal"

	"breakeven/core/engine"
	"breakeven/core/types"
)

// BreakEvenRequest is the body of POST /v1/break-even
type BreakEvenRequest struct {
	types.CostStructure
	ExpectedUnits decimal.Decimal     `json:"expected_units"`
	TargetProfit  decimal.NullDecimal `json:"target_profit"`
}

// ChartRequest is the body of POST /v1/chart
type ChartRequest struct {
	types.CostStructure
	MinUnits decimal.Decimal     `json:"min_units"`
	MaxUnits decimal.NullDecimal `json:"max_units"`
}

// MultiProductRequest is the body of POST /v1/multi-product
type MultiProductRequest struct {
	Products        []types.Product     `json:"products"`
	TotalFixedCosts decimal.NullDecimal `json:"total_fixed_costs"`
}

// SensitivityRequest is the body of POST /v1/sensitivity
type SensitivityRequest struct {
	types.CostStructure
	engine.SensitivityRequest
}

// Response wraps every successful result
type Response struct {
	Result   interface{}       `json:"result"`
	Metadata *ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a result was produced
type ResponseMetadata struct {
	RequestID     string `json:"request_id"`
	InputHash     string `json:"input_hash"`
	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// ErrorResponse is returned for any failed request
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}
