package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"breakeven/internal/errors"
)

func TestErrorBody(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "untyped error is internal",
			err:         stderrors.New("disk on fire"),
			wantCode:    "INTERNAL_ERROR",
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "unexpected error: disk on fire",
		},
		{
			name:        "wrapped domain error",
			err:         fmt.Errorf("engine: %w", errors.InvalidMix("sales mix shares must sum to 100%")),
			wantCode:    "INVALID_MIX",
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "sales mix shares must sum to 100%",
		},
		{
			name:        "input error",
			err:         errors.Input("request has neither a cost structure nor products"),
			wantCode:    "INPUT_ERROR",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "request has neither a cost structure nor products",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, status := errorBody(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}
