package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/deplayer/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   errors.Code
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "structured",
			err:        errors.New(errors.ErrCodeInvalidDescriptor, "bad json"),
			wantCode:   errors.ErrCodeInvalidDescriptor,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "bad json",
		},
		{
			name:       "wrapped structured",
			err:        fmt.Errorf("prepare: %w", errors.New(errors.ErrCodeInvalidRule, "nope")),
			wantCode:   errors.ErrCodeInvalidRule,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "nope",
		},
		{
			name:       "stall",
			err:        &errors.StallError{Placed: 1, Unplaced: []string{"a", "b"}},
			wantCode:   errors.ErrCodeLayeringStall,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "layering stalled: 2 of 3 nodes unplaced (a, b)",
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("layout: %w", context.DeadlineExceeded),
			wantCode:   errors.ErrCodeTimeout,
			wantStatus: http.StatusGatewayTimeout,
			wantMsg:    "layout: context deadline exceeded",
		},
		{
			name:       "plain",
			err:        fmt.Errorf("boom"),
			wantCode:   errors.ErrCodeInternal,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMsg)
			}
		})
	}
}
