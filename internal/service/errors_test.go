package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "query",
				Message: "cannot be empty",
			},
			want: "validation error on field query: cannot be empty",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "failed to generate answer",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("connection refused"),
			msg:     "failed to generate answer",
			wantNil: false,
			wantMsg: "failed to generate answer: connection refused",
		},
		{
			name:    "empty message",
			err:     errors.New("connection refused"),
			msg:     "",
			wantNil: false,
			wantMsg: ": connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Errorf("WrapError() = nil, want error")
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %v, want %v", got.Error(), tt.wantMsg)
			}
			// Verify error wrapping
			if !errors.Is(got, tt.err) {
				t.Errorf("WrapError() should wrap original error")
			}
		})
	}
}

func TestSentinels_MatchThroughWrapChains(t *testing.T) {
	// Producers wrap sentinels with fmt.Errorf and WrapError; the HTTP
	// mapper must still see them at the end of the chain.
	upstream := fmt.Errorf("%w: bad status 502: upstream restarting", ErrExternalService)
	chained := WrapError(upstream, "failed to generate answer")
	if !errors.Is(chained, ErrExternalService) {
		t.Errorf("errors.Is() should find ErrExternalService through %q", chained.Error())
	}

	missing := fmt.Errorf("collection %q: %w", "semantic", ErrNotFound)
	if !errors.Is(missing, ErrNotFound) {
		t.Errorf("errors.Is() should find ErrNotFound through %q", missing.Error())
	}

	rejected := fmt.Errorf("unsupported file extension %q: %w", ".exe", ErrInvalidInput)
	if !errors.Is(rejected, ErrInvalidInput) {
		t.Errorf("errors.Is() should find ErrInvalidInput through %q", rejected.Error())
	}
}
