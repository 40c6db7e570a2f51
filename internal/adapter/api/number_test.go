package api

import (
	"encoding/json"
	"errors"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"testing"
)

func TestOptionalFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    *float64
		wantErr bool
	}{
		{in: `72.5`, want: ptr(72.5)},
		{in: `"180"`, want: ptr(180)},
		{in: `" 0 "`, want: ptr(0)},
		{in: `null`},
		{in: `""`},
		{in: `"abc"`, wantErr: true},
		{in: `true`, wantErr: true},
		{in: `"NaN"`, wantErr: true},
		{in: `"Inf"`, wantErr: true},
		{in: `"-Inf"`, wantErr: true},
		{in: `"Infinity"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v struct {
				Height OptionalFloat `json:"heightCm"`
			}
			err := json.Unmarshal([]byte(`{"heightCm":`+tt.in+`}`), &v)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch {
			case tt.want == nil && v.Height.Value != nil:
				t.Fatalf("expected absent value, got %v", *v.Height.Value)
			case tt.want != nil && (v.Height.Value == nil || *v.Height.Value != *tt.want):
				t.Fatalf("got %v, want %v", v.Height.Value, *tt.want)
			}
		})
	}
}

func ptr(v float64) *float64 {
	return &v
}
