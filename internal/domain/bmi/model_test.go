package bmi_test

import (
	"errors"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"github.com/burenotti/go_bmi_backend/internal/domain/bmi"
	"math"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		heightCm float64
		weightKg float64
		wantBMI  float64
		wantCat  bmi.Category
	}{
		{"normal", 180, 72, 22.22, bmi.Normal},
		{"underweight", 160, 45, 17.58, bmi.Underweight},
		{"obese", 170, 90, 31.14, bmi.Obese},
		{"overweight", 175, 80, 26.12, bmi.Overweight},
		{"fractional height", 175.5, 72.4, 23.51, bmi.Normal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := bmi.Compute(tc.heightCm, tc.weightKg)
			if err != nil {
				t.Fatalf("Compute(%v, %v): %v", tc.heightCm, tc.weightKg, err)
			}
			if m.BMI != tc.wantBMI {
				t.Errorf("bmi = %v; want %v", m.BMI, tc.wantBMI)
			}
			if m.Category != tc.wantCat {
				t.Errorf("category = %q; want %q", m.Category, tc.wantCat)
			}
			if m.HeightCm != tc.heightCm || m.WeightKg != tc.weightKg {
				t.Errorf("inputs not carried: %+v", m)
			}
		})
	}
}

func TestCompute_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		heightCm float64
		weightKg float64
		want     error
	}{
		{"zero height", 0, 70, bmi.ErrInvalidHeight},
		{"negative height", -170, 70, bmi.ErrInvalidHeight},
		{"nan height", math.NaN(), 70, bmi.ErrInvalidHeight},
		{"infinite height", math.Inf(1), 70, bmi.ErrInvalidHeight},
		{"zero weight", 170, 0, bmi.ErrInvalidWeight},
		{"negative weight", 170, -1, bmi.ErrInvalidWeight},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bmi.Compute(tc.heightCm, tc.weightKg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  bmi.Category
	}{
		{18.49, bmi.Underweight},
		{18.5, bmi.Normal},
		{24.99, bmi.Normal},
		{25, bmi.Overweight},
		{29.99, bmi.Overweight},
		{30, bmi.Obese},
	}
	for _, tc := range tests {
		if got := bmi.Classify(tc.value); got != tc.want {
			t.Errorf("Classify(%v) = %q; want %q", tc.value, got, tc.want)
		}
	}
}

func TestRound(t *testing.T) {
	if got := bmi.Round(17.578125); got != 17.58 {
		t.Errorf("Round(17.578125) = %v", got)
	}
	if got := bmi.Round(22.125); got != 22.13 {
		t.Errorf("Round(22.125) = %v; want half away from zero", got)
	}
}
