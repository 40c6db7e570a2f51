package bmi

import (
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"math"
)

type Category string

const (
	Underweight Category = "Underweight"
	Normal      Category = "Normal"
	Overweight  Category = "Overweight"
	Obese       Category = "Obese"
)

var (
	ErrInvalidHeight = fmt.Errorf("%w: height must be a positive number", domain.ErrValidation)
	ErrInvalidWeight = fmt.Errorf("%w: weight must be a positive number", domain.ErrValidation)
	ErrMissingHeight = fmt.Errorf("%w: height is required", domain.ErrValidation)
	ErrMissingWeight = fmt.Errorf("%w: weight is required", domain.ErrValidation)
)

type Measurement struct {
	WeightKg float64
	HeightCm float64
	BMI      float64
	Category Category
}

// Compute returns the BMI rounded half away from zero to two decimals and its
// category. The category is derived from the rounded value.
func Compute(heightCm, weightKg float64) (Measurement, error) {
	if !isPositive(heightCm) {
		return Measurement{}, ErrInvalidHeight
	}
	if !isPositive(weightKg) {
		return Measurement{}, ErrInvalidWeight
	}

	heightM := heightCm / 100
	value := Round(weightKg / (heightM * heightM))

	return Measurement{
		WeightKg: weightKg,
		HeightCm: heightCm,
		BMI:      value,
		Category: Classify(value),
	}, nil
}

func Classify(value float64) Category {
	switch {
	case value < 18.5:
		return Underweight
	case value < 25:
		return Normal
	case value < 30:
		return Overweight
	default:
		return Obese
	}
}

func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
