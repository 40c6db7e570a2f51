package api

import (
	"encoding/json"
	"fmt"
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"math"
	"strconv"
	"strings"
)

// OptionalFloat accepts a JSON number or a numeric string. null, "" and a
// missing key all leave Value nil.
type OptionalFloat struct {
	Value *float64
}

func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		f.Value = nil
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			f.Value = nil
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not a finite number", domain.ErrValidation, raw)
	}
	f.Value = &v
	return nil
}
