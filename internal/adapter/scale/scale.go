package scale

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTimeout        = 15 * time.Second
	DefaultFallbackWeight = 53.6
)

var valuePattern = regexp.MustCompile(`"value"\s*:\s*(-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?)`)

type Reading struct {
	WeightKg   float64
	Raw        string
	Note       string
	Stderr     string
	ReturnCode *int
	Fallback   bool
}

type Scale struct {
	logger         *slog.Logger
	executable     string
	args           []string
	timeout        time.Duration
	fallbackWeight float64
}

type Option func(*Scale)

func Timeout(d time.Duration) Option {
	return func(s *Scale) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func FallbackWeight(w float64) Option {
	return func(s *Scale) {
		if w > 0 {
			s.fallbackWeight = w
		}
	}
}

// Device sets the identifier passed to the executable as its only argument.
func Device(id string) Option {
	return func(s *Scale) {
		if id == "" {
			s.args = nil
			return
		}
		s.args = []string{id}
	}
}

func New(logger *slog.Logger, executable string, opts ...Option) *Scale {
	s := &Scale{
		logger:         logger,
		executable:     executable,
		timeout:        DefaultTimeout,
		fallbackWeight: DefaultFallbackWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AcquireWeight never fails: when the device cannot be read the fallback
// weight is returned together with a note explaining why.
func (s *Scale) AcquireWeight(ctx context.Context) Reading {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.executable, s.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()

	reading := Reading{
		Raw:    stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		code := cmd.ProcessState.ExitCode()
		reading.ReturnCode = &code
	}

	if runErr != nil {
		note := fmt.Sprintf("scale invocation failed: %v", runErr)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			note = fmt.Sprintf("scale did not respond within %s", s.timeout)
		}
		return s.fallback(reading, note)
	}

	if strings.TrimSpace(reading.Raw) == "" {
		return s.fallback(reading, "scale produced no output")
	}

	match := valuePattern.FindStringSubmatch(reading.Raw)
	if match == nil {
		return s.fallback(reading, "no weight value found in scale output")
	}
	weight, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return s.fallback(reading, fmt.Sprintf("unparsable weight %q: %v", match[1], err))
	}

	reading.WeightKg = weight
	s.logger.Info("scale read", "weight_kg", weight)
	return reading
}

func (s *Scale) fallback(r Reading, note string) Reading {
	r.WeightKg = s.fallbackWeight
	r.Note = note
	r.Fallback = true
	s.logger.Warn("scale unavailable, using fallback weight",
		"executable", s.executable,
		"weight_kg", s.fallbackWeight,
		"note", note,
	)
	return r
}
