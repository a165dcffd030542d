package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-photometry/dsp/zerophase"
	"github.com/cwbudde/algo-photometry/internal/testutil"
	"github.com/cwbudde/algo-photometry/trace"
)

func constantRecording(value float64, n int, fs float64) trace.DualChannelRecording {
	return trace.DualChannelRecording{
		Time:      testutil.TimeAxis(fs, n),
		Signal:    testutil.DC(value, n),
		Reference: testutil.DC(value, n),
		Rate:      fs,
	}
}

func TestProcessConstantTraceYieldsNearZeroDFF(t *testing.T) {
	rec := constantRecording(5, 1000, 100)

	cfg := DefaultConfig()
	cfg.LowCutoff = 0.1
	cfg.HighCutoff = 10

	out, err := Process(rec, cfg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Len() != 1000 {
		t.Fatalf("Len=%d, want 1000", out.Len())
	}
	for i, v := range out.DFF {
		if math.Abs(v) > 0.1 {
			t.Fatalf("DFF[%d]=%v, want ~0", i, v)
		}
	}
}

func TestProcessBoundaryValidation(t *testing.T) {
	good := constantRecording(1, 100, 100)

	for _, tc := range []struct {
		name string
		rec  trace.DualChannelRecording
		mut  func(*Config)
		want error
	}{
		{"empty", trace.DualChannelRecording{Rate: 100}, nil, ErrNoRecording},
		{"bad rate", trace.DualChannelRecording{Signal: []float64{1, 2}, Rate: 0}, nil, ErrInvalidRate},
		{"inverted cutoffs", good, func(c *Config) { c.LowCutoff = 5; c.HighCutoff = 1 }, ErrInvalidCutoffs},
		{
			"shape mismatch",
			trace.DualChannelRecording{Signal: []float64{1, 2, 3}, Reference: []float64{1}, Rate: 100},
			nil,
			ErrRecordingShape,
		},
	} {
		cfg := DefaultConfig()
		if tc.mut != nil {
			tc.mut(&cfg)
		}
		if _, err := Process(tc.rec, cfg); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestProcessDecimationAlignment(t *testing.T) {
	n := 1003
	fs := 100.0
	rec := trace.DualChannelRecording{
		Time:      testutil.TimeAxis(fs, n),
		Signal:    testutil.DeterministicSine(0.5, fs, 1, n),
		Reference: testutil.DeterministicSine(0.5, fs, 0.5, n),
		Rate:      fs,
	}

	for _, factor := range []int{1, 2, 5, 10} {
		cfg := DefaultConfig()
		cfg.LowCutoff = 0.01
		cfg.HighCutoff = 10
		cfg.DownsampleFactor = factor

		out, err := Process(rec, cfg)
		if err != nil {
			t.Fatalf("factor %d: %v", factor, err)
		}

		wantLen := (n + factor - 1) / factor
		if out.Len() != wantLen {
			t.Fatalf("factor %d: len=%d, want %d", factor, out.Len(), wantLen)
		}
		for _, l := range []int{len(out.Time), len(out.Raw1), len(out.Raw2), len(out.ArtifactMask)} {
			if l != wantLen {
				t.Fatalf("factor %d: parallel array len=%d, want %d", factor, l, wantLen)
			}
		}
		if out.Baseline != nil && len(out.Baseline) != wantLen {
			t.Fatalf("factor %d: baseline len=%d, want %d", factor, len(out.Baseline), wantLen)
		}
		// out.Time[i] must correspond to in.Time[i*factor].
		for i := range out.Time {
			if out.Time[i] != rec.Time[i*factor] {
				t.Fatalf("factor %d: Time[%d]=%v, want %v", factor, i, out.Time[i], rec.Time[i*factor])
			}
		}
		if out.Rate != fs/float64(factor) {
			t.Fatalf("factor %d: Rate=%v, want %v", factor, out.Rate, fs/float64(factor))
		}
	}
}

func TestProcessWithoutReference(t *testing.T) {
	n := 600
	fs := 100.0
	rec := trace.DualChannelRecording{
		Signal: testutil.DeterministicSine(1, fs, 1, n),
		Rate:   fs,
	}

	cfg := DefaultConfig()
	cfg.LowCutoff = 0.1
	cfg.HighCutoff = 10

	out, err := Process(rec, cfg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Raw2 != nil {
		t.Fatal("Raw2 should be nil without a reference channel")
	}
	for _, flagged := range out.ArtifactMask {
		if flagged {
			t.Fatal("mask should be all-false without a reference channel")
		}
	}
	testutil.RequireFinite(t, out.DFF)
}

func TestProcessFilterFailureDegradesToUnfiltered(t *testing.T) {
	n := 500
	fs := 100.0
	rec := trace.DualChannelRecording{
		Signal:    testutil.DeterministicSine(1, fs, 1, n),
		Reference: testutil.DC(1, n),
		Rate:      fs,
	}

	// Cutoffs above Nyquist: the filter stage must fall back to the raw
	// samples instead of aborting the pipeline.
	cfg := DefaultConfig()
	cfg.LowCutoff = 60
	cfg.HighCutoff = 80

	out, err := Process(rec, cfg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Raw1, rec.Signal, 1e-12)
}

func TestProcessRawSignalSelection(t *testing.T) {
	n := 800
	fs := 100.0
	sig := testutil.DeterministicSine(0.5, fs, 1, n)
	for i := range sig {
		sig[i] += 0.5 * math.Sin(2*math.Pi*30*float64(i)/fs)
	}
	rec := trace.DualChannelRecording{Signal: sig, Rate: fs}

	cfg := DefaultConfig()
	cfg.FilterKind = zerophase.Lowpass
	cfg.HighCutoff = 5
	cfg.LowCutoff = 0

	cfg.FilterRawSignals = false
	out, err := Process(rec, cfg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Raw1, sig, 1e-12)

	cfg.FilterRawSignals = true
	out, err = Process(rec, cfg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// The filtered raw channel must differ from the original (the 30 Hz
	// component is gone).
	var diff float64
	for i := range sig {
		diff += math.Abs(out.Raw1[i] - sig[i])
	}
	if diff < 1 {
		t.Fatal("filtered Raw1 should differ from the original signal")
	}
}

func TestProcessDriftTogglesBaseline(t *testing.T) {
	rec := constantRecording(2, 400, 100)

	cfg := DefaultConfig()
	cfg.LowCutoff = 0.1
	cfg.HighCutoff = 10

	cfg.DriftCorrection = false
	out, err := Process(rec, cfg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Baseline != nil {
		t.Fatal("baseline should be nil with drift correction disabled")
	}

	cfg.DriftCorrection = true
	out, err = Process(rec, cfg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Baseline == nil {
		t.Fatal("baseline should be present with drift correction enabled")
	}
}
