// Command photosim runs the photometry processing chain on a synthetic
// dual-channel recording and prints the analysis results.
//
// Usage:
//
//	photosim [flags]
//
// Examples:
//
//	photosim
//	photosim -duration 30 -transients 8 -noise 0.05
//	photosim -low 0.05 -high 2 -downsample 20
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-photometry/correlate"
	"github.com/cwbudde/algo-photometry/events"
	"github.com/cwbudde/algo-photometry/pipeline"
	"github.com/cwbudde/algo-photometry/psth"
	"github.com/cwbudde/algo-photometry/synth"
)

func main() {
	duration := flag.Float64("duration", 20, "recording length in seconds")
	rate := flag.Float64("rate", 1000, "sample rate in Hz")
	transients := flag.Int("transients", 6, "number of injected transients")
	amplitude := flag.Float64("amplitude", 5, "transient amplitude")
	noise := flag.Float64("noise", 0, "white noise amplitude per channel")
	seed := flag.Int64("seed", 1, "noise generator seed")
	low := flag.Float64("low", 0.01, "bandpass low cutoff in Hz")
	high := flag.Float64("high", 5, "bandpass high cutoff in Hz")
	downsample := flag.Int("downsample", 10, "decimation factor")
	prominence := flag.Float64("prominence", 1, "minimum peak prominence in dF/F percent")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: photosim [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Processes a synthetic photometry recording and prints the results.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	bumpTimes := make([]float64, *transients)
	for i := range bumpTimes {
		bumpTimes[i] = *duration * float64(i+1) / float64(*transients+1)
	}

	gen := synth.NewGenerator(*rate, synth.WithSeed(*seed))
	rec, err := gen.Recording(synth.RecordingParams{
		Duration:       *duration,
		Baseline:       50,
		CarrierFreq:    0.1,
		CarrierAmp:     2,
		TransientTimes: bumpTimes,
		TransientAmp:   *amplitude,
		TransientSigma: 0.1,
		NoiseAmp:       *noise,
	})
	if err != nil {
		fatalf("generate recording: %v", err)
	}

	cfg := pipeline.DefaultConfig()
	cfg.LowCutoff = *low
	cfg.HighCutoff = *high
	cfg.DownsampleFactor = *downsample

	out, err := pipeline.Process(rec, cfg)
	if err != nil {
		fatalf("process: %v", err)
	}

	fmt.Printf("Processed %d samples at %.0f Hz into %d dF/F samples at %.0f Hz\n\n",
		len(rec.Signal), rec.Rate, out.Len(), out.Rate)

	peaks, valleys := events.Detect(out.DFF, out.Time, out.Rate, events.Options{Prominence: *prominence})
	printEvents(out, peaks, valleys)
	printIntervals(peaks)
	printPSTH(out, peaks)
	printCorrelation(out)
}

func printEvents(out pipeline.ProcessedTrace, peaks, valleys []events.Event) {
	metrics := events.PeakMetrics(peaks, valleys, out.DFF, out.Time)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "peak\ttime (s)\tdF/F (%%)\tFWHM (s)\trise (s)\tdecay (s)\tarea\t\n")
	for i, p := range peaks {
		m := metrics[i]
		if !m.Valid {
			fmt.Fprintf(w, "%d\t%.3f\t%.2f\tn/a\tn/a\tn/a\tn/a\t\n", i, p.Time, p.Amplitude)
			continue
		}
		fmt.Fprintf(w, "%d\t%.3f\t%.2f\t%.3f\t%.3f\t%.3f\t%.2f\t\n",
			i, p.Time, p.Amplitude, m.FWHM, m.RiseTime, m.DecayTime, m.Area)
	}
	w.Flush()
	fmt.Printf("valleys detected: %d\n\n", len(valleys))
}

func printIntervals(peaks []events.Event) {
	times := make([]float64, len(peaks))
	for i, p := range peaks {
		times[i] = p.Time
	}
	stats, err := events.Intervals(times)
	if err != nil {
		fmt.Printf("intervals: %v\n\n", err)
		return
	}
	fmt.Printf("intervals: n=%d mean=%.3fs median=%.3fs std=%.3fs min=%.3fs max=%.3fs\n\n",
		stats.Count, stats.Mean, stats.Median, stats.Std, stats.Min, stats.Max)
}

func printPSTH(out pipeline.ProcessedTrace, peaks []events.Event) {
	times := make([]float64, len(peaks))
	for i, p := range peaks {
		times[i] = p.Time
	}
	res, err := psth.Compute(out.Time, out.DFF, times, 1, 1, 0.1)
	if err != nil {
		fmt.Printf("psth: %v\n\n", err)
		return
	}

	peakBin, peakVal := 0, res.Mean[0]
	for i, v := range res.Mean {
		if v > peakVal {
			peakBin, peakVal = i, v
		}
	}
	fmt.Printf("psth: %d trials, %d bins, peak response %.2f%% at %+.2fs\n\n",
		res.TrialCount, len(res.TimeBins), peakVal, res.TimeBins[peakBin])
}

func printCorrelation(out pipeline.ProcessedTrace) {
	if out.Raw2 == nil {
		return
	}

	r, err := correlate.Pearson(out.Time, out.Raw1, out.Time, out.Raw2)
	if err != nil {
		fmt.Printf("pearson: %v\n", err)
		return
	}

	xc, err := correlate.CrossCorrelation(out.Time, out.Raw1, out.Time, out.Raw2, 2)
	if err != nil {
		fmt.Printf("cross-correlation: %v\n", err)
		return
	}

	fmt.Printf("channel correlation: r=%.4f, peak xcorr %.4f at lag %+.2fs\n", r, xc.PeakCorr, xc.PeakLag)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
