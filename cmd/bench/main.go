package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"text/tabwriter"

	"github.com/viewframe/viewframe/internal/geometry"
	"github.com/viewframe/viewframe/internal/layout"
	"github.com/viewframe/viewframe/internal/screens"
	"github.com/viewframe/viewframe/internal/settings"
	"github.com/viewframe/viewframe/internal/transition"
)

type benchFixture struct {
	Name  string
	Steps []benchStep
}

// benchStep is one layout change in the replayed sequence. A zero aspect
// keeps the previous ratio.
type benchStep struct {
	Mode   string  `json:"mode"`
	Aspect float64 `json:"aspect"`
}

type benchLatencyStats struct {
	Min    float64 `json:"minMs"`
	Mean   float64 `json:"meanMs"`
	Median float64 `json:"medianMs"`
	P95    float64 `json:"p95Ms"`
	Max    float64 `json:"maxMs"`
}

type benchAllocationStats struct {
	Total          uint64  `json:"totalAllocations"`
	PerStep        float64 `json:"allocationsPerStep"`
	BytesTotal     uint64  `json:"bytesTotal"`
	BytesPerStep   float64 `json:"bytesPerStep"`
	MiBTotal       float64 `json:"miBTotal"`
	HeapAllocDelta int64   `json:"heapAllocDeltaBytes"`
}

type benchEffectStats struct {
	Total        int     `json:"total"`
	PerIteration float64 `json:"perIteration"`
	PerStep      float64 `json:"perStep"`
}

type benchSummary struct {
	Fixture           string               `json:"fixture"`
	Iterations        int                  `json:"iterations"`
	StepsPerIteration int                  `json:"stepsPerIteration"`
	TotalSteps        int                  `json:"totalSteps"`
	WarmupIterations  int                  `json:"warmupIterations"`
	Effects           benchEffectStats     `json:"effects"`
	Latency           benchLatencyStats    `json:"latency"`
	IterationDuration benchLatencyStats    `json:"iterationDuration"`
	Allocations       benchAllocationStats `json:"allocations"`
	TotalDurationMs   float64              `json:"totalDurationMs"`
	StepsPerSecond    float64              `json:"stepsPerSecond"`
}

type benchReport struct {
	Summary     benchSummary `json:"summary"`
	DurationsMs []float64    `json:"durationsMs"`
}

func main() {
	fixturePath := flag.String("fixture", "", "path to replay fixture (JSON step sequence)")
	iterations := flag.Int("iterations", 100, "number of times to replay the fixture")
	warmup := flag.Int("warmup", 1, "number of warm-up iterations to run before timing")
	cpuProfile := flag.String("cpu-profile", "", "write CPU profile to file")
	memProfile := flag.String("mem-profile", "", "write heap profile to file")
	outputPath := flag.String("output", "-", "write JSON report to file ('-' for stdout)")
	humanSummary := flag.Bool("human", false, "print a tabular summary alongside the JSON output")
	flag.Parse()

	if *iterations <= 0 {
		fmt.Fprintln(os.Stderr, "iterations must be positive")
		os.Exit(1)
	}
	if *warmup < 0 {
		fmt.Fprintln(os.Stderr, "warmup must be zero or positive")
		os.Exit(1)
	}

	fixture := defaultFixture()
	if *fixturePath != "" {
		loaded, err := loadFixture(*fixturePath)
		if err != nil {
			exitErr(fmt.Errorf("load fixture: %w", err))
		}
		fixture = loaded
	}
	if len(fixture.Steps) == 0 {
		exitErr(errors.New("fixture contains no steps"))
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			exitErr(fmt.Errorf("create cpu profile: %w", err))
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			exitErr(fmt.Errorf("start cpu profile: %w", err))
		}
		defer pprof.StopCPUProfile()
	}

	for i := 0; i < *warmup; i++ {
		if _, _, _, err := replayIteration(fixture); err != nil {
			exitErr(fmt.Errorf("warmup iteration %d: %w", i+1, err))
		}
	}

	runtime.GC()
	var startMem runtime.MemStats
	runtime.ReadMemStats(&startMem)

	durations := make([]time.Duration, 0, len(fixture.Steps)*(*iterations))
	iterationDurations := make([]time.Duration, 0, *iterations)
	totalEffects := 0

	for i := 0; i < *iterations; i++ {
		iterDuration, effects, stepDurations, err := replayIteration(fixture)
		if err != nil {
			exitErr(fmt.Errorf("iteration %d: %w", i+1, err))
		}
		iterationDurations = append(iterationDurations, iterDuration)
		totalEffects += effects
		durations = append(durations, stepDurations...)
	}

	runtime.GC()
	var endMem runtime.MemStats
	runtime.ReadMemStats(&endMem)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			exitErr(fmt.Errorf("create mem profile: %w", err))
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			exitErr(fmt.Errorf("write heap profile: %w", err))
		}
	}

	report := buildReport(fixture, *iterations, *warmup, durations, iterationDurations, totalEffects, startMem, endMem)
	if err := writeReport(report, *outputPath); err != nil {
		exitErr(fmt.Errorf("encode report: %w", err))
	}
	if *humanSummary {
		if err := printHumanSummary(report.Summary, os.Stdout); err != nil {
			exitErr(fmt.Errorf("print human summary: %w", err))
		}
	}
}

// replayIteration runs the fixture's step sequence through the transition
// builder once, carrying the layout forward between steps the way the
// controller does.
func replayIteration(fixture benchFixture) (time.Duration, int, []time.Duration, error) {
	iterationStart := time.Now()
	screen := screens.DefaultStatic().List[0]

	spec := settings.Default().BuildSpec()
	st := layout.BuildState(spec)
	frame := geometry.Rect{Width: 960, Height: 540}.CenteredIn(screen.Visible)
	current := layout.BuildWindowGeometry(frame, screen.ID, st, 0)
	windowed := current
	var music layout.MusicModeGeometry
	aspect := 16.0 / 9.0

	stepDurations := make([]time.Duration, 0, len(fixture.Steps))
	effects := 0

	for idx, step := range fixture.Steps {
		mode, ok := layout.ParseWindowMode(step.Mode)
		if !ok {
			return 0, 0, nil, fmt.Errorf("step %d: unknown mode %q", idx+1, step.Mode)
		}
		if step.Aspect > 0 {
			aspect = step.Aspect
		}
		req := transition.Request{
			CurrentSpec:  spec,
			CurrentState: st,
			Current:      current,
			Windowed:     windowed,
			Music:        music,
			Target:       spec.WithMode(mode),
			Screen:       screen,
			VideoAspect:  aspect,
		}
		start := time.Now()
		tr := transition.Build(req)
		stepDurations = append(stepDurations, time.Since(start))

		for _, task := range tr.Tasks {
			effects += len(task.Effects)
		}
		spec = tr.OutputSpec
		st = tr.OutputState
		current = tr.OutputGeometry
		switch spec.Mode {
		case layout.ModeWindowed:
			windowed = current
		case layout.ModeMusic:
			music = tr.OutputMusic
		}
	}
	return time.Since(iterationStart), effects, stepDurations, nil
}

func buildReport(fixture benchFixture, iterations, warmup int, durations, iterationDurations []time.Duration, effects int, start, end runtime.MemStats) benchReport {
	totalSteps := len(fixture.Steps) * iterations
	latencyStats, totalDuration := buildLatencyStats(durations)
	iterationStats, _ := buildLatencyStats(iterationDurations)

	allocs := end.Mallocs - start.Mallocs
	bytesAllocated := end.TotalAlloc - start.TotalAlloc

	durationsMs := make([]float64, len(durations))
	for i, d := range durations {
		durationsMs[i] = toMillis(d)
	}

	summary := benchSummary{
		Fixture:           fixture.Name,
		Iterations:        iterations,
		WarmupIterations:  warmup,
		StepsPerIteration: len(fixture.Steps),
		TotalSteps:        totalSteps,
		Effects: benchEffectStats{
			Total:        effects,
			PerIteration: safeDivide(effects, iterations),
			PerStep:      safeDivide(effects, totalSteps),
		},
		Latency:           latencyStats,
		IterationDuration: iterationStats,
		Allocations: benchAllocationStats{
			Total:          allocs,
			PerStep:        safeDivideUint(allocs, totalSteps),
			BytesTotal:     bytesAllocated,
			BytesPerStep:   safeDivideUint(bytesAllocated, totalSteps),
			MiBTotal:       float64(bytesAllocated) / (1024 * 1024),
			HeapAllocDelta: int64(end.HeapAlloc) - int64(start.HeapAlloc),
		},
		TotalDurationMs: toMillis(totalDuration),
		StepsPerSecond:  stepsPerSecond(totalDuration, totalSteps),
	}
	return benchReport{Summary: summary, DurationsMs: durationsMs}
}

func buildLatencyStats(durations []time.Duration) (benchLatencyStats, time.Duration) {
	stats := benchLatencyStats{}
	if len(durations) == 0 {
		return stats, 0
	}
	total := time.Duration(0)
	for _, d := range durations {
		total += d
	}
	mean := total / time.Duration(len(durations))
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	stats.Min = toMillis(sorted[0])
	stats.Mean = toMillis(mean)
	stats.Median = toMillis(percentile(sorted, 0.50))
	stats.P95 = toMillis(percentile(sorted, 0.95))
	stats.Max = toMillis(sorted[len(sorted)-1])
	return stats, total
}

func safeDivide(total int, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func safeDivideUint(total uint64, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func writeReport(report benchReport, outputPath string) error {
	var (
		w   io.Writer
		out *os.File
		err error
	)
	switch strings.TrimSpace(outputPath) {
	case "", "-":
		w = os.Stdout
	default:
		dir := filepath.Dir(outputPath)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create report dir: %w", err)
			}
		}
		out, err = os.Create(outputPath)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func printHumanSummary(summary benchSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Fixture:\t%s\n", summary.Fixture)
	fmt.Fprintf(tw, "Iterations:\t%d\n", summary.Iterations)
	fmt.Fprintf(tw, "Warmup iterations:\t%d\n", summary.WarmupIterations)
	fmt.Fprintf(tw, "Steps/iteration:\t%d\n", summary.StepsPerIteration)
	fmt.Fprintf(tw, "Total steps:\t%d\n", summary.TotalSteps)
	fmt.Fprintf(tw, "Effects:\t%d (%.2f / iter, %.2f / step)\n", summary.Effects.Total, summary.Effects.PerIteration, summary.Effects.PerStep)
	latency := summary.Latency
	fmt.Fprintf(tw, "Build latency (ms):\tmin %.4f | mean %.4f | median %.4f | p95 %.4f | max %.4f\n", latency.Min, latency.Mean, latency.Median, latency.P95, latency.Max)
	iteration := summary.IterationDuration
	fmt.Fprintf(tw, "Iteration duration (ms):\tmin %.4f | mean %.4f | median %.4f | p95 %.4f | max %.4f\n", iteration.Min, iteration.Mean, iteration.Median, iteration.P95, iteration.Max)
	allocs := summary.Allocations
	fmt.Fprintf(tw, "Allocations:\t%d total (%.2f / step)\n", allocs.Total, allocs.PerStep)
	fmt.Fprintf(tw, "Bytes allocated:\t%d B (%.2f MiB)\n", allocs.BytesTotal, allocs.MiBTotal)
	fmt.Fprintf(tw, "Steps/sec:\t%.2f\n", summary.StepsPerSecond)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func stepsPerSecond(total time.Duration, steps int) float64 {
	if total <= 0 || steps == 0 {
		return 0
	}
	seconds := total.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(steps) / seconds
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(p*float64(len(sorted)-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func loadFixture(path string) (benchFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return benchFixture{}, err
	}
	var payload struct {
		Name  string      `json:"name"`
		Steps []benchStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return benchFixture{}, err
	}
	fixture := benchFixture{Name: payload.Name, Steps: payload.Steps}
	if fixture.Name == "" {
		fixture.Name = filepath.Base(path)
	}
	if len(fixture.Steps) == 0 {
		return benchFixture{}, errors.New("fixture contains no steps")
	}
	return fixture, nil
}

// defaultFixture cycles the three window modes with a few aspect changes
// mixed in, which covers every transition phase the builder can emit.
func defaultFixture() benchFixture {
	return benchFixture{
		Name: "synthetic-mode-cycle",
		Steps: []benchStep{
			{Mode: "windowed", Aspect: 16.0 / 9.0},
			{Mode: "fullscreen"},
			{Mode: "windowed"},
			{Mode: "music"},
			{Mode: "windowed", Aspect: 4.0 / 3.0},
			{Mode: "fullscreen"},
			{Mode: "music"},
			{Mode: "windowed", Aspect: 2.35},
		},
	}
}

func exitErr(err error) {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		fmt.Fprintf(os.Stderr, "error: %v\n", pathErr)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
