package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"keelc/internal/trace"
)

var (
	activeTracerMu sync.Mutex
	activeTracer   trace.Tracer
)

// setupTracing inspects trace-related flags (falling back to the [trace]
// section of the manifest) and attaches a tracer to the command context.
// It returns a cleanup function that flushes and closes the tracer.
func setupTracing(cmd *cobra.Command, manifest *projectManifest) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	if manifest != nil {
		if !flags.Changed("trace-level") && manifest.Config.Trace.Level != "" {
			levelStr = manifest.Config.Trace.Level
		}
		if !flags.Changed("trace") && manifest.Config.Trace.Output != "" {
			traceOutput = manifest.Config.Trace.Output
		}
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(ctx, trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cmd.SetContext(trace.WithTracer(ctx, tracer))
	setActiveTracer(tracer)

	cleanup := func() {
		setActiveTracer(nil)
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func setActiveTracer(t trace.Tracer) {
	activeTracerMu.Lock()
	activeTracer = t
	activeTracerMu.Unlock()
}

// dumpTraceOnPanic writes the ring buffer of the active tracer to stderr
// when the command panics, then re-panics.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	activeTracerMu.Lock()
	ring := trace.RingOf(activeTracer)
	activeTracerMu.Unlock()
	if ring != nil {
		fmt.Fprintln(os.Stderr, "== trace (most recent events) ==")
		if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
			fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
		}
		if open := ring.OpenSpans(); len(open) > 0 {
			fmt.Fprintln(os.Stderr, "== open spans ==")
			for i := range open {
				fmt.Fprintf(os.Stderr, "%s", trace.FormatEvent(&open[i], trace.FormatText))
			}
		}
	}
	panic(r)
}
