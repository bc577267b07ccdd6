package main

import (
	"fmt"

	"nixkit/internal/trace"
)

// setupTracing builds the tracer from --trace* flags, falling back to
// [trace].level of nixkit.toml, and attaches it to the command context.
func (s *session) setupTracing() error {
	root := s.cmd.Root().PersistentFlags()

	traceOutput, err := root.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := root.GetInt("trace-ring")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring flag: %w", err)
	}

	level := s.cfg.TraceLevel()
	if root.Changed("trace-level") {
		if level, err = trace.ParseLevel(levelStr); err != nil {
			return fmt.Errorf("invalid trace level: %w", err)
		}
	}
	// явный --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" && !root.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		s.cmd.SetContext(trace.WithTracer(s.cmd.Context(), trace.Nop))
		return nil
	}

	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	cfg := trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	}
	if traceOutput == "" || traceOutput == "-" {
		cfg.Output = s.cmd.ErrOrStderr()
	}
	tracer, ring, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	s.ring = ring
	s.cmd.SetContext(trace.WithTracer(s.cmd.Context(), tracer))

	s.cleanup = func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(s.cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(s.cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return nil
}

// dumpRing writes the buffered trace tail to stderr.
func (s *session) dumpRing(reason string) {
	if s.ring == nil {
		return
	}
	w := s.cmd.ErrOrStderr()
	fmt.Fprintf(w, "trace tail (%s):\n", reason)
	if err := s.ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
