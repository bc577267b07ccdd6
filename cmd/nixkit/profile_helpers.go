package main

import (
	"fmt"

	"nixkit/internal/prof"
)

// setupProfiling starts the profilers named by the persistent flags and
// chains their shutdown into the session cleanup.
func (s *session) setupProfiling() error {
	root := s.cmd.Root().PersistentFlags()

	var p prof.Profiles
	var err error
	if p.CPU, err = root.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if p.Mem, err = root.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if p.Runtime, err = root.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if p.Empty() {
		return nil
	}

	ps, err := prof.Start(p)
	if err != nil {
		return err
	}
	next := s.cleanup
	s.cleanup = func() {
		if err := ps.Stop(); err != nil {
			fmt.Fprintf(s.cmd.ErrOrStderr(), "profile: %v\n", err)
		}
		next()
	}
	return nil
}
