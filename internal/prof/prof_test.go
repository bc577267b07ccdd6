package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartStop(t *testing.T) {
	dir := t.TempDir()
	p := Profiles{
		CPU:     filepath.Join(dir, "cpu.pprof"),
		Mem:     filepath.Join(dir, "mem.pprof"),
		Runtime: filepath.Join(dir, "rt.trace"),
	}
	s, err := Start(p)
	if err != nil {
		t.Fatal(err)
	}
	sink := 0
	for i := range 100000 {
		sink += i % 7
	}
	_ = sink
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop = %v", err)
	}
	for _, path := range []string{p.CPU, p.Mem, p.Runtime} {
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s: %v, %v", filepath.Base(path), info, err)
		}
	}
}

func TestStartFailureStopsCPU(t *testing.T) {
	dir := t.TempDir()
	_, err := Start(Profiles{
		CPU:     filepath.Join(dir, "cpu.pprof"),
		Runtime: filepath.Join(dir, "missing", "rt.trace"),
	})
	if err == nil {
		t.Fatal("Start succeeded with an unwritable trace path")
	}
	// профиль CPU должен быть остановлен, иначе второй запуск упадёт
	s, err := Start(Profiles{CPU: filepath.Join(dir, "again.pprof")})
	if err != nil {
		t.Fatalf("CPU profiler left running: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestEmpty(t *testing.T) {
	if !(Profiles{}).Empty() || (Profiles{Mem: "m"}).Empty() {
		t.Fatal("Empty mismatch")
	}
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}
