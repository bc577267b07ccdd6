package driver

import (
	"context"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"nixkit/internal/assist"
	"nixkit/internal/diag"
	"nixkit/internal/liveness"
	"nixkit/internal/observ"
	"nixkit/internal/parser"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
	"nixkit/internal/trace"
)

type Options struct {
	MaxDiagnostics     int
	SkipUnusedBindings bool
	Cache              *DiskCache    // nil - liveness считается всегда
	Timer              *observ.Timer // nil - без замеров
}

// Snapshot is the analysis of one file revision: the tree and every
// diagnostic computed from that same text.
type Snapshot struct {
	FileSet   *source.FileSet
	File      *source.File
	Tree      *syntax.Tree
	Bag       *diag.Bag
	FromCache bool

	found []diag.Diagnostic // все находки liveness, без лимита Bag
	timer *observ.Timer
}

// Analyze lexes, parses and runs the liveness check over one file of fs.
// Lexer, parser and liveness findings end up in one sorted bag.
func Analyze(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *Snapshot {
	file := fs.Get(id)
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	defer span.End("")

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	snap := &Snapshot{FileSet: fs, File: file, Bag: bag, timer: opts.Timer}

	_, ps := trace.Start(ctx, trace.ScopePass, "parse")
	stopParse := opts.Timer.Begin(observ.PhaseParse)
	reporter := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})
	res := parser.ParseFile(file, parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	})
	snap.Tree = res.Tree
	stopParse(fmt.Sprintf("%d tokens", res.Tree.NumTokens()))
	ps.WithExtra("tokens", strconv.Itoa(res.Tree.NumTokens())).
		WithExtra("duplicates", strconv.Itoa(reporter.Suppressed())).End("")

	_, ls := trace.Start(ctx, trace.ScopePass, "liveness")
	stopLiveness := opts.Timer.Begin(observ.PhaseLiveness)
	found, cached := livenessFor(snap, opts)
	snap.FromCache = cached
	snap.found = found
	for _, d := range found {
		if !bag.Add(d) {
			break
		}
	}
	note := ""
	if cached {
		note = "cached"
	}
	stopLiveness(note)
	ls.WithExtra("diagnostics", strconv.Itoa(len(found))).End(note)

	bag.Sort()
	return snap
}

func livenessFor(snap *Snapshot, opts Options) ([]diag.Diagnostic, bool) {
	key := CacheKey(snap.File.Hash, opts.SkipUnusedBindings)
	var payload CachePayload
	if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
		if found, ok := payload.Diagnostics(snap.File.ID); ok {
			return found, true
		}
	}
	found := liveness.Check(snap.Tree, liveness.Options{SkipUnusedBindings: opts.SkipUnusedBindings})
	// промах кэша не должен ломать анализ
	_ = opts.Cache.Put(key, NewCachePayload(snap.File.Path, found)) //nolint:errcheck
	return found, false
}

// DiagnosticsFor makes a Snapshot the diagnostic source of assist resolution.
// It serves every liveness finding: the MaxDiagnostics cap only limits Bag,
// which is what gets printed.
func (s *Snapshot) DiagnosticsFor(file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(s.found))
	for _, d := range s.found {
		if d.Primary.File == file {
			out = append(out, d)
		}
	}
	return out
}

// Request builds an assist request for the byte range [start, end).
func (s *Snapshot) Request(start, end uint32) assist.Request {
	return assist.Request{
		File:  s.File.ID,
		Range: source.Span{File: s.File.ID, Start: start, End: end},
	}
}

// Assists resolves rng against this snapshot. A nil engine runs the default catalog.
func (s *Snapshot) Assists(ctx context.Context, engine *assist.Engine, rng source.Span) []assist.Assist {
	if engine == nil {
		engine = assist.NewEngine(assist.DefaultProviders()...)
	}
	stop := s.timer.Begin(observ.PhaseAssists)
	out := engine.Resolve(ctx, assist.Request{File: rng.File, Range: rng}, s.Tree, s)
	stop(strconv.Itoa(len(out)) + " offered")
	return out
}
