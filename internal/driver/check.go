package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"nixkit/internal/assist"
	"nixkit/internal/diag"
	"nixkit/internal/observ"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
	"nixkit/internal/token"
	"nixkit/internal/trace"
)

type CheckOptions struct {
	Options
	Jobs     int            // <= 0 - GOMAXPROCS
	Engine   *assist.Engine // nil - стандартный каталог
	Progress ProgressSink   // nil - без событий
}

// Offer is an assist available with the cursor at At.
type Offer struct {
	At     source.Span
	Assist assist.Assist
}

// FileReport is the outcome for one file; Snapshot is nil when the file could not be read.
type FileReport struct {
	Path     string
	Snapshot *Snapshot
	Offers   []Offer
	LoadErr  *diag.Diagnostic
}

type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileReport
}

// Offered counts offers across all files.
func (r *CheckResult) Offered() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Offers)
	}
	return n
}

// ListNixFiles returns every *.nix file under dir in sorted order, skipping
// dot-directories. CheckDir reports files in the same order.
func ListNixFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".nix") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir analyzes every *.nix file under dir concurrently and lists the
// assists offered at each anchor position (see Offers).
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*CheckResult, error) {
	files, err := ListNixFiles(dir)
	if err != nil {
		return nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	res := &CheckResult{FileSet: fileSet, Files: make([]FileReport, len(files))}
	if len(files) == 0 {
		return res, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer func() {
		span.WithExtra("files", strconv.Itoa(len(files))).
			WithExtra("offers", strconv.Itoa(res.Offered())).End("")
	}()

	// FileSet не потокобезопасен на запись: грузим всё заранее
	ids := make([]source.FileID, len(files))
	for _, path := range files {
		emit(opts.Progress, ProgressEvent{File: path, Stage: StageLoad, Status: StatusQueued})
	}
	for i, path := range files {
		res.Files[i].Path = path
		id, err := fileSet.Load(path)
		if err != nil {
			d := diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error())
			res.Files[i].LoadErr = &d
			emit(opts.Progress, ProgressEvent{File: path, Stage: StageLoad, Status: StatusError})
			trace.Mark(ctx, trace.ScopeFile, "load-error", path)
			continue
		}
		ids[i] = id
	}

	engine := opts.Engine
	if engine == nil {
		engine = assist.NewEngine(assist.DefaultProviders()...)
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		if res.Files[i].LoadErr != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileOpts := opts.Options
			if opts.Timer != nil {
				fileOpts.Timer = observ.NewTimer()
				defer opts.Timer.Merge(fileOpts.Timer)
			}
			path := files[i]
			emit(opts.Progress, ProgressEvent{File: path, Stage: StageAnalyze, Status: StatusWorking})
			// индекс i уникален для горутины, мьютекс не нужен
			snap := Analyze(gctx, fileSet, ids[i], fileOpts)
			res.Files[i].Snapshot = snap
			emit(opts.Progress, ProgressEvent{File: path, Stage: StageAssists, Status: StatusWorking})
			res.Files[i].Offers = Offers(gctx, snap, engine)
			emit(opts.Progress, ProgressEvent{File: path, Stage: StageAssists, Status: StatusDone, Offers: len(res.Files[i].Offers)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("check %s: %w", dir, err)
	}
	return res, nil
}

// Offers resolves assists with the cursor on every anchor the catalog reacts
// to (`rec`, `with`, `let` and the head of each let binding) and keeps each
// distinct assist once, ordered by position.
func Offers(ctx context.Context, snap *Snapshot, engine *assist.Engine) []Offer {
	tree := snap.Tree
	var anchors []uint32
	for i := 1; i <= tree.NumTokens(); i++ {
		tok := tree.Token(syntax.TokenID(i))
		switch tok.Kind() {
		case token.KwRec, token.KwWith, token.KwLet:
			anchors = append(anchors, tok.Span().Start)
		}
	}
	for i := 1; i <= tree.NumNodes(); i++ {
		n := tree.Node(syntax.NodeID(i))
		if n.Kind() != syntax.NodeAttrpathValue {
			continue
		}
		if p, ok := n.Parent(); ok && p.Kind() == syntax.NodeLetIn {
			anchors = append(anchors, n.Span().Start)
		}
	}
	slices.Sort(anchors)
	anchors = slices.Compact(anchors)

	var out []Offer
	seen := make(map[string]bool)
	for _, off := range anchors {
		at := source.Span{File: snap.File.ID, Start: off, End: off}
		for _, a := range snap.Assists(ctx, engine, at) {
			key := offerKey(a)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Offer{At: at, Assist: a})
		}
	}
	return out
}

func offerKey(a assist.Assist) string {
	var sb strings.Builder
	sb.WriteString(a.ID)
	for _, e := range a.Edits {
		fmt.Fprintf(&sb, "|%d:%d:%s", e.Delete.Start, e.Delete.End, e.Insert)
	}
	return sb.String()
}
