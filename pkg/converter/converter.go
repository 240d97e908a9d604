// Package converter runs a whole project: it reads every source file,
// converts it and writes the generated C# next to the runtime support files.
package converter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"c2cs/pkg/cache"
	"c2cs/pkg/cfront"
	"c2cs/pkg/convert"
	"c2cs/pkg/csruntime"
	"c2cs/pkg/project"
	"c2cs/pkg/utils"
	"c2cs/pkg/vfs"
	"c2cs/pkg/writer"
)

// Version is the generator version. It also gates cache reuse.
const Version = "0.5.0"

// Status is the outcome of one source file.
type Status int

const (
	Converted Status = iota
	Cached
	Failed
	Missing
)

func (s Status) String() string {
	switch s {
	case Converted:
		return "converted"
	case Cached:
		return "cached"
	case Failed:
		return "failed"
	case Missing:
		return "missing"
	}
	return "unknown"
}

// FileResult describes one source file.
type FileResult struct {
	Source       string
	Output       string
	Status       Status
	Err          error
	Declarations int
	Duration     time.Duration
}

// Result describes a project run.
type Result struct {
	Project         string
	OutputDirectory string
	Files           []FileResult
	Duration        time.Duration
}

// Count returns how many files ended with status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// OK reports whether every file was converted or served from the cache.
func (r *Result) OK() bool {
	return r.Count(Failed) == 0 && r.Count(Missing) == 0
}

// Options configure a run. Zero values pick the defaults.
type Options struct {
	Sink   vfs.Sink           // defaults to the host file system
	Logger *zap.SugaredLogger // defaults to a no-op logger
	Clock  func() time.Time   // defaults to time.Now
	Cache  *cache.Cache       // nil disables caching
	Jobs   int                // overrides the project setting when > 0
}

func (o *Options) defaults() {
	if o.Sink == nil {
		o.Sink = vfs.DiskSink{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Convert converts every source file of p. A file that is missing or fails
// to parse is recorded in the result and the run goes on; the returned error
// is reserved for project-level failures and cancellation.
func Convert(ctx context.Context, p *project.Project, opts Options) (*Result, error) {
	opts.defaults()
	log := opts.Logger
	start := opts.Clock()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	log.Infof("Starting project %s", p.ProjectName)

	outDir := p.ResolveOutputDirectory()
	if err := opts.Sink.MkdirAll(outDir); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}

	sources := p.Sources()
	if len(sources) == 0 {
		log.Error("No source files present.")
		return nil, project.ErrNoSources
	}

	res := &Result{
		Project:         p.ProjectName,
		OutputDirectory: outDir,
		Files:           make([]FileResult, len(sources)),
	}

	jobs := p.Workers()
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}

	fc := &fileConverter{project: p, opts: opts, outDir: outDir}
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, src := range sources {
		if ctx.Err() != nil {
			res.Files[i] = FileResult{Source: src, Status: Failed, Err: ctx.Err()}
			continue
		}
		i, src := i, src
		g.Go(func() error {
			res.Files[i] = fc.convert(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	log.Info("Copying runtime")
	if err := opts.Sink.WriteFile(filepath.Join(outDir, csruntime.RuntimeFile), csruntime.Runtime()); err != nil {
		return res, errors.Wrap(err, "copying runtime")
	}
	csproj := filepath.Join(outDir, csruntime.ProjectFileName(p.ProjectName))
	if err := opts.Sink.WriteFile(csproj, csruntime.ProjectFile(p.ProjectName)); err != nil {
		return res, errors.Wrap(err, "copying runtime")
	}
	log.Info("Runtime copied.")

	res.Duration = opts.Clock().Sub(start)
	log.Infof("Done in %dms!", res.Duration.Milliseconds())
	return res, nil
}

type fileConverter struct {
	project *project.Project
	opts    Options
	outDir  string

	// sinkMu serialises writes; a MemorySink is safe but a custom sink may not be.
	sinkMu sync.Mutex
}

func (fc *fileConverter) write(path string, data []byte) error {
	fc.sinkMu.Lock()
	defer fc.sinkMu.Unlock()
	return fc.opts.Sink.WriteFile(path, data)
}

func (fc *fileConverter) convert(ctx context.Context, src string) (res FileResult) {
	start := fc.opts.Clock()
	res = FileResult{Source: src, Output: utils.OutputPath(fc.outDir, src, ".cs")}
	defer func() { res.Duration = fc.opts.Clock().Sub(start) }()

	if err := ctx.Err(); err != nil {
		res.Status, res.Err = Failed, err
		return res
	}

	log := fc.opts.Logger
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Errorf("File %s not found.", src)
			res.Status, res.Err = Missing, errors.Wrapf(err, "reading %s", src)
		} else {
			log.Errorf("Reading %s failed: %v", src, err)
			res.Status, res.Err = Failed, errors.Wrapf(err, "reading %s", src)
		}
		return res
	}

	log.Infof("Converting file %s", src)
	out, status, err := fc.generate(src, string(data))
	if err != nil {
		log.Errorf("Code generation failed, compilation wasn't successful: %v", err)
		res.Err = err
	}
	res.Status = status
	if out != nil {
		res.Declarations = out.Len()
	}

	// A failed file still gets its header and an empty class.
	var buf bytes.Buffer
	h := writer.Header{Source: src, Time: fc.opts.Clock(), Namespace: fc.project.ProjectName}
	if err := writer.Write(&buf, log, h, out); err != nil {
		res.Status, res.Err = Failed, err
		return res
	}
	if err := fc.write(res.Output, buf.Bytes()); err != nil {
		log.Errorf("Writing %s failed: %v", res.Output, err)
		res.Status, res.Err = Failed, err
	}
	return res
}

// generate runs the frontend and the conversion, consulting the cache when
// no AST dump is wanted.
func (fc *fileConverter) generate(src, text string) (*convert.Output, Status, error) {
	log := fc.opts.Logger
	p := fc.project

	pre, includes, err := cfront.Preprocess(text, filepath.Dir(src), cfront.PreprocessOptions{
		Defines:     p.Defines,
		IncludeDirs: p.Includes(),
	})
	if err != nil {
		return nil, Failed, errors.Wrapf(err, "preprocessing %s", src)
	}

	key := cache.NewKey(pre, p.ProjectName)
	if !p.DumpAST {
		out, ok, err := fc.opts.Cache.Get(key)
		if err != nil {
			log.Warnf("Ignoring cache entry for %s: %v", src, err)
		}
		if ok {
			log.Infof("Using cached conversion of %s", src)
			return out, Cached, nil
		}
	}

	file, err := cfront.ParsePreprocessed(src, pre, includes)
	if err != nil {
		return nil, Failed, err
	}

	if p.DumpAST {
		var buf bytes.Buffer
		if err := cfront.Dump(&buf, file); err != nil {
			return nil, Failed, errors.Wrap(err, "dumping AST")
		}
		if err := fc.write(utils.OutputPath(fc.outDir, src, ".ast.txt"), buf.Bytes()); err != nil {
			return nil, Failed, err
		}
	}

	out := convert.Generate(log, file)
	if err := fc.opts.Cache.Put(key, src, out); err != nil {
		log.Warnf("Caching %s failed: %v", src, err)
	}
	return out, Converted, nil
}
