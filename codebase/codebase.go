// Package codebase keeps the Java sources of a directory tree in memory
// and extracts the mapper declarations they contain.
package codebase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/damap/cache"
	"github.com/dhamidi/damap/config"
	"github.com/dhamidi/damap/extract"
	"github.com/dhamidi/damap/model"
	"github.com/dhamidi/damap/syntax/treesitter"
)

var log = commonlog.GetLogger("damap.codebase")

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	rules   extract.Rules
	files   map[string]*FileInfo

	store     *cache.Cache
	workers   int
	all       bool
	encodings []string
	exclude   func(dir string) bool
	progress  Progress
}

// FileInfo is what is known about one source file. Results is nil until
// the file went through an extraction.
type FileInfo struct {
	Path         string
	Content      []byte
	Hash         string
	Types        []string
	SyntaxErrors []treesitter.SyntaxError
	Results      []Result
}

// Result is the outcome of extracting one declaration.
type Result struct {
	Path        string
	Name        string
	Span        treesitter.Span
	Declaration model.Declaration
	Err         error
}

func (r Result) OK() bool { return r.Err == nil }

// Progress is told how far a scan or an extraction got.
type Progress interface {
	Start(total int, description string)
	Advance()
	Finish()
}

type Option func(*Codebase)

func WithCache(c *cache.Cache) Option {
	return func(cb *Codebase) { cb.store = c }
}

// WithWorkers bounds the files processed at once. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(cb *Codebase) { cb.workers = n }
}

// WithAll extracts every class and enum instead of only annotated mappers.
func WithAll(all bool) Option {
	return func(cb *Codebase) { cb.all = all }
}

// WithEncodings sets the encodings tried for sources that are not UTF-8.
func WithEncodings(names ...string) Option {
	return func(cb *Codebase) { cb.encodings = names }
}

func WithExclude(fn func(dir string) bool) Option {
	return func(cb *Codebase) { cb.exclude = fn }
}

func WithProgress(p Progress) Option {
	return func(cb *Codebase) { cb.progress = p }
}

func New(rootDir string, rules extract.Rules, opts ...Option) *Codebase {
	c := &Codebase{
		rootDir: rootDir,
		rules:   rules,
		files:   make(map[string]*FileInfo),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds a codebase with the rules, workers, exclusions and
// encodings of cfg.
func FromConfig(rootDir string, cfg *config.Config, opts ...Option) (*Codebase, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithWorkers(cfg.Extract.Workers),
		WithAll(cfg.Extract.All),
		WithEncodings(cfg.Source.Encodings...),
		WithExclude(cfg.ShouldExclude),
	}
	return New(rootDir, rules, append(base, opts...)...), nil
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Rules() extract.Rules {
	return c.rules
}

func (c *Codebase) limit() int {
	if c.workers > 0 {
		return c.workers
	}
	return runtime.NumCPU()
}

// Sources lists the .java files under the root directory, skipping hidden
// and excluded directories. A root that is a file is returned as is.
func (c *Codebase) Sources() ([]string, error) {
	info, err := os.Stat(c.rootDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{c.rootDir}, nil
	}

	var paths []string
	err = filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != c.rootDir && (strings.HasPrefix(info.Name(), ".") || (c.exclude != nil && c.exclude(path))) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// ScanAll reads every source below the root directory. Files that cannot
// be read are logged and skipped.
func (c *Codebase) ScanAll(ctx context.Context) error {
	paths, err := c.Sources()
	if err != nil {
		return fmt.Errorf("failed to list sources in %s: %w", c.rootDir, err)
	}

	c.startProgress(len(paths), "scanning")
	defer c.finishProgress()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit())
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.ScanFile(path); err != nil {
				log.Warningf("skipping %s: %s", path, err)
			}
			c.advanceProgress()
			return nil
		})
	}
	return g.Wait()
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return &treesitter.ReadError{Path: path, Err: err}
	}
	return c.UpdateFile(path, content)
}

// UpdateFile replaces the content of path and indexes the types it
// declares.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	content, err := decode(content, c.encodings)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	f, err := treesitter.ParseNamed(context.Background(), path, content)
	if err != nil {
		return err
	}
	defer f.Close()

	info := &FileInfo{
		Path:         path,
		Content:      content,
		Hash:         cache.Hash(content),
		SyntaxErrors: f.Errors(),
	}
	for _, decl := range f.Declarations() {
		info.Types = append(info.Types, qualifiedName(decl))
	}
	if len(info.SyntaxErrors) > 0 {
		log.Debugf("%s has %d syntax errors", path, len(info.SyntaxErrors))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	delete(c.files, path)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.DeleteFileEntry(path); err != nil {
			log.Warningf("%s", err)
		}
	}
}

// GetFile returns a copy of what is known about path, nil for unknown
// files.
func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f := c.files[path]
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

// Files returns the known paths in lexical order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// KnownTypes returns the qualified names of every declared type.
func (c *Codebase) KnownTypes() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	known := make(map[string]bool)
	for _, f := range c.files {
		for _, name := range f.Types {
			known[name] = true
		}
	}
	return known
}

// Results returns the results of the last extraction of every file, in
// path order.
func (c *Codebase) Results() []Result {
	paths := c.Files()
	c.mu.RLock()
	defer c.mu.RUnlock()
	var results []Result
	for _, path := range paths {
		if f := c.files[path]; f != nil {
			results = append(results, f.Results...)
		}
	}
	return results
}

// ExtractAll extracts the declarations of every known file, a bounded
// number of files at a time. Failures of single declarations are part of
// the results; the error is only set when ctx is done.
func (c *Codebase) ExtractAll(ctx context.Context) ([]Result, error) {
	paths := c.Files()
	pass := c.newRun()

	c.startProgress(len(paths), "extracting")
	defer c.finishProgress()

	perFile := make([][]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results, err := c.extractFile(ctx, pass, path)
			if err != nil {
				return err
			}
			perFile[i] = results
			c.advanceProgress()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []Result
	for _, rs := range perFile {
		results = append(results, rs...)
	}
	log.Infof("extracted %d declarations from %d files (%d cached)", len(results), len(paths), pass.hits.Load())
	return results, nil
}

// ExtractFile extracts the declarations of one known file.
func (c *Codebase) ExtractFile(ctx context.Context, path string) ([]Result, error) {
	return c.extractFile(ctx, c.newRun(), path)
}

func (c *Codebase) extractFile(ctx context.Context, pass *run, path string) ([]Result, error) {
	info := c.GetFile(path)
	if info == nil {
		return nil, fmt.Errorf("unknown file %s", path)
	}

	f, err := treesitter.ParseNamed(ctx, path, info.Content)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var candidates []*treesitter.Class
	for _, decl := range f.Declarations() {
		if c.isCandidate(decl) {
			candidates = append(candidates, decl)
		}
	}

	results := make([]Result, len(candidates))
	for i, decl := range candidates {
		results[i] = Result{Path: path, Name: qualifiedName(decl), Span: decl.NameSpan()}
	}

	if decls, ok := pass.lookup(info.Hash, len(candidates)); ok {
		for i := range results {
			results[i].Declaration = decls[i]
		}
	} else {
		var extracted []model.Declaration
		for i, decl := range candidates {
			d, err := pass.extractor.Extract(decl)
			results[i].Declaration, results[i].Err = d, err
			if err == nil {
				extracted = append(extracted, d)
			}
		}
		if len(extracted) == len(candidates) {
			pass.save(path, info.Hash, extracted)
		}
	}

	c.mu.Lock()
	if cur := c.files[path]; cur != nil && cur.Hash == info.Hash {
		cur.Results = results
	}
	c.mu.Unlock()
	return results, nil
}

func (c *Codebase) isCandidate(decl *treesitter.Class) bool {
	if c.all {
		return !decl.IsInterface() && !decl.IsAnnotationType()
	}
	return extract.HasMapperAnnotation(decl, c.rules.MapperAnnotation)
}

func (c *Codebase) startProgress(total int, description string) {
	if c.progress != nil {
		c.progress.Start(total, description)
	}
}

func (c *Codebase) advanceProgress() {
	if c.progress != nil {
		c.progress.Advance()
	}
}

func (c *Codebase) finishProgress() {
	if c.progress != nil {
		c.progress.Finish()
	}
}

// qualifiedName joins the package and the enclosing classes of decl.
func qualifiedName(decl *treesitter.Class) string {
	parts := []string{decl.Name()}
	for outer := decl.Outer(); outer != nil; outer = outer.Outer() {
		parts = append([]string{outer.Name()}, parts...)
	}
	if pkg := decl.PackageName(); pkg != "" {
		parts = append([]string{pkg}, parts...)
	}
	return strings.Join(parts, ".")
}
