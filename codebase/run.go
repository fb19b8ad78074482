package codebase

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/dhamidi/damap/cache"
	"github.com/dhamidi/damap/extract"
	"github.com/dhamidi/damap/model"
)

// run holds what one extraction pass shares between its files.
type run struct {
	extractor *extract.Extractor
	store     *cache.Cache
	variant   string
	hits      atomic.Int64
}

func (c *Codebase) newRun() *run {
	known := c.KnownTypes()
	return &run{
		extractor: extract.New(c.rules, extract.WithKnownTypes(func(name string) bool {
			return known[name]
		})),
		store:   c.store,
		variant: variant(c.rules, c.all, known),
	}
}

// variant identifies everything besides the content of a file that the
// extraction of the file depends on.
func variant(rules extract.Rules, all bool, known map[string]bool) string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%+v|%+v|%t\n", rules.MapperAnnotation, rules.MappingInterface, rules.FunctionalInterfaces, all)
	b.WriteString(strings.Join(names, "\n"))
	return cache.Hash([]byte(b.String()))
}

func (r *run) lookup(hash string, want int) ([]model.Declaration, bool) {
	if r.store == nil {
		return nil, false
	}
	decls, ok, err := r.store.Lookup(hash, r.variant)
	if err != nil {
		log.Warningf("cache lookup failed: %s", err)
		return nil, false
	}
	if !ok || len(decls) != want {
		return nil, false
	}
	r.hits.Add(1)
	return decls, true
}

func (r *run) save(path, hash string, decls []model.Declaration) {
	if r.store == nil {
		return
	}
	if err := r.store.Store(hash, r.variant, decls); err != nil {
		log.Warningf("cache store failed: %s", err)
		return
	}
	if err := r.store.SetFileScanned(path, hash); err != nil {
		log.Warningf("%s", err)
	}
}
