// Package wyc is the facade external collaborators (an editor integration,
// the wycc/wyrepl CLIs) call into: spec.md §1 keeps the editor server, the
// formatter, and the build driver outside the compiler core, reaching it
// only through diagnose/format/symbols. This file and pipeline.go are that
// seam, grounded on the teacher's bundle.go (a Bundle collects template
// files, watches them, and compiles the set into a template.Registry) and
// soy.go (Tofu aggregates a compiled set for later rendering).
package wyc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	u "github.com/araddon/gou"

	"github.com/fsnotify/fsnotify"

	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/parser"
	"github.com/whylang/wyc/registry"
	"github.com/whylang/wyc/token"
)

type sourceFile struct{ name, content string }

// Bundle collects ".why" source files and compiles them into a
// registry.Registry in one pass, the "why" analogue of bundle.go's Bundle:
// AddFile/AddDir chain the way AddTemplateFile/AddTemplateDir do, and
// WatchDir re-runs Compile on change the way WatchFiles drove the soy
// hot-reload path.
type Bundle struct {
	files   []sourceFile
	err     error
	watcher *fsnotify.Watcher
	cache   *lru.Cache[string, *compiled]

	mu        sync.Mutex
	latest    *registry.Registry
	watchOnce sync.Once
}

type compiled struct {
	prog   *ast.Program
	diags  []diag.Diagnostic
	source string
}

// NewBundle returns an empty Bundle with a small compiled-unit cache, so
// re-diagnosing an unchanged file during a watch session is O(1) rather than
// re-running the whole pipeline.
func NewBundle() *Bundle {
	cache, _ := lru.New[string, *compiled](256)
	return &Bundle{cache: cache}
}

// WatchDir(true) creates a filesystem watcher, so that every file added
// afterwards through AddFile or AddDir is watched for changes; it chains the
// way bundle.go's WatchFiles does ("It should be called once, before adding
// any files.").
func (b *Bundle) WatchDir(watch bool) *Bundle {
	if watch && b.err == nil && b.watcher == nil {
		b.watcher, b.err = fsnotify.NewWatcher()
	}
	return b
}

// AddDir adds every ".why" file found under root, recursively.
func (b *Bundle) AddDir(root string) *Bundle {
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".why") {
			return nil
		}
		b.AddFile(path)
		return nil
	})
	if err != nil {
		b.err = err
	}
	return b
}

// AddFile adds one ".why" source file's content to the bundle, watching it
// for changes if WatchDir(true) was called first.
func (b *Bundle) AddFile(path string) *Bundle {
	content, err := os.ReadFile(path)
	if err != nil {
		b.err = err
		return b
	}
	if b.watcher != nil {
		if err := b.watcher.Add(path); err != nil {
			b.err = err
		}
	}
	return b.AddSource(path, string(content))
}

// AddSource adds in-memory source text under name, for editor buffers that
// haven't been saved to disk.
func (b *Bundle) AddSource(name, text string) *Bundle {
	b.files = append(b.files, sourceFile{name, text})
	return b
}

// Compile parses every added file into a registry.Registry and checks each
// unit's diagnostics, mirroring bundle.go's Compile (parse every file, then
// run the cross-unit verification pass — CheckDataRefs there, the full
// checker here since "why" has no separate globals step).
func (b *Bundle) Compile() (*registry.Registry, map[string][]diag.Diagnostic, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	reg := registry.New()
	diags := make(map[string][]diag.Diagnostic, len(b.files))

	for _, f := range b.files {
		if entry, ok := b.cache.Get(f.name); ok && entry.source == f.content {
			if err := reg.Add(token.NewSource(f.name), entry.prog); err != nil {
				return nil, nil, err
			}
			diags[f.name] = entry.diags
			continue
		}

		src := token.NewSource(f.name)
		prog, perrs := parser.Parse(src, f.content)
		if prog == nil {
			return nil, nil, fmt.Errorf("wyc: %s: failed to parse: %v", f.name, perrs)
		}
		if err := reg.Add(src, prog); err != nil {
			return nil, nil, err
		}

		fileDiags, _, _ := DiagnoseTree(f.name, f.content)
		diags[f.name] = fileDiags
		b.cache.Add(f.name, &compiled{prog: prog, diags: fileDiags, source: f.content})
	}

	b.mu.Lock()
	b.latest = reg
	b.mu.Unlock()

	if b.watcher != nil {
		b.watchOnce.Do(func() { go b.recompile() })
	}
	return reg, diags, nil
}

// Latest returns the registry produced by the most recent Compile, kept
// current by the watcher goroutine when WatchDir(true) is active.
func (b *Bundle) Latest() *registry.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// recompile drains file-change events and re-runs Compile, logging through
// github.com/araddon/gou the way bundle.go's recompiler logs through its
// package-level Logger — aimed at a development aid, not a production
// reload path, so a failed rebuild is reported and otherwise ignored.
func (b *Bundle) recompile() {
	for {
		select {
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			b.cache.Remove(ev.Name)
			if content, err := os.ReadFile(ev.Name); err == nil {
				for i := range b.files {
					if b.files[i].name == ev.Name {
						b.files[i].content = string(content)
					}
				}
			}
			if _, _, err := b.Compile(); err != nil {
				u.Errorf("wyc: recompile after %s: %v", ev, err)
			} else {
				u.Infof("wyc: recompiled after %s", ev)
			}
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			u.Warnf("wyc: watcher: %v", err)
		}
	}
}

// Close stops the Bundle's filesystem watcher, if one was started.
func (b *Bundle) Close() error {
	if b.watcher == nil {
		return nil
	}
	return b.watcher.Close()
}
