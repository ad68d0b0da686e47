// Package loader discovers .bru request definitions under a collection
// path and produces the ordered execution list consumed by the runner.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ninthday/bruno/packages/core/parser"
)

// Meta files carry collection and folder level settings; they are never
// part of the executable sequence.
var metaFiles = map[string]bool{
	"collection.bru": true,
	"folder.bru":     true,
}

// Directories never traversed in recursive mode.
var skippedDirs = map[string]bool{
	"environments": true,
	"node_modules": true,
	".git":         true,
}

// Item pairs a parsed request with its source location. Path is relative
// to the collection root and names the item in reports.
type Item struct {
	Path    string
	AbsPath string
	Request *parser.Request
}

// Load discovers and parses request definitions at target. A file target
// yields a single item; a directory yields its own .bru files, plus those
// of its subtree when recursive is set. The returned order is fixed for
// the whole run: the runner only ever changes which index executes next.
func Load(target, collectionRoot string, recursive bool) ([]*Item, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", target, err)
	}

	if !info.IsDir() {
		if !isRequestFile(abs) {
			return nil, fmt.Errorf("%s is not a .bru request file", target)
		}
		item, err := loadFile(abs, collectionRoot)
		if err != nil {
			return nil, err
		}
		return []*Item{item}, nil
	}

	return loadDir(abs, collectionRoot, recursive)
}

// loadDir collects a directory depth-first: subdirectories before the
// directory's own request files, each directory's files ordered by seq
// with discovery order breaking ties.
func loadDir(dir, collectionRoot string, recursive bool) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var items []*Item

	if recursive {
		for _, e := range entries {
			if !e.IsDir() || skippedDirs[e.Name()] {
				continue
			}
			sub, err := loadDir(filepath.Join(dir, e.Name()), collectionRoot, true)
			if err != nil {
				return nil, err
			}
			items = append(items, sub...)
		}
	}

	var own []*Item
	for _, e := range entries {
		if e.IsDir() || !isRequestFile(e.Name()) || metaFiles[e.Name()] {
			continue
		}
		item, err := loadFile(filepath.Join(dir, e.Name()), collectionRoot)
		if err != nil {
			return nil, err
		}
		own = append(own, item)
	}

	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Request.Seq < own[j].Request.Seq
	})

	return append(items, own...), nil
}

func loadFile(abs, collectionRoot string) (*Item, error) {
	req, err := parser.ParseFile(abs)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(collectionRoot, abs)
	if err != nil {
		rel = abs
	}

	return &Item{
		Path:    filepath.ToSlash(rel),
		AbsPath: abs,
		Request: req,
	}, nil
}

func isRequestFile(path string) bool {
	return strings.HasSuffix(path, ".bru")
}
