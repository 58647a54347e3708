// Package search scans the blob container for files whose metadata matches
// a set of tag filters. Physical blob metadata is reconciled with the richer
// directory index entries (index wins on conflict) and compared with
// normalized substring matching, so formatting drift between stored and
// queried values does not hide results.
package search

import (
	"context"
	"strings"
	"time"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
	"lexvault/pkg/index"
	"lexvault/pkg/log"
)

// DefaultMaxScan bounds how many blobs one query may examine. Exceeding it
// truncates the result instead of failing.
const DefaultMaxScan = 10000

// Logic selects how multiple filters combine.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// TagFilter is one (category, value) condition.
type TagFilter struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// Query describes one search.
type Query struct {
	Tags   []TagFilter
	Prefix string // directory scope; empty means container root
	Deep   bool   // whole subtree instead of one directory
	Logic  Logic
}

// Item is one matching file.
type Item struct {
	Name         string           `json:"name"`
	Path         string           `json:"path"`
	Size         int64            `json:"size,omitempty"`
	LastModified time.Time        `json:"lastModified,omitzero"`
	Metadata     docmeta.Metadata `json:"metadata"`
}

// Result is a completed search. Truncated is set when the scan cap cut the
// scan short.
type Result struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"totalItems"`
	Truncated  bool   `json:"truncated,omitempty"`
}

// Engine runs metadata searches against a blob client and the directory
// index.
type Engine struct {
	blobs   blob.Client
	index   *index.Index
	maxScan int
}

// New returns an Engine with the given scan cap; zero means DefaultMaxScan.
func New(blobs blob.Client, ix *index.Index, maxScan int) *Engine {
	if maxScan <= 0 {
		maxScan = DefaultMaxScan
	}
	return &Engine{blobs: blobs, index: ix, maxScan: maxScan}
}

// Search runs the query and returns all matches, up to the scan cap.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	if q.Logic != LogicOr {
		q.Logic = LogicAnd
	}

	result := &Result{Items: []Item{}}
	scanned := 0
	indexDocs := make(map[string]*index.Document)

	prefix := blob.DirPrefix(strings.Trim(q.Prefix, "/"))
	token := ""
	for {
		page, err := e.blobs.List(ctx, prefix, !q.Deep, token, 0)
		if err != nil {
			return nil, err
		}

		for i := range page.Records {
			rec := &page.Records[i]
			if rec.IsIndexBlob() || rec.IsDirectoryPlaceholder() {
				continue
			}
			if scanned >= e.maxScan {
				result.Truncated = true
				result.TotalItems = len(result.Items)
				log.Warn().Int("cap", e.maxScan).Msg("search scan cap reached, truncating results")
				return result, nil
			}
			scanned++

			meta, matches, err := e.evaluate(ctx, rec, q, indexDocs)
			if err != nil {
				return nil, err
			}
			if matches {
				result.Items = append(result.Items, Item{
					Name:         blob.Base(rec.Path),
					Path:         rec.Path,
					Size:         rec.Size,
					LastModified: rec.LastModified,
					Metadata:     meta,
				})
			}
		}

		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	result.TotalItems = len(result.Items)
	return result, nil
}

// evaluate merges the blob's physical metadata with its directory index
// entry and applies the filters.
func (e *Engine) evaluate(ctx context.Context, rec *blob.Record, q Query, docs map[string]*index.Document) (docmeta.Metadata, bool, error) {
	dir := blob.Dir(rec.Path)
	doc, ok := docs[dir]
	if !ok {
		var err error
		doc, _, err = e.index.Read(ctx, dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("index read failed during search")
			doc = index.NewDocument()
		}
		docs[dir] = doc
	}

	merged := make(map[string]string, len(rec.Metadata))
	for k, v := range rec.Metadata {
		merged[strings.ToLower(k)] = v
	}

	entry, _, hasEntry := doc.Lookup(blob.Base(rec.Path))
	if hasEntry {
		for k, v := range entry.Flatten() {
			merged[k] = v
		}
	} else if len(merged) == 0 {
		// Flat listings carry no metadata; fall back to one head request.
		if full, err := e.blobs.Head(ctx, rec.Path); err == nil {
			for k, v := range full.Metadata {
				merged[strings.ToLower(k)] = v
			}
		}
	}

	matched := e.matches(merged, q)
	return docmeta.FromFlat(merged), matched, nil
}

func (e *Engine) matches(fields map[string]string, q Query) bool {
	if len(q.Tags) == 0 {
		return true
	}
	for _, f := range q.Tags {
		hit := fieldContains(fields[normalizeKey(f.Category)], f.Value)
		if hit && q.Logic == LogicOr {
			return true
		}
		if !hit && q.Logic == LogicAnd {
			return false
		}
	}
	return q.Logic == LogicAnd
}

func fieldContains(stored, queried string) bool {
	if stored == "" || queried == "" {
		return false
	}
	return strings.Contains(normalizeValue(stored), normalizeValue(queried))
}

// normalizeKey folds a filter category onto the flattened metadata keys:
// lower-case with spaces and underscores removed.
func normalizeKey(category string) string {
	category = strings.ToLower(category)
	category = strings.ReplaceAll(category, " ", "")
	return strings.ReplaceAll(category, "_", "")
}

// normalizeValue lower-cases and collapses underscores and whitespace runs
// to single spaces, forgiving formatting drift on both sides of the match.
func normalizeValue(v string) string {
	v = strings.ToLower(v)
	v = strings.ReplaceAll(v, "_", " ")
	return strings.Join(strings.Fields(v), " ")
}
