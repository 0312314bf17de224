// Copyright 2025 Veldkamp Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/veldkamp/lexrag/core"
)

// Loader reads a corpus directory into documents.
//
// Supported formats are .pdf, .txt, and .md. PDFs produce one document per
// page with 1-based page metadata. The first path segment of a file's
// relative path becomes its category; files at the corpus root get the
// category "root".
type Loader struct {
	dataDir string
	logger  *slog.Logger
}

// NewLoader creates a loader rooted at dataDir.
func NewLoader(dataDir string) (*Loader, error) {
	if dataDir == "" {
		return nil, ErrDataDirRequired
	}
	return &Loader{
		dataDir: dataDir,
		logger:  slog.Default().With("component", "loader"),
	}, nil
}

// Load walks the corpus directory and loads every supported file.
// Files that fail to parse are skipped with a warning; a corpus with one
// corrupt PDF still indexes.
func (l *Loader) Load(ctx context.Context) ([]core.Document, error) {
	var paths []string
	err := filepath.WalkDir(l.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf", ".txt", ".md":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", l.dataDir, err)
	}

	return l.LoadPaths(ctx, paths)
}

// LoadPaths loads the given files, annotating each resulting document with
// source and category metadata. Paths with unsupported extensions are
// ignored.
func (l *Loader) LoadPaths(ctx context.Context, paths []string) ([]core.Document, error) {
	var docs []core.Document
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			loaded []core.Document
			err    error
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf":
			loaded, err = l.loadPDF(path)
		case ".txt", ".md":
			loaded, err = l.loadText(path)
		default:
			continue
		}
		if err != nil {
			l.logger.Warn("skipping unreadable file", "path", path, "err", err)
			continue
		}

		rel := l.relPath(path)
		category := core.CategoryRoot
		if parts := strings.Split(rel, "/"); len(parts) > 1 {
			category = parts[0]
		}
		for i := range loaded {
			md := loaded[i].Metadata
			md.SetDefault(core.MetaSourcePath, path)
			md.SetDefault(core.MetaCategory, category)
			md.SetDefault(core.MetaSourceRel, rel)
		}
		docs = append(docs, loaded...)
	}

	l.logger.Info("corpus loaded", "files", len(paths), "documents", len(docs))
	return docs, nil
}

// relPath returns path relative to the corpus root in slash form,
// falling back to the input when the file lies outside the root.
func (l *Loader) relPath(path string) string {
	rel, err := filepath.Rel(l.dataDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (l *Loader) loadText(path string) ([]core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return []core.Document{{
		Text:     text,
		Metadata: core.Metadata{},
	}}, nil
}

func (l *Loader) loadPDF(path string) ([]core.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var docs []core.Document
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// unreadable page, keep the rest of the file
			l.logger.Debug("skipping unreadable pdf page", "path", path, "page", i, "err", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, core.Document{
			Text: text,
			Metadata: core.Metadata{
				core.MetaPage: strconv.Itoa(i),
			},
		})
	}
	return docs, nil
}
