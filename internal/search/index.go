// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search keeps a Bleve full-text index of posts.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"folio/internal/models"
)

// DefaultLimit caps the number of hits returned when no limit is given.
const DefaultLimit = 20

// PostIndex wraps a Bleve index of posts.
//
// All methods are safe for concurrent use. A nil *PostIndex is valid: writes
// are ignored and searches return no hits.
type PostIndex struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Hit is one matching post.
type Hit struct {
	ID    string  `json:"id"`
	Slug  string  `json:"slug"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Open creates the post index. An empty dataPath keeps the index in memory;
// otherwise an existing index under dataPath is reopened, or a fresh one is
// created when it cannot be opened.
func Open(dataPath string, logger *slog.Logger) (*PostIndex, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dataPath == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		logger.Info("created in-memory search index")
		return &PostIndex{index: idx, logger: logger}, nil
	}

	indexPath := filepath.Join(dataPath, "posts.bleve")
	idx, err := bleve.Open(indexPath)
	if err == nil {
		logger.Info("opened existing search index", "path", indexPath)
		return &PostIndex{index: idx, logger: logger}, nil
	}

	logger.Warn("failed to open search index, will recreate", "path", indexPath, "error", err)
	if err := os.RemoveAll(indexPath); err != nil {
		return nil, fmt.Errorf("remove old index: %w", err)
	}
	idx, err = bleve.New(indexPath, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	logger.Info("created new search index", "path", indexPath)
	return &PostIndex{index: idx, logger: logger}, nil
}

// Close releases the index.
func (s *PostIndex) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

func document(p *models.Post) map[string]any {
	doc := map[string]any{
		"title": p.Title,
		"body":  p.Body,
		"slug":  p.Slug,
	}
	if name, ok := p.AuthorName(); ok {
		doc["author"] = name
	}
	return doc
}

// IndexPost adds or replaces a post in the index.
func (s *PostIndex) IndexPost(p *models.Post) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.index.Index(p.ID.String(), document(p)); err != nil {
		return fmt.Errorf("index post %s: %w", p.ID, err)
	}
	return nil
}

// IndexPosts replaces the index content for every given post in one batch.
func (s *PostIndex) IndexPosts(posts []models.Post) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for i := range posts {
		if err := batch.Index(posts[i].ID.String(), document(&posts[i])); err != nil {
			return fmt.Errorf("batch index %s: %w", posts[i].ID, err)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// DeletePost removes a post from the index.
func (s *PostIndex) DeletePost(id string) error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// Count returns the number of indexed posts.
func (s *PostIndex) Count() (uint64, error) {
	if s == nil {
		return 0, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Search runs a full-text query over titles and bodies. Title matches are
// boosted. The result is never nil.
func (s *PostIndex) Search(ctx context.Context, text string, limit int) ([]Hit, error) {
	hits := make([]Hit, 0)
	if s == nil || text == "" {
		return hits, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	title := bleve.NewMatchQuery(text)
	title.SetField("title")
	title.SetBoost(2)
	body := bleve.NewMatchQuery(text)
	body.SetField("body")
	prefix := bleve.NewPrefixQuery(text)
	prefix.SetField("slug")

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(title, body, prefix), limit, 0, false)
	req.Fields = []string{"slug", "title"}

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["slug"].(string); ok {
			hit.Slug = v
		}
		if v, ok := h.Fields["title"].(string); ok {
			hit.Title = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
