// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping maps post documents: title and body get English
// stemming, slug and author are exact keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	doc := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = en.AnalyzerName
	title.Store = true
	title.IncludeTermVectors = true
	doc.AddFieldMappingsAt("title", title)

	// Body is searchable but not stored.
	body := bleve.NewTextFieldMapping()
	body.Analyzer = en.AnalyzerName
	body.Store = false
	doc.AddFieldMappingsAt("body", body)

	slug := bleve.NewTextFieldMapping()
	slug.Analyzer = keyword.Name
	slug.Store = true
	doc.AddFieldMappingsAt("slug", slug)

	author := bleve.NewTextFieldMapping()
	author.Analyzer = keyword.Name
	author.Store = true
	doc.AddFieldMappingsAt("author", author)

	indexMapping.DefaultMapping = doc
	return indexMapping
}
