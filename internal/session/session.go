// Package session holds the document snapshot of one run together with its
// coordinate index. A Session is created once at start-up and passed to
// every query; nothing in it changes after the index is built.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wegman-software/osm-housenames/internal/document"
	"github.com/wegman-software/osm-housenames/internal/logger"
	"github.com/wegman-software/osm-housenames/internal/nodeindex"
)

// Session is the read-only state shared by the extractors
type Session struct {
	doc       *document.Document
	projector nodeindex.Projector

	once     sync.Once
	index    *nodeindex.Index
	failures []*nodeindex.ProjectionError
}

// New wraps a parsed document. The coordinate index is built on first use.
func New(doc *document.Document, projector nodeindex.Projector) *Session {
	return &Session{doc: doc, projector: projector}
}

// Document returns the document snapshot
func (s *Session) Document() *document.Document {
	return s.doc
}

// Entities returns the entities of the snapshot
func (s *Session) Entities() []*document.Entity {
	return s.doc.Entities
}

// Index returns the coordinate index, building it exactly once
func (s *Session) Index() *nodeindex.Index {
	s.once.Do(s.buildIndex)
	return s.index
}

// ProjectionErrors returns the nodes that could not be projected
func (s *Session) ProjectionErrors() []*nodeindex.ProjectionError {
	s.once.Do(s.buildIndex)
	return s.failures
}

func (s *Session) buildIndex() {
	log := logger.Get()
	start := time.Now()

	s.index, s.failures = nodeindex.Build(s.doc.Nodes, s.projector)

	for _, f := range s.failures {
		log.Debug("Node dropped from index", zap.Error(f))
	}
	log.Info("Coordinate index built",
		zap.Int("nodes", s.index.Len()),
		zap.Int("projection_failures", len(s.failures)),
		zap.Duration("duration", time.Since(start)),
	)
}
