package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/wegman-software/osm-housenames/internal/document"
)

type countingProjector struct {
	mu    sync.Mutex
	calls int
}

func (p *countingProjector) Project(lat, lon float64) (float64, float64, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if lat > 90 {
		return 0, 0, errors.New("out of range")
	}
	return lon, lat, nil
}

func testDocument() *document.Document {
	return document.New(
		[]document.Node{{ID: 1, Lat: 1, Lon: 2}, {ID: 2, Lat: 91, Lon: 0}},
		[]*document.Entity{{ID: 7}},
	)
}

func TestIndexBuiltOnce(t *testing.T) {
	p := &countingProjector{}
	s := New(testDocument(), p)

	if p.calls != 0 {
		t.Fatal("index should be built lazily")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Index()
		}()
	}
	wg.Wait()

	if first, second := s.Index(), s.Index(); first != second {
		t.Error("Index returned different instances")
	}
	if p.calls != 2 {
		t.Errorf("projector called %d times, want 2", p.calls)
	}
	if s.Index().Len() != 1 {
		t.Errorf("index has %d nodes, want 1", s.Index().Len())
	}
	if len(s.ProjectionErrors()) != 1 {
		t.Errorf("expected 1 projection error, got %d", len(s.ProjectionErrors()))
	}
}

func TestAccessors(t *testing.T) {
	doc := testDocument()
	s := New(doc, &countingProjector{})
	if s.Document() != doc {
		t.Error("Document() returned a different snapshot")
	}
	if len(s.Entities()) != 1 || s.Entities()[0].ID != 7 {
		t.Errorf("Entities() = %v", s.Entities())
	}
}
