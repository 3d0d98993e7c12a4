package memoryDB

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag/vectorDB"
)

type point struct {
	seq     int
	vector  []float32
	norm    float64
	payload map[string]any
	docID   string
	domain  docModel.Domain
}

// Index is a brute force cosine index for local runs and tests.
type Index struct {
	mu        sync.RWMutex
	points    map[string]point
	dimension int
	seq       int
}

func NewIndex(dimension int) *Index {
	return &Index{points: make(map[string]point), dimension: dimension}
}

func (m *Index) EnsureCollection(ctx context.Context) error {
	return nil
}

func (m *Index) Upsert(ctx context.Context, items []vectorDB.IndexItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		if m.dimension > 0 && len(item.Vector) != m.dimension {
			return docModel.StageError(docModel.ErrIndex,
				fmt.Errorf("chunk %s: vector has %d dimensions, index expects %d", item.Chunk.ID, len(item.Vector), m.dimension))
		}
	}
	for _, item := range items {
		seq := m.seq
		if existing, ok := m.points[item.Chunk.ID]; ok {
			seq = existing.seq
		} else {
			m.seq++
		}
		m.points[item.Chunk.ID] = point{
			seq:     seq,
			vector:  slices.Clone(item.Vector),
			norm:    norm(item.Vector),
			payload: vectorDB.BuildPayload(item),
			docID:   item.Chunk.DocumentID,
			domain:  item.Domain,
		}
	}
	return nil
}

func (m *Index) Query(ctx context.Context, vector []float32, topK int, filter *vectorDB.Filter) ([]docModel.RetrievedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, docModel.StageError(docModel.ErrIndex, err)
	}
	qNorm := norm(vector)

	type scored struct {
		p     point
		score float64
	}
	m.mu.RLock()
	candidates := make([]scored, 0, len(m.points))
	for _, p := range m.points {
		if !matches(p, filter) {
			continue
		}
		candidates = append(candidates, scored{p: p, score: cosine(vector, qNorm, p.vector, p.norm)})
	}
	m.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].p.seq < candidates[j].p.seq
	})
	if topK >= 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]docModel.RetrievedResult, len(candidates))
	for i, c := range candidates {
		results[i] = vectorDB.ResultFromPayload(c.score, c.p.payload)
	}
	return results, nil
}

func (m *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.points {
		if p.docID == documentID {
			delete(m.points, id)
		}
	}
	return nil
}

// Len is the number of stored points.
func (m *Index) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

func matches(p point, f *vectorDB.Filter) bool {
	if f.IsEmpty() {
		return true
	}
	if f.Domain != "" && p.domain != f.Domain {
		return false
	}
	if len(f.DocumentIDs) > 0 && !slices.Contains(f.DocumentIDs, p.docID) {
		return false
	}
	return true
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}
