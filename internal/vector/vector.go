// Package vector is a flat cosine-similarity index over employee
// embedding vectors. The catalog is small enough that a brute-force
// scan beats graph indexes on both latency and moving parts; vectors
// are normalized once at insert so search is a plain dot product.
package vector

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Result is one search hit. Score is cosine similarity in [-1, 1].
type Result struct {
	ID    int64   `json:"id"`
	Score float32 `json:"score"`
}

// Index holds normalized vectors keyed by employee id. Safe for
// concurrent use.
type Index struct {
	mu      sync.RWMutex
	dims    int
	ids     []int64
	vectors [][]float32
	idToIdx map[int64]int
}

// New creates an empty index. dims 0 means "lock to the first vector
// added".
func New(dims int) *Index {
	return &Index{
		dims:    dims,
		idToIdx: make(map[int64]int),
	}
}

// Add inserts or replaces the vector for an id. The input is copied
// and normalized; the caller keeps ownership of vec.
func (idx *Index) Add(id int64, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector for id %d", id)
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dims == 0 {
		idx.dims = len(vec)
	}
	if len(vec) != idx.dims {
		return fmt.Errorf("vector for id %d has %d dims, index has %d", id, len(vec), idx.dims)
	}

	normalized, err := normalize(vec)
	if err != nil {
		return fmt.Errorf("vector for id %d: %w", id, err)
	}
	if pos, ok := idx.idToIdx[id]; ok {
		idx.vectors[pos] = normalized
		return nil
	}
	idx.idToIdx[id] = len(idx.ids)
	idx.ids = append(idx.ids, id)
	idx.vectors = append(idx.vectors, normalized)
	return nil
}

// Remove drops an id from the index. Removing an absent id is a no-op.
func (idx *Index) Remove(id int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.idToIdx[id]
	if !ok {
		return
	}
	// Swap-remove keeps the scan dense.
	last := len(idx.ids) - 1
	idx.ids[pos] = idx.ids[last]
	idx.vectors[pos] = idx.vectors[last]
	idx.idToIdx[idx.ids[pos]] = pos
	idx.ids = idx.ids[:last]
	idx.vectors = idx.vectors[:last]
	delete(idx.idToIdx, id)
}

// Search returns the k nearest ids to the query by cosine similarity,
// best first. Ties break toward the lower id so results are stable.
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.ids) == 0 {
		return nil, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("query has %d dims, index has %d", len(query), idx.dims)
	}
	q, err := normalize(query)
	if err != nil {
		return nil, fmt.Errorf("query vector: %w", err)
	}

	results := make([]Result, len(idx.ids))
	for i, vec := range idx.vectors {
		results[i] = Result{ID: idx.ids[i], Score: dot(q, vec)}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ids)
}

// Dims returns the vector dimensionality, or 0 for an empty unlocked
// index.
func (idx *Index) Dims() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dims
}

func normalize(vec []float32) ([]float32, error) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, fmt.Errorf("zero-magnitude vector")
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
