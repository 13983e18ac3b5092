package extract

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/hirelens/hirelens/internal/schema"
)

// Vote is one provider's extraction result with its trust weight.
type Vote struct {
	Provider string
	Weight   float64
	Data     map[string]any
}

// MergeEnsemble combines extraction results from multiple providers
// into a single record plus a per-field agreement score in [0,1].
// A lone vote comes back as-is with full agreement on every field.
//
// Weights are normalized to sum to 1. Fields merge over the union of
// keys present in any vote: catalog fields in catalog order, then any
// off-catalog keys sorted. Array fields become the weighted union of
// all items, deduplicated on canonical form, in first-seen order
// across providers (in vote order). Scalar fields go to the value
// with the highest total weight; on a tie the value seen earliest wins,
// so merging is deterministic.
func MergeEnsemble(votes []Vote) (map[string]any, map[string]float64) {
	if len(votes) == 1 {
		merged := make(map[string]any, len(votes[0].Data))
		agreement := make(map[string]float64, len(votes[0].Data))
		for k, v := range votes[0].Data {
			merged[k] = v
			agreement[k] = 1
		}
		return merged, agreement
	}

	votes = normalizeWeights(votes)
	merged := make(map[string]any)
	agreement := make(map[string]float64)

	for _, field := range unionKeys(votes) {
		if schema.IsArrayField(field) {
			if items, score := mergeArrayField(votes, field); items != nil {
				merged[field] = items
				agreement[field] = score
			}
			continue
		}
		if val, score := mergeScalarField(votes, field); val != nil {
			merged[field] = val
			agreement[field] = score
		}
	}
	return merged, agreement
}

// unionKeys returns every key present in any vote, catalog fields in
// catalog order first, then off-catalog keys sorted.
func unionKeys(votes []Vote) []string {
	present := make(map[string]bool)
	for _, v := range votes {
		for k := range v.Data {
			present[k] = true
		}
	}
	out := make([]string, 0, len(present))
	for _, field := range schema.FieldOrder {
		if present[field] {
			out = append(out, field)
			delete(present, field)
		}
	}
	extra := make([]string, 0, len(present))
	for k := range present {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// normalizeWeights scales vote weights to sum to 1. Votes with
// non-positive weight count as 1 before scaling, so a caller passing
// all-zero weights gets an unweighted ensemble.
func normalizeWeights(votes []Vote) []Vote {
	out := make([]Vote, len(votes))
	var total float64
	for i, v := range votes {
		if v.Weight <= 0 {
			v.Weight = 1
		}
		out[i] = v
		total += v.Weight
	}
	if total == 0 {
		return out
	}
	for i := range out {
		out[i].Weight /= total
	}
	return out
}

func mergeScalarField(votes []Vote, field string) (any, float64) {
	type tally struct {
		value  any
		weight float64
		order  int
	}
	tallies := make(map[string]*tally)
	var keys []string
	var votedWeight float64

	for i, v := range votes {
		val, ok := v.Data[field]
		if !ok || val == nil {
			continue
		}
		if s, isStr := val.(string); isStr {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			val = s
		}
		votedWeight += v.Weight
		key := canonicalKey(val)
		if t, exists := tallies[key]; exists {
			t.weight += v.Weight
		} else {
			tallies[key] = &tally{value: val, weight: v.Weight, order: i}
			keys = append(keys, key)
		}
	}
	if votedWeight == 0 {
		return nil, 0
	}

	var best *tally
	for _, k := range keys {
		t := tallies[k]
		if best == nil || t.weight > best.weight || (t.weight == best.weight && t.order < best.order) {
			best = t
		}
	}
	return best.value, best.weight / votedWeight
}

func mergeArrayField(votes []Vote, field string) ([]any, float64) {
	type item struct {
		value  any
		weight float64
	}
	byKey := make(map[string]*item)
	var order []string
	var votedWeight float64

	for _, v := range votes {
		items, ok := v.Data[field].([]any)
		if !ok {
			continue
		}
		votedWeight += v.Weight
		seen := make(map[string]bool, len(items))
		for _, it := range items {
			key := canonicalKey(it)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if existing, exists := byKey[key]; exists {
				existing.weight += v.Weight
			} else {
				byKey[key] = &item{value: it, weight: v.Weight}
				order = append(order, key)
			}
		}
	}
	if votedWeight == 0 {
		return nil, 0
	}

	merged := make([]any, 0, len(order))
	var support float64
	for _, key := range order {
		it := byKey[key]
		merged = append(merged, it.value)
		support += it.weight / votedWeight
	}
	if len(merged) == 0 {
		return merged, 0
	}
	return merged, support / float64(len(merged))
}

// canonicalKey renders a value as a stable, case-insensitive comparison
// key. Strings compare trimmed and lowercased; objects compare on their
// JSON encoding (Go marshals map keys sorted).
func canonicalKey(val any) string {
	switch x := val.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return strings.ToLower(string(b))
	}
}
