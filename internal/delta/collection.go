package delta

import (
	"encoding/json"
	"fmt"
)

// Record is any entity participating in a tracked collection. The identity
// returned by RecordID must be stable and unique within one collection;
// content equality is decided structurally via the canonical encoding.
type Record interface {
	RecordID() string
}

// CollectionDelta describes how one ordered collection became another.
// All fields are omitted when empty; a delta with every field empty is "no
// change" and is represented as a nil *CollectionDelta instead.
type CollectionDelta[T Record] struct {
	// Added holds full snapshots of records present only in the new
	// collection.
	Added []T `json:"added,omitempty"`

	// Updated holds records present on both sides whose canonical
	// serialization differs. Each carries its id.
	Updated []T `json:"updated,omitempty"`

	// RemovedIDs lists ids present only in the old collection.
	RemovedIDs []string `json:"removed_ids,omitempty"`

	// Order is the full id sequence of the new collection, present only
	// when applying Added/Updated/RemovedIDs alone would not reproduce it.
	Order []string `json:"order,omitempty"`
}

// Empty reports whether d describes no change.
func (d *CollectionDelta[T]) Empty() bool {
	return d == nil ||
		(len(d.Added) == 0 && len(d.Updated) == 0 && len(d.RemovedIDs) == 0 && len(d.Order) == 0)
}

// Diff computes the delta that turns previous into current. It returns nil
// when the collections are structurally equal, so callers can cheaply test
// for "no change". A record that cannot be cloned (its canonical encoding
// fails) aborts the diff; dropping it silently would produce a lossy delta.
func Diff[T Record](previous, current []T) (*CollectionDelta[T], error) {
	prevIndex := indexByID(previous)
	currIndex := indexByID(current)

	d := &CollectionDelta[T]{}

	for _, rec := range current {
		prev, existed := prevIndex[rec.RecordID()]
		if !existed {
			clone, err := Clone(rec)
			if err != nil {
				return nil, fmt.Errorf("clone added record %q: %w", rec.RecordID(), err)
			}
			d.Added = append(d.Added, clone)
			continue
		}
		if !Equal(prev, rec) {
			clone, err := Clone(rec)
			if err != nil {
				return nil, fmt.Errorf("clone updated record %q: %w", rec.RecordID(), err)
			}
			d.Updated = append(d.Updated, clone)
		}
	}

	for _, rec := range previous {
		if _, kept := currIndex[rec.RecordID()]; !kept {
			d.RemovedIDs = append(d.RemovedIDs, rec.RecordID())
		}
	}

	if orderChanged(previous, current, currIndex, prevIndex) {
		d.Order = ids(current)
	}

	if d.Empty() {
		return nil, nil
	}
	return d, nil
}

// orderChanged reports whether replaying the delta without an explicit order
// field would fail to reproduce current's ordering. Surviving records keep
// their previous relative order and added records land at the end, so only
// deviations from that sequence need an order field; a plain append or a
// removal never does.
func orderChanged[T Record](previous, current []T, currIndex, prevIndex map[string]T) bool {
	expected := make([]string, 0, len(current))
	for _, rec := range previous {
		if _, kept := currIndex[rec.RecordID()]; kept {
			expected = append(expected, rec.RecordID())
		}
	}
	for _, rec := range current {
		if _, existed := prevIndex[rec.RecordID()]; !existed {
			expected = append(expected, rec.RecordID())
		}
	}

	actual := ids(current)
	if len(actual) != len(expected) {
		return true
	}
	for i := range actual {
		if actual[i] != expected[i] {
			return true
		}
	}
	return false
}

// Apply replays d on top of existing and returns the resulting collection.
// The input slice is never mutated; the result is built from deep clones.
//
// Added records whose id already exists are shallow-merged onto the existing
// record instead of duplicated, which tolerates replaying an "add" against a
// target that already received the record through another path. Updated
// records with unknown ids are skipped. Ids in the collection but absent
// from Order are appended after the ordered ones in their prior relative
// order, so ids introduced by a concurrent source survive a reorder.
// Applying the same delta twice yields the same result.
func Apply[T Record](existing []T, d *CollectionDelta[T]) ([]T, error) {
	result, err := Clone(existing)
	if err != nil {
		return nil, fmt.Errorf("apply clone: %w", err)
	}
	if result == nil {
		result = []T{}
	}
	if d.Empty() {
		return result, nil
	}

	index := make(map[string]int, len(result))
	for i, rec := range result {
		index[rec.RecordID()] = i
	}

	for _, added := range d.Added {
		if i, exists := index[added.RecordID()]; exists {
			merged, mergeErr := mergeRecords(result[i], added)
			if mergeErr != nil {
				return nil, mergeErr
			}
			result[i] = merged
			continue
		}
		clone, cloneErr := Clone(added)
		if cloneErr != nil {
			return nil, fmt.Errorf("apply clone added: %w", cloneErr)
		}
		index[added.RecordID()] = len(result)
		result = append(result, clone)
	}

	for _, updated := range d.Updated {
		i, exists := index[updated.RecordID()]
		if !exists {
			continue
		}
		merged, mergeErr := mergeRecords(result[i], updated)
		if mergeErr != nil {
			return nil, mergeErr
		}
		result[i] = merged
	}

	if len(d.RemovedIDs) > 0 {
		removed := make(map[string]struct{}, len(d.RemovedIDs))
		for _, id := range d.RemovedIDs {
			removed[id] = struct{}{}
		}
		kept := result[:0]
		for _, rec := range result {
			if _, gone := removed[rec.RecordID()]; !gone {
				kept = append(kept, rec)
			}
		}
		result = kept
	}

	if len(d.Order) > 0 {
		result = reorder(result, d.Order)
	}

	return result, nil
}

// reorder arranges records to match the given id sequence. Records not
// mentioned in order keep their prior relative order at the end.
func reorder[T Record](records []T, order []string) []T {
	byID := make(map[string]T, len(records))
	for _, rec := range records {
		byID[rec.RecordID()] = rec
	}

	out := make([]T, 0, len(records))
	placed := make(map[string]struct{}, len(order))
	for _, id := range order {
		if rec, exists := byID[id]; exists {
			out = append(out, rec)
			placed[id] = struct{}{}
		}
	}
	for _, rec := range records {
		if _, done := placed[rec.RecordID()]; !done {
			out = append(out, rec)
		}
	}
	return out
}

// mergeRecords shallow-merges src's top-level fields over dst's and decodes
// the result back into the record type. Working on the JSON object level
// keeps the merge field-wise even when the wire delta carried a partial
// record.
func mergeRecords[T Record](dst, src T) (T, error) {
	var out T

	dstMap, err := toObject(dst)
	if err != nil {
		return out, err
	}
	srcMap, err := toObject(src)
	if err != nil {
		return out, err
	}
	for k, v := range srcMap {
		dstMap[k] = v
	}

	raw, err := json.Marshal(dstMap)
	if err != nil {
		return out, fmt.Errorf("merge encode: %w", err)
	}
	if err = json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("merge decode: %w", err)
	}
	return out, nil
}

func toObject(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("record encode: %w", err)
	}
	obj := make(map[string]any)
	if err = json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("record decode: %w", err)
	}
	return obj, nil
}

func indexByID[T Record](records []T) map[string]T {
	index := make(map[string]T, len(records))
	for _, rec := range records {
		index[rec.RecordID()] = rec
	}
	return index
}

func ids[T Record](records []T) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.RecordID())
	}
	return out
}
