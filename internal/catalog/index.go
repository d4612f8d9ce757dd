package catalog

import (
	"procurement/internal/util"
)

// Index is a snapshot of vendor names taken for one resolution. Names keeps
// data-source order with duplicates removed; every lookup preserves that order.
type Index struct {
	Names           []string
	Exact           map[string]struct{}
	ByNormalized    map[string][]string
	NormalizedByPos []string
}

func BuildIndex(names []string) *Index {
	idx := &Index{
		Names:           make([]string, 0, len(names)),
		Exact:           make(map[string]struct{}, len(names)),
		ByNormalized:    map[string][]string{},
		NormalizedByPos: make([]string, 0, len(names)),
	}

	for _, name := range names {
		if name == "" {
			continue
		}
		if _, seen := idx.Exact[name]; seen {
			continue
		}
		idx.Exact[name] = struct{}{}
		idx.Names = append(idx.Names, name)

		key := util.Normalize(name)
		idx.NormalizedByPos = append(idx.NormalizedByPos, key)
		if key != "" {
			idx.ByNormalized[key] = append(idx.ByNormalized[key], name)
		}
	}

	return idx
}

func (idx *Index) Contains(name string) bool {
	_, ok := idx.Exact[name]
	return ok
}

func (idx *Index) Len() int { return len(idx.Names) }
