package index

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/ppiankov/liarlens/internal/cache"
	"github.com/ppiankov/liarlens/internal/corpus"
	"github.com/ppiankov/liarlens/internal/model"
)

// Index lists the most frequent values of a dimension for selector menus
type Index struct {
	store *corpus.Store
	cache cache.Cache
	ttl   time.Duration
}

// New creates an index over store. A nil cache disables memoization.
func New(store *corpus.Store, c cache.Cache, ttl time.Duration) *Index {
	if c == nil {
		c = cache.Nop{}
	}
	return &Index{store: store, cache: c, ttl: ttl}
}

type valueCount struct {
	value string
	count int
}

// TopK returns up to k of the most frequent values of dimension d, most
// frequent first. Equal counts keep the order in which values first appear
// in the corpus. Missing (NA) values are not listed. With alphabetical set,
// the selected values are re-sorted by display label.
func (x *Index) TopK(d model.Dimension, k int, alphabetical bool) []model.Choice {
	slot := d.Index()
	if k <= 0 || slot < 0 {
		return []model.Choice{}
	}

	key := cache.MenuKey(d, k, alphabetical)
	if hit, ok := x.cache.Get(key); ok {
		return hit
	}

	pos := make(map[string]int)
	var counts []valueCount
	x.store.Scan(func(r *model.Record) {
		v := r.Fields[slot]
		if v == model.NA {
			return
		}
		i, seen := pos[v]
		if !seen {
			i = len(counts)
			pos[v] = i
			counts = append(counts, valueCount{value: v})
		}
		counts[i].count++
	})

	slices.SortStableFunc(counts, func(a, b valueCount) int {
		return b.count - a.count
	})
	if len(counts) > k {
		counts = counts[:k]
	}

	choices := make([]model.Choice, len(counts))
	for i, vc := range counts {
		choices[i] = model.Choice{
			Label:    DeriveLabel(vc.value),
			Selector: model.Value(vc.value),
		}
	}

	if alphabetical {
		slices.SortStableFunc(choices, func(a, b model.Choice) int {
			return strings.Compare(a.Label, b.Label)
		})
	}

	x.cache.Set(key, choices, x.ttl)
	return choices
}

// Menu is TopK with the synthetic "All <dimension-plural>" wildcard entry prepended
func (x *Index) Menu(d model.Dimension, k int, alphabetical bool) []model.Choice {
	top := x.TopK(d, k, alphabetical)
	menu := make([]model.Choice, 0, len(top)+1)
	menu = append(menu, model.Choice{Label: d.WildcardLabel(), Selector: model.Wildcard()})
	return append(menu, top...)
}

// DeriveLabel turns a raw category value into its display label: dashes
// become spaces, then every word is title-cased. A letter is upper-cased
// when it follows a non-letter and lower-cased otherwise, so "o'neil"
// becomes "O'Neil" and "2nd" becomes "2Nd".
func DeriveLabel(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	prevLetter := false
	for _, r := range strings.ReplaceAll(raw, "-", " ") {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
