// Package query persists search query history and serves ranked suggestions
// for partial input.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/pipetube-cli/pipetube/filesystem"
	"github.com/pipetube-cli/pipetube/key"
	"github.com/pipetube-cli/pipetube/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// suggestionCache memoizes per-prefix results for the lifetime of the process.
var suggestionCache = make(map[string][]*record)

// Remember stores a search query or bumps the rank of an already known one.
// Rank drives suggestion ordering; a query searched twice outranks one
// searched once.
func Remember(q string, weight int) error {
	q = sanitize(q)

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if known, ok := cached[q]; ok {
		known.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	return cacher.Set(cached)
}

// Suggest returns the highest ranked historical query matching the partial
// input.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns all historical queries fuzzy-matching the partial input,
// best rank first. Empty when suggestions are disabled in the configuration.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	records, ok := suggestionCache[q]
	if !ok {
		cached, expired, err := cacher.Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, known := range cached {
			if fuzzy.Match(q, known.Query) {
				records = append(records, known)
			}
		}

		slices.SortFunc(records, func(a, b *record) int {
			return b.Rank - a.Rank
		})

		suggestionCache[q] = records
	}

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
