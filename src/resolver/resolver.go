// Package resolver converts a free-text DAO name into a canonical Snapshot
// space id by scoring every verified space against the query.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/deo-labs/deoai/src/snapshot"
)

// ErrNotFound is returned when no candidate clears the score threshold.
var ErrNotFound = errors.New("DAO not found on Snapshot platform")

// scoreThreshold is the minimum winning similarity, exclusive.
const scoreThreshold = 0.6

// Directory lists the verified spaces available for matching.
type Directory interface {
	AllSpaces(ctx context.Context) ([]snapshot.Space, error)
}

type Resolver struct {
	dir Directory
}

func New(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns the best-matching space id for daoName. Ties on exact score
// are broken by directory retrieval order: first seen wins.
func (r *Resolver) Resolve(ctx context.Context, daoName string) (string, error) {
	spaces, err := r.dir.AllSpaces(ctx)
	if err != nil {
		return "", fmt.Errorf("finding DAO space: %w", err)
	}
	if len(spaces) == 0 {
		return "", errors.New("no spaces found on Snapshot")
	}

	bestScore := -1.0
	bestID := ""
	for _, space := range spaces {
		if space.Name == "" || space.ID == "" {
			continue
		}
		if score := Similarity(daoName, space.Name, space.ID); score > bestScore {
			bestScore = score
			bestID = space.ID
		}
	}

	if bestScore > scoreThreshold {
		return bestID, nil
	}
	return "", fmt.Errorf("DAO %q: %w", daoName, ErrNotFound)
}

var noiseTokens = regexp.MustCompile(`\b(dao|protocol|finance|v[0-9]+|governance)\b`)

// cleanName normalizes a name for comparison: lowercase, strip filler tokens,
// collapse whitespace.
func cleanName(name string) string {
	name = strings.ToLower(name)
	name = noiseTokens.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// Similarity scores query against a space's (name, id) pair in [0,1].
//
// The branch order matters: the substring bonus returns early, so the
// length-ratio penalty never stacks on top of it. Reordering these changes
// outcomes for borderline names.
func Similarity(query, name, spaceID string) float64 {
	if strings.EqualFold(query, spaceID) {
		return 1.0
	}

	queryClean := cleanName(query)
	nameClean := cleanName(name)

	if queryClean == nameClean {
		return 1.0
	}

	base := sequenceRatio(queryClean, nameClean)

	if strings.Contains(nameClean, queryClean) || strings.Contains(queryClean, nameClean) {
		return base + 0.3
	}

	lengthRatio := float64(min(len(queryClean), len(nameClean))) / float64(max(len(queryClean), len(nameClean)))
	if lengthRatio < 0.5 {
		return base * 0.5
	}

	words1 := wordSet(queryClean)
	words2 := wordSet(nameClean)
	wordMatchRatio := 0.0
	if len(words1) > 0 && len(words2) > 0 {
		common := 0
		for w := range words1 {
			if words2[w] {
				common++
			}
		}
		if common == 0 {
			return base * 0.3
		}
		wordMatchRatio = float64(common) / float64(max(len(words1), len(words2)))
	}

	score := base*0.7 + wordMatchRatio*0.3
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// sequenceRatio is the Ratcliff/Obershelp longest-matching-blocks ratio over
// individual characters.
func sequenceRatio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
