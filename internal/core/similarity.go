package core

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ecrawford/sift/pkg/models"
)

// wordPattern matches word tokens for keyword extraction.
var wordPattern = regexp.MustCompile(`\w+`)

// stopWords are common words excluded from keyword comparison.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {},
	"from": {}, "up": {}, "out": {},
}

// SimilarityScore returns a similarity ratio in [0, 1] between two strings.
// Comparison is case-insensitive and symmetric: the arguments are ordered
// canonically before matching, so SimilarityScore(a, b) == SimilarityScore(b, a).
// Equal strings (after lowercasing) score exactly 1.0; strings with no common
// characters score 0.0.
func SimilarityScore(a, b string) float64 {
	x := []rune(strings.ToLower(a))
	y := []rune(strings.ToLower(b))
	if string(x) > string(y) {
		x, y = y, x
	}
	total := len(x) + len(y)
	if total == 0 {
		return 1.0
	}
	matched := matchingRunes(x, y)
	return 2.0 * float64(matched) / float64(total)
}

// matchingRunes counts matching characters between x and y using the
// Ratcliff/Obershelp scheme: find the longest common substring, then recurse
// on the pieces to its left and right.
func matchingRunes(x, y []rune) int {
	xi, yi, size := longestCommonRun(x, y)
	if size == 0 {
		return 0
	}
	n := size
	n += matchingRunes(x[:xi], y[:yi])
	n += matchingRunes(x[xi+size:], y[yi+size:])
	return n
}

// longestCommonRun finds the longest common contiguous run between x and y,
// preferring the earliest position in x, then in y, on ties.
func longestCommonRun(x, y []rune) (bestX, bestY, bestSize int) {
	if len(x) == 0 || len(y) == 0 {
		return 0, 0, 0
	}
	// lengths[j] holds the length of the common run ending at x[i], y[j].
	lengths := make([]int, len(y)+1)
	for i := 0; i < len(x); i++ {
		// Walk y backwards so lengths[j] still holds the previous row.
		for j := len(y) - 1; j >= 0; j-- {
			if x[i] == y[j] {
				lengths[j+1] = lengths[j] + 1
				if lengths[j+1] > bestSize {
					bestSize = lengths[j+1]
					bestX = i - bestSize + 1
					bestY = j - bestSize + 1
				}
			} else {
				lengths[j+1] = 0
			}
		}
	}
	return bestX, bestY, bestSize
}

// ExtractKeywords returns the significant lowercase words of text, dropping
// stop words and words shorter than three characters.
func ExtractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		keywords[w] = struct{}{}
	}
	return keywords
}

// keywordOverlap returns the Jaccard overlap of two keyword sets. Either set
// being empty yields 0.
func keywordOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// FindSimilar scores item against every non-done task and returns the matches
// at or above the configured similarity threshold, strongest first, capped at
// the configured maximum. The combined score blends title similarity and
// keyword overlap using the configured weights and is rounded to two decimals.
func FindSimilar(item string, tasks []models.Task, settings models.TriageSettings) []models.SimilarityMatch {
	itemKeywords := ExtractKeywords(item)

	var matches []models.SimilarityMatch
	for _, task := range tasks {
		if task.Status == models.StatusDone {
			continue
		}
		titleSim := SimilarityScore(item, task.Title)
		overlap := keywordOverlap(itemKeywords, ExtractKeywords(task.Title))
		combined := settings.TitleWeight*titleSim + settings.KeywordWeight*overlap
		if combined >= settings.SimilarityThreshold {
			matches = append(matches, models.SimilarityMatch{
				Title:    task.Title,
				Filename: task.Filename,
				Category: task.Category,
				Status:   task.Status,
				Score:    math.Round(combined*100) / 100,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if settings.MaxMatches > 0 && len(matches) > settings.MaxMatches {
		matches = matches[:settings.MaxMatches]
	}
	return matches
}
