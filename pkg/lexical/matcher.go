package lexical

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Score thresholds used by the assistant (0-100 scale)
const (
	DeleteIntentCutoff = 70.0
	TitleSearchCutoff  = 80.0
)

// Match is a candidate that cleared the score cutoff
type Match struct {
	Candidate string  // Original candidate text (not lowercased)
	Index     int     // Position in the candidate slice
	Score     float64 // 0-100
}

// Ratio returns the normalized InDel similarity of two strings on a 0-100 scale:
// 200 * LCS / (len(a) + len(b)), measured in runes. Two empty strings score 100.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(edlib.LCS(a, b)) / float64(total)
}

// BestMatch returns the highest scoring candidate whose score is >= cutoff.
// Comparison is case-insensitive. Ties keep the earliest candidate.
func BestMatch(query string, candidates []string, cutoff float64) (Match, bool) {
	var best Match
	found := false
	q := strings.ToLower(query)
	for i, c := range candidates {
		score := Ratio(q, strings.ToLower(c))
		if score < cutoff {
			continue
		}
		if !found || score > best.Score {
			best = Match{Candidate: c, Index: i, Score: score}
			found = true
		}
	}
	return best, found
}

// AllMatches returns every candidate scoring >= cutoff, ordered by descending score.
// Equal scores keep candidate order.
func AllMatches(query string, candidates []string, cutoff float64) []Match {
	q := strings.ToLower(query)
	var matches []Match
	for i, c := range candidates {
		score := Ratio(q, strings.ToLower(c))
		if score >= cutoff {
			matches = append(matches, Match{Candidate: c, Index: i, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
