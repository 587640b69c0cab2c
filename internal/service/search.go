package service

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/recruitdesk/internal/projection"
)

// MatchName reports whether term matches name. Every word of term has to
// match some word of name: as a case-insensitive substring, or, for words of
// four letters or more without digits, within an edit distance. The edits of
// all words share a budget of a third of the term's letters, so "mark stein"
// finds "Mark Stone" while "candidate 07" does not find "Candidate 01".
func MatchName(name, term string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || strings.Contains(name, term) {
		return true
	}
	words := strings.Fields(name)
	letters, spent := 0, 0
	for _, tw := range strings.Fields(term) {
		letters += len([]rune(tw))
		cost, ok := wordCost(words, tw)
		if !ok {
			return false
		}
		spent += cost
	}
	return spent <= letters/3
}

// wordCost is the fewest edits that turn tw into a word of words.
func wordCost(words []string, tw string) (int, bool) {
	for _, w := range words {
		if strings.Contains(w, tw) {
			return 0, true
		}
	}
	if len([]rune(tw)) < 4 || strings.ContainsAny(tw, "0123456789") {
		return 0, false
	}
	best := -1
	for _, w := range words {
		if d := levenshtein.ComputeDistance(w, tw); best < 0 || d < best {
			best = d
		}
	}
	return best, best >= 0
}

func filterByName(recs []projection.Record, term string) []projection.Record {
	out := make([]projection.Record, 0, len(recs))
	for _, rec := range recs {
		name, _ := rec.Resolve("name")
		if s, ok := name.(string); ok && MatchName(s, term) {
			out = append(out, rec)
		}
	}
	return out
}
