package scrape

import (
	"sort"
	"strings"
)

// noiseTokens are filler words common in notice titles that carry no
// identity: two listings differing only in these are the same posting.
var noiseTokens = map[string]struct{}{
	"post": {}, "posts": {}, "vacancy": {}, "vacancies": {},
	"notification": {}, "advt": {}, "no": {}, "online": {},
	"apply": {}, "form": {}, "various": {}, "out": {}, "new": {},
	"for": {}, "the": {}, "of": {}, "and": {}, "in": {}, "at": {}, "to": {},
}

// NormalizeTitle derives the order-insensitive duplicate-detection key
// for a display title: lower-cased, split on non-alphanumeric runs,
// noise tokens and standalone numeric tokens stripped, remaining words
// sorted and space-joined. "SSC CGL Recruitment 2024 [17,727 Posts]" and
// "2024 SSC CGL Recruitment" produce the identical key.
//
// An empty result means the title had no identifying words; such
// candidates are discarded before persistence.
func NormalizeTitle(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	kept := words[:0]
	for _, w := range words {
		if _, noise := noiseTokens[w]; noise {
			continue
		}
		if isNumeric(w) {
			continue
		}
		kept = append(kept, w)
	}

	sort.Strings(kept)
	return strings.Join(dedupeSorted(kept), " ")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// dedupeSorted removes adjacent repeats from a sorted slice, so a word
// repeated in the title does not change the key.
func dedupeSorted(words []string) []string {
	out := words[:0]
	for i, w := range words {
		if i > 0 && words[i-1] == w {
			continue
		}
		out = append(out, w)
	}
	return out
}
