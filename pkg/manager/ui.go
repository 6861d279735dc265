package manager

import (
	"sort"
	"strings"
)

// UIOptions controls the profile selector TUI.
type UIOptions struct {
	InitialQuery  string
	Theme         Theme
	ConfirmDelete bool
}

// candidate pairs a profile with its precomputed search text and the
// profile's index in the unfiltered store order. The store index travels
// with the candidate so filtered-row selections map back to the canonical
// list before any update/delete.
type candidate struct {
	Profile    Profile
	StoreIndex int
	SearchText string
}

// buildCandidates constructs searchable rows for all saved profiles, in
// storage order.
func buildCandidates(profiles []Profile) []candidate {
	cands := make([]candidate, 0, len(profiles))
	for i, p := range profiles {
		fields := []string{p.Name, p.Hostname}
		if p.User != "" {
			fields = append(fields, p.User)
		}
		cands = append(cands, candidate{
			Profile:    p,
			StoreIndex: i,
			SearchText: strings.ToLower(strings.Join(fields, " ")),
		})
	}
	return cands
}

// rankMatches filters and sorts candidates by fuzzy score against query.
//
// Query semantics (simple, fzf-like tokenization):
// - Split query on whitespace into tokens.
// - All tokens must match (AND).
// - Score is the sum of token scores (higher is better).
//
// An empty query returns the candidates unchanged, preserving storage
// order.
func rankMatches(cands []candidate, query string) []candidate {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(tokens) == 0 {
		out := make([]candidate, len(cands))
		copy(out, cands)
		return out
	}

	type scored struct {
		c candidate
		s int
	}

	scoreds := make([]scored, 0, len(cands))
	for _, c := range cands {
		total := 0
		okAll := true
		for _, t := range tokens {
			if s, ok := fuzzyScore(t, c.SearchText); ok {
				total += s
			} else {
				okAll = false
				break
			}
		}
		if okAll {
			scoreds = append(scoreds, scored{c: c, s: total})
		}
	}

	// Sort by score (desc), then by name (asc) for stability.
	sort.SliceStable(scoreds, func(i, j int) bool {
		if scoreds[i].s != scoreds[j].s {
			return scoreds[i].s > scoreds[j].s
		}
		return scoreds[i].c.Profile.Name < scoreds[j].c.Profile.Name
	})

	out := make([]candidate, len(scoreds))
	for i := range scoreds {
		out[i] = scoreds[i].c
	}
	return out
}

// fuzzyScore performs a simple subsequence fuzzy match.
// Returns (score, true) if query is a subsequence of text; otherwise
// (0, false). The score rewards consecutive matches, word boundaries,
// and early positions.
func fuzzyScore(query, text string) (int, bool) {
	if query == "" {
		return 0, true
	}
	rt := []rune(text)
	rq := []rune(query)

	ti := 0
	lastPos := -1
	consecutive := 0
	score := 0
	firstPos := -1

	for _, qch := range rq {
		found := false
		for i := ti; i < len(rt); i++ {
			if rt[i] == qch {
				score += 10
				if firstPos == -1 {
					firstPos = i
				}
				if lastPos >= 0 && i == lastPos+1 {
					consecutive++
					score += 5 * consecutive
				} else {
					consecutive = 0
				}
				if i == 0 || !isAlphaNum(rt[i-1]) {
					score += 10
				}
				lastPos = i
				ti = i + 1
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	if firstPos >= 0 {
		if bonus := 20 - firstPos; bonus > 0 {
			score += bonus
		}
	}
	return score, true
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// formatProfileLine renders a readable one-liner for the selector list.
func formatProfileLine(p Profile) string {
	parts := []string{p.Name, p.DisplayTarget()}
	if p.IdentityFile != "" {
		parts = append(parts, "key:"+p.IdentityFile)
	}
	return strings.Join(parts, "  ")
}
