package referral

import (
	"regexp"
	"strings"
)

// Generic words stripped before hospital names are compared, so that
// "St. Mary Medical Center" and "ST MARY HOSPITAL" match on "st mary".
var commonHospitalWords = map[string]bool{
	"hospital": true,
	"medical":  true,
	"center":   true,
	"centre":   true,
	"health":   true,
	"clinic":   true,
	"the":      true,
	"of":       true,
	"and":      true,
	"inc":      true,
	"llc":      true,
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)

// NormalizeHospitalName lowercases, strips punctuation and drops generic
// facility words.
func NormalizeHospitalName(name string) string {
	cleaned := nonAlnumRe.ReplaceAllString(strings.ToLower(name), " ")
	tokens := make([]string, 0, 8)
	for _, token := range strings.Fields(cleaned) {
		if commonHospitalWords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, " ")
}

// NameSimilarity scores two normalized names in [0,1]: the better of a
// character-level sequence ratio and token-set overlap.
func NameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ratio := sequenceRatio(a, b)

	aTokens := tokenSet(a)
	bTokens := tokenSet(b)
	union := len(aTokens)
	intersection := 0
	for token := range bTokens {
		if aTokens[token] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		union = 1
	}
	overlap := float64(intersection) / float64(union)

	if ratio > overlap {
		return ratio
	}
	return overlap
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(s) {
		set[token] = true
	}
	return set
}

// sequenceRatio is the classic difflib similarity: twice the total length of
// matching blocks over the combined length.
func sequenceRatio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	matches := matchingBlocks(a, b)
	return 2 * float64(matches) / float64(len(a)+len(b))
}

func matchingBlocks(a, b string) int {
	type span struct{ aLow, aHigh, bLow, bHigh int }
	total := 0
	stack := []span{{0, len(a), 0, len(b)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ai, bi, size := longestMatch(a, b, s.aLow, s.aHigh, s.bLow, s.bHigh)
		if size == 0 {
			continue
		}
		total += size
		stack = append(stack,
			span{s.aLow, ai, s.bLow, bi},
			span{ai + size, s.aHigh, bi + size, s.bHigh})
	}
	return total
}

func longestMatch(a, b string, aLow, aHigh, bLow, bHigh int) (int, int, int) {
	bestA, bestB, bestSize := aLow, bLow, 0
	// lengths[j] holds the length of the match ending at a[i-1], b[j-1].
	lengths := make(map[int]int)
	for i := aLow; i < aHigh; i++ {
		next := make(map[int]int)
		for j := bLow; j < bHigh; j++ {
			if a[i] == b[j] {
				k := lengths[j-1] + 1
				next[j] = k
				if k > bestSize {
					bestA, bestB, bestSize = i-k+1, j-k+1, k
				}
			}
		}
		lengths = next
	}
	return bestA, bestB, bestSize
}

// stateCodes maps full US state names to postal codes.
var stateCodes = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR",
	"CALIFORNIA": "CA", "COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE",
	"DISTRICT OF COLUMBIA": "DC", "FLORIDA": "FL", "GEORGIA": "GA", "HAWAII": "HI",
	"IDAHO": "ID", "ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA",
	"KANSAS": "KS", "KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME",
	"MARYLAND": "MD", "MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN",
	"MISSISSIPPI": "MS", "MISSOURI": "MO", "MONTANA": "MT", "NEBRASKA": "NE",
	"NEVADA": "NV", "NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM",
	"NEW YORK": "NY", "NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH",
	"OKLAHOMA": "OK", "OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI",
	"SOUTH CAROLINA": "SC", "SOUTH DAKOTA": "SD", "TENNESSEE": "TN", "TEXAS": "TX",
	"UTAH": "UT", "VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA",
	"WEST VIRGINIA": "WV", "WISCONSIN": "WI", "WYOMING": "WY",
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ParseStateCode accepts a 2-letter postal code or a full state name and
// returns the postal code, or "" when neither matches.
func ParseStateCode(raw string) string {
	state := strings.ToUpper(strings.TrimSpace(raw))
	if state == "" {
		return ""
	}
	if len(state) == 2 && isAlpha(state) {
		return state
	}
	return stateCodes[state]
}
