// Package parser extracts seat declarations, player names, hole cards, the
// board and betting actions from loosely formatted hand-history text.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	posAlt = `UTG|HJ|CO|BTN|SB|BB`
	numPat = `[0-9]+(?:[.,][0-9]+)?`
)

var (
	// "UTG: Stack 100"，允许前导 bullet
	declRe = regexp.MustCompile(`(?im)^[ \t]*(?:[-•*][ \t]*)?(` + posAlt + `)[ \t]*:[ \t]*Stack[ \t]*(` + numPat + `)`)
	// "- Nick: 18 BB (UTG)"
	stackBulletRe = regexp.MustCompile(`(?im)^[ \t]*[-•*]?[ \t]*([^\n\r:]+?)[ \t]*:[ \t]*(` + numPat + `)[ \t]*BB[ \t]*\([ \t]*(` + posAlt + `)[ \t]*\)`)
	// "Nick (UTG)"
	nickPosRe = regexp.MustCompile(`(?i)([^()\n\r]+?)[ \t]*\([ \t]*(` + posAlt + `)[ \t]*\)`)
	// "UTG: Nick" / "UTG: Nick Stack 100"
	posNickRe = regexp.MustCompile(`(?im)^[ \t]*(` + posAlt + `)[ \t]*:[ \t]*([^\n\r:]+?)(?:[ \t]+Stack\b[^\n\r]*)?[ \t]*$`)

	streetHeaderRe = regexp.MustCompile(`(?i)^\*{0,2}[ \t]*(Preflop|Flop|Turn|River)[ \t]+Actions[ \t]*:?[ \t]*\*{0,2}[ \t]*:?$`)
	bulletRe       = regexp.MustCompile(`^[-•][ \t]*(.+?)$`)
	verbRe         = regexp.MustCompile(`(?i)^(checks|check|folds|fold|bets|bet|opens|open|raises|raise|calls|call|all[ \t-]?in|wins|win|posts|post|puts)\b(?:[ \t]+to\b)?[ \t]*(` + numPat + `)?`)
	leadingPosRe   = regexp.MustCompile(`(?i)^(` + posAlt + `)\b[ \t]*:?[ \t]*`)

	compactLineRe = regexp.MustCompile(`(?im)^[ \t]*(Preflop|Flop|Turn|River)[ \t]*:[ \t]*(.*)$`)
	compactBetRe  = regexp.MustCompile(`(?i)\b(` + posAlt + `)\b[ \t]*(checks|calls|bets|raises|all-in|folds|opens|posts|post)\b(?:[ \t]+(?:to[ \t]+)?(` + numPat + `))?`)

	holeLineRe  = regexp.MustCompile(`(?i)^[-•*]?[ \t]*(` + posAlt + `)[ \t]*:[ \t]*\[([^\]]*)\]`)
	boardLineRe = regexp.MustCompile(`(?i)^[-•*]?[ \t]*(Flop|Turn|River)[ \t]*:[ \t]*\[([^\]]*)\]`)
	numericRe   = regexp.MustCompile(`^[0-9.,\s]+(?:bb)?$`)
)

// parseNumber accepts "12.5" and "12,5".
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
