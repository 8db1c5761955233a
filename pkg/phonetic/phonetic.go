// Package phonetic transliterates identifiers into spoken aviation English:
// NATO alphabet for letters, controller pronunciation for digits ("tree",
// "fife", "niner"), and a static carrier table for airline callsigns.
package phonetic

import "strings"

// words maps a single character to its spoken form. Characters without an
// entry are dropped from the transliteration.
var words = map[rune]string{
	'A': "alfa",
	'B': "bravo",
	'C': "charlie",
	'D': "delta",
	'E': "echo",
	'F': "foxtrot",
	'G': "golf",
	'H': "hotel",
	'I': "india",
	'J': "juliet",
	'K': "kilo",
	'L': "lima",
	'M': "mike",
	'N': "november",
	'O': "oscar",
	'P': "papa",
	'Q': "quebec",
	'R': "romeo",
	'S': "sierra",
	'T': "tango",
	'U': "uniform",
	'V': "victor",
	'W': "whisky",
	'X': "x-ray",
	'Y': "yankee",
	'Z': "zulu",
	'0': "zero",
	'1': "one",
	'2': "two",
	'3': "tree",
	'4': "four",
	'5': "fife",
	'6': "six",
	'7': "seven",
	'8': "eight",
	'9': "niner",
	'/': "slash",
	'.': "point",
}

// Expand transliterates a string character by character into its spoken
// form. Case is ignored; unmapped characters are dropped.
func Expand(s string) string {
	parts := make([]string, 0, len(s))
	for _, r := range strings.ToUpper(s) {
		if w, ok := words[r]; ok {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}
