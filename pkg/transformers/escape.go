package transformers

import (
	"strconv"
	"strings"
)

// UnescapeArg converts backslash escape sequences typed on a command line
// into the characters they denote. Supported: \n \r \t \f \v \b \a \\ \' \"
// \xHH \uHHHH and \UHHHHHHHH. Unknown sequences are kept verbatim.
func UnescapeArg(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		switch next := runes[i+1]; next {
		case 'n':
			b.WriteRune('\n')
		case 'r':
			b.WriteRune('\r')
		case 't':
			b.WriteRune('\t')
		case 'f':
			b.WriteRune('\f')
		case 'v':
			b.WriteRune('\v')
		case 'b':
			b.WriteRune('\b')
		case 'a':
			b.WriteRune('\a')
		case '\\', '\'', '"':
			b.WriteRune(next)
		case 'x', 'u', 'U':
			width := map[rune]int{'x': 2, 'u': 4, 'U': 8}[next]
			if r, ok := hexRune(runes, i+2, width); ok {
				b.WriteRune(r)
				i += 1 + width
				continue
			}
			b.WriteRune(runes[i])
			continue
		default:
			b.WriteRune(runes[i])
			continue
		}
		i++
	}
	return b.String()
}

func hexRune(runes []rune, start, width int) (rune, bool) {
	if start+width > len(runes) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(runes[start:start+width]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
