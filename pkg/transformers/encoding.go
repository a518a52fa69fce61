package transformers

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/textkit/pkg/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// ErrUnsupportedEncoding is returned for encoding names no codec is known for.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// ErrorMode controls how undecodable or unencodable characters are handled.
type ErrorMode string

const (
	ModeStrict  ErrorMode = "strict"
	ModeReplace ErrorMode = "replace"
	ModeIgnore  ErrorMode = "ignore"
)

const autoEncoding = "auto"

var encodingAliases = map[string]string{
	"sjis":        "shift_jis",
	"shift-jis":   "shift_jis",
	"shift_jis":   "shift_jis",
	"cp932":       "shift_jis",
	"eucjp":       "euc-jp",
	"euc_jp":      "euc-jp",
	"iso2022_jp":  "iso-2022-jp",
	"iso_2022_jp": "iso-2022-jp",
	"utf8":        "utf-8",
	"utf16":       "utf-16",
	"utf32":       "utf-32",
	"ucs2":        "utf-16",
	"ucs4":        "utf-32",
	"latin1":      "iso-8859-1",
	"latin_1":     "iso-8859-1",
	"cp1252":      "windows-1252",
	"windows1252": "windows-1252",
	"euckr":       "euc-kr",
	"euc_kr":      "euc-kr",
	"cp949":       "euc-kr",
	"koi8r":       "koi8-r",
	"koi8_r":      "koi8-r",
	"cp1251":      "windows-1251",
	"windows1251": "windows-1251",
}

// detectionOrder lists the encodings tried when the source is "auto".
var detectionOrder = []string{
	"utf-8", "shift_jis", "euc-jp", "iso-2022-jp", "windows-1252",
	"gbk", "big5", "euc-kr", "koi8-r",
}

// NewEncoding returns the character set conversion rules.
func NewEncoding() *Family {
	rules := []Rule{
		{
			TransformationRule: domain.TransformationRule{
				Name:         "iconv",
				Description:  "Convert character encoding like iconv (positional 'from' 'to' ['mode'] or -f/-t/--error flags)",
				Example:      "/iconv 'shift_jis' 'utf-8'",
				Category:     domain.CategoryAdvanced,
				RequiresArgs: true,
				DefaultArgs:  []string{autoEncoding, "utf-8"},
				MinArgs:      2,
			},
			Apply: iconvHandler,
		},
		{
			TransformationRule: domain.TransformationRule{
				Name:        "to-utf8",
				Description: "Auto-detect the encoding and convert to UTF-8",
				Example:     "Shift_JIS bytes -> UTF-8",
				Category:    domain.CategoryAdvanced,
			},
			Apply: fallible(func(s string) (string, error) {
				return Convert(s, autoEncoding, "utf-8", ModeReplace)
			}),
		},
		{
			TransformationRule: domain.TransformationRule{
				Name:         "from-utf8",
				Description:  "Convert UTF-8 text to the given encoding",
				Example:      "/from-utf8 'euc-jp'",
				Category:     domain.CategoryAdvanced,
				RequiresArgs: true,
				DefaultArgs:  []string{"shift_jis"},
				MinArgs:      1,
			},
			Apply: func(text string, args []string) (string, error) {
				mode := ModeStrict
				if len(args) > 1 {
					mode = ErrorMode(args[1])
				}
				return Convert(text, "utf-8", args[0], mode)
			},
		},
		{
			TransformationRule: domain.TransformationRule{
				Name:        "detect-encoding",
				Description: "Report the detected character encoding of the input",
				Example:     "'héllo' -> 'Detected encoding: utf-8'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(func(s string) string {
				return "Detected encoding: " + DetectEncoding(s)
			}),
		},
	}

	for _, pair := range [][2]string{
		{"sjis", "shift_jis"},
		{"eucjp", "euc-jp"},
		{"latin1", "iso-8859-1"},
	} {
		short, enc := pair[0], pair[1]
		rules = append(rules,
			Rule{
				TransformationRule: domain.TransformationRule{
					Name:        short + "-to-utf8",
					Description: fmt.Sprintf("Convert %s to UTF-8", enc),
					Category:    domain.CategoryAdvanced,
				},
				Apply: fallible(func(s string) (string, error) { return Convert(s, enc, "utf-8", ModeReplace) }),
			},
			Rule{
				TransformationRule: domain.TransformationRule{
					Name:        "utf8-to-" + short,
					Description: fmt.Sprintf("Convert UTF-8 to %s", enc),
					Category:    domain.CategoryAdvanced,
				},
				Apply: fallible(func(s string) (string, error) { return Convert(s, "utf-8", enc, ModeReplace) }),
			},
		)
	}

	return NewFamily("encoding", rules...)
}

// iconvHandler accepts either "from to [mode]" or "-f from -t to [--error mode]".
func iconvHandler(text string, args []string) (string, error) {
	from, to, mode := args[0], args[1], ModeStrict
	if len(args) > 2 {
		mode = ErrorMode(args[2])
	}

	if strings.HasPrefix(args[0], "-") {
		from, to, mode = autoEncoding, "utf-8", ModeStrict
		for i := 0; i < len(args); i++ {
			flag := args[i]
			switch flag {
			case "-f", "--from", "-t", "--to", "-e", "--error":
			default:
				return "", fmt.Errorf("iconv: unknown flag %s", flag)
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("iconv: flag %s needs a value", flag)
			}
			switch value := args[i+1]; flag {
			case "-f", "--from":
				from = value
			case "-t", "--to":
				to = value
			default:
				mode = ErrorMode(value)
			}
			i++
		}
	}
	return Convert(text, from, to, mode)
}

// CanonicalEncoding maps user-facing names and aliases to a canonical label.
func CanonicalEncoding(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	if alias, ok := encodingAliases[n]; ok {
		return alias
	}
	if alias, ok := encodingAliases[strings.ReplaceAll(n, "_", "-")]; ok {
		return alias
	}
	return strings.ReplaceAll(n, "_", "-")
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch name {
	case "utf-8":
		return unicode.UTF8, nil
	case "utf-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-32":
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM), nil
	case "iso-8859-1":
		return charmap.ISO8859_1, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, name)
	}
	return enc, nil
}

// Convert decodes text from one encoding and re-encodes it into another.
// Text is treated as raw bytes; a source of "auto" is detected.
func Convert(text, from, to string, mode ErrorMode) (string, error) {
	switch mode {
	case ModeStrict, ModeReplace, ModeIgnore:
	default:
		return "", fmt.Errorf("unknown error mode %q (want strict, replace or ignore)", mode)
	}

	src := CanonicalEncoding(from)
	if src == autoEncoding {
		src = DetectEncoding(text)
	}
	dst := CanonicalEncoding(to)

	decoded, err := decode(text, src, mode)
	if err != nil {
		return "", err
	}
	return encode(decoded, dst, mode)
}

func decode(text, name string, mode ErrorMode) (string, error) {
	if name == "utf-8" {
		if utf8.ValidString(text) {
			return text, nil
		}
		switch mode {
		case ModeReplace:
			return strings.ToValidUTF8(text, "\uFFFD"), nil
		case ModeIgnore:
			return strings.ToValidUTF8(text, ""), nil
		}
		return "", fmt.Errorf("cannot decode text as utf-8: invalid byte sequence")
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().String(text)
	if err != nil {
		return "", fmt.Errorf("cannot decode text as %s: %w", name, err)
	}
	if strings.Contains(out, "\uFFFD") && !strings.Contains(text, "\uFFFD") {
		switch mode {
		case ModeStrict:
			return "", fmt.Errorf("cannot decode text as %s: invalid byte sequence", name)
		case ModeIgnore:
			out = strings.ReplaceAll(out, "\uFFFD", "")
		}
	}
	return out, nil
}

func encode(text, name string, mode ErrorMode) (string, error) {
	if name == "utf-8" {
		return text, nil
	}
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}

	switch mode {
	case ModeReplace:
		return encoding.ReplaceUnsupported(enc.NewEncoder()).String(text)
	case ModeIgnore:
		var b strings.Builder
		e := enc.NewEncoder()
		for _, r := range text {
			if s, err := e.String(string(r)); err == nil {
				b.WriteString(s)
			}
		}
		return b.String(), nil
	}

	out, err := enc.NewEncoder().String(text)
	if err != nil {
		return "", fmt.Errorf("cannot encode text to %s: %w", name, err)
	}
	return out, nil
}

// DetectEncoding guesses the encoding of raw text by trying a fixed list of
// candidates and returning the first that decodes cleanly.
func DetectEncoding(text string) string {
	for _, name := range detectionOrder {
		if name == "utf-8" {
			if utf8.ValidString(text) {
				return name
			}
			continue
		}
		if _, err := decode(text, name, ModeStrict); err == nil {
			return name
		}
	}
	return "utf-8"
}
