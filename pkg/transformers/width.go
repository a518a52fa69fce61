package transformers

import (
	"strings"

	"github.com/aretw0/textkit/pkg/domain"
	"golang.org/x/text/width"
)

const kanaOffset = 0x60

// NewWidth returns the Japanese width and kana rules.
func NewWidth() *Family {
	return NewFamily("width",
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "fh",
				Description: "Convert full-width characters to half-width",
				Example:     "'ＡＢＣ１２３' -> 'ABC123'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(width.Narrow.String),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "hf",
				Description: "Convert half-width characters to full-width",
				Example:     "'ABC123' -> 'ＡＢＣ１２３'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(width.Widen.String),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "j",
				Description: "Convert hiragana to katakana",
				Example:     "'ひらがな' -> 'ヒラガナ'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(hiraganaToKatakana),
		},
		Rule{
			TransformationRule: domain.TransformationRule{
				Name:        "J",
				Description: "Convert katakana to hiragana",
				Example:     "'カタカナ' -> 'かたかな'",
				Category:    domain.CategoryAdvanced,
			},
			Apply: noArgs(katakanaToHiragana),
		},
	)
}

func hiraganaToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'ぁ' && r <= 'ゖ') || r == 'ゝ' || r == 'ゞ' {
			return r + kanaOffset
		}
		return r
	}, s)
}

func katakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'ァ' && r <= 'ヶ') || r == 'ヽ' || r == 'ヾ' {
			return r - kanaOffset
		}
		return r
	}, s)
}
