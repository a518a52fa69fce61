package transformers_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/keystore"
	"github.com/aretw0/textkit/pkg/ports"
	"github.com/aretw0/textkit/pkg/ports/tests"
	"github.com/aretw0/textkit/pkg/registry"
	"github.com/aretw0/textkit/pkg/transformers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleCase struct {
	rule string
	args []string
	in   string
	want string
}

func runCases(t *testing.T, s ports.Strategy, cases []ruleCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.rule+"/"+tc.in, func(t *testing.T) {
			got, err := s.Transform(tc.in, tc.rule, tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestContract(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	families := append(transformers.Defaults(), transformers.NewCrypto(keystore.StaticKeys{Key: priv}))
	for _, s := range families {
		t.Run(s.Name(), func(t *testing.T) {
			tests.StrategyContractTest(t, s)
		})
	}
}

func TestDefaults_NoCollisions(t *testing.T) {
	r := registry.NewRegistry()
	for _, s := range transformers.Defaults() {
		require.NoError(t, r.Register(s), s.Name())
	}
	assert.Len(t, r.Strategies(), len(transformers.FamilyNames))
}

func TestDefaults_Disabled(t *testing.T) {
	got := transformers.Defaults("hash", "width")
	for _, s := range got {
		assert.NotEqual(t, "hash", s.Name())
		assert.NotEqual(t, "width", s.Name())
	}
	assert.Len(t, got, len(transformers.FamilyNames)-2)
}

func TestBasic(t *testing.T) {
	runCases(t, transformers.NewBasic(), []ruleCase{
		{rule: "t", in: "  Hello World  ", want: "Hello World"},
		{rule: "t", in: "", want: ""},
		{rule: "l", in: "HeLLo", want: "hello"},
		{rule: "u", in: "hello", want: "HELLO"},
	})
}

func TestCase(t *testing.T) {
	runCases(t, transformers.NewCase(), []ruleCase{
		{rule: "p", in: "hello world", want: "HelloWorld"},
		{rule: "p", in: "HELLO-big world", want: "HelloBigWorld"},
		{rule: "c", in: "hello world", want: "helloWorld"},
		{rule: "c", in: "", want: ""},
		{rule: "p", in: "!!!", want: "!!!"},
		{rule: "c", in: "!!!", want: "!!!"},
		{rule: "s", in: "Hello World", want: "hello_world"},
		{rule: "s", in: "helloWorld-foo.bar", want: "hello_world_foo_bar"},
		{rule: "k", in: "Hello World", want: "hello-world"},
		{rule: "k", in: "snake_case value", want: "snake-case-value"},
	})
}

func TestString(t *testing.T) {
	runCases(t, transformers.NewString(), []ruleCase{
		{rule: "R", in: "hello", want: "olleh"},
		{rule: "R", in: "日本語", want: "語本日"},
		{rule: "r", args: []string{"l", "L"}, in: "hello", want: "heLLo"},
		{rule: "r", args: []string{`\n`, ", "}, in: "a\nb", want: "a, b"},
		{rule: "r", args: []string{"", "x"}, in: "abc", want: "abc"},
		{rule: "i", in: "001\n002\n\n A01 ", want: "'001',\n'002',\n'A01',"},
		{rule: "i", in: "  \n", want: ""},
		{rule: "n", in: "e\u0301", want: "\u00e9"},
		{rule: "n", args: []string{"NFD"}, in: "\u00e9", want: "e\u0301"},
		{rule: "n", args: []string{"nfkc"}, in: "ｱ", want: "ア"},
	})
}

func TestString_ReplaceArity(t *testing.T) {
	s := transformers.NewString()

	for _, args := range [][]string{nil, {"only"}} {
		_, err := s.Transform("hello", "r", args)

		var ae *domain.ArityError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "r", ae.Name)
		assert.Equal(t, 2, ae.Expected)
		assert.Equal(t, len(args), ae.Got)
	}
}

func TestString_UnknownNormalizationForm(t *testing.T) {
	_, err := transformers.NewString().Transform("x", "n", []string{"NFX"})
	assert.Error(t, err)
}

func TestMarkup(t *testing.T) {
	runCases(t, transformers.NewMarkup(), []ruleCase{
		{rule: "strip-tags", in: "<p>Hello <b>World</b></p><script>alert(1)</script>", want: "Hello World"},
		{rule: "strip-tags", in: "plain", want: "plain"},
		{rule: "he", in: `<a href="x">`, want: "&lt;a href=&#34;x&#34;&gt;"},
		{rule: "hd", in: "&lt;b&gt; &amp;", want: "<b> &"},
		{rule: "e", in: "a b&c", want: "a+b%26c"},
		{rule: "d", in: "a+b%26c", want: "a b&c"},
	})

	_, err := transformers.NewMarkup().Transform("%zz", "d", nil)
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	runCases(t, transformers.NewHash(), []ruleCase{
		{rule: "sha256", in: "hello", want: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{rule: "b64e", in: "hello", want: "aGVsbG8="},
		{rule: "b64d", in: "aGVsbG8=", want: "hello"},
		{rule: "b64d", in: "aGVs\nbG8=", want: "hello"},
		{rule: "b64d", in: "aGVsbG8", want: "hello"},
	})

	_, err := transformers.NewHash().Transform("!!!", "b64d", nil)
	assert.ErrorContains(t, err, "invalid base64")
}

func TestJSON(t *testing.T) {
	runCases(t, transformers.NewJSON(), []ruleCase{
		{rule: "json", in: `{"b":1,"a":{"d":[1,2],"c":"日本"}}`, want: "{\n  \"a\": {\n    \"c\": \"日本\",\n    \"d\": [\n      1,\n      2\n    ]\n  },\n  \"b\": 1\n}"},
		{rule: "json", in: `{"n": 12345678901234567890}`, want: "{\n  \"n\": 12345678901234567890\n}"},
		{rule: "json", in: `"<tag>"`, want: `"<tag>"`},
		{rule: "jc", in: "{ \"b\": 1, \"a\": [ 1 ] }", want: `{"a":[1],"b":1}`},
	})

	for _, bad := range []string{"{", "not json", `{"a":1} x`} {
		_, err := transformers.NewJSON().Transform(bad, "json", nil)
		assert.Error(t, err, bad)
	}
}

func TestLineEnding(t *testing.T) {
	runCases(t, transformers.NewLineEnding(), []ruleCase{
		{rule: "tr", in: "a\nb", want: "a\r\nb"},
		{rule: "tr", args: []string{`\t`, " "}, in: "a\tb", want: "a b"},
		{rule: "unix-to-windows", in: "a\nb\r\nc", want: "a\r\nb\r\nc"},
		{rule: "windows-to-unix", in: "a\r\nb", want: "a\nb"},
		{rule: "unix-to-mac", in: "a\nb\r\nc", want: "a\rb\r\nc"},
		{rule: "mac-to-unix", in: "a\rb\r\nc\r", want: "a\nb\r\nc\n"},
		{rule: "windows-to-mac", in: "a\r\nb", want: "a\rb"},
		{rule: "mac-to-windows", in: "a\rb\r\n", want: "a\r\nb\r\n"},
		{rule: "normalize", in: "a\r\nb\rc\n", want: "a\nb\nc\n"},
	})
}

func TestWidth(t *testing.T) {
	runCases(t, transformers.NewWidth(), []ruleCase{
		{rule: "fh", in: "ＡＢＣ１２３", want: "ABC123"},
		{rule: "hf", in: "ABC123", want: "ＡＢＣ１２３"},
		{rule: "j", in: "ひらがな", want: "ヒラガナ"},
		{rule: "J", in: "カタカナ", want: "かたかな"},
		{rule: "j", in: "abc", want: "abc"},
	})
}

func TestEncoding_RoundTrip(t *testing.T) {
	s := transformers.NewEncoding()

	sjis, err := s.Transform("日本語", "from-utf8", nil)
	require.NoError(t, err)
	assert.Equal(t, "\x93\xfa\x96\x7b\x8c\xea", sjis)

	back, err := s.Transform(sjis, "iconv", []string{"-f", "sjis", "-t", "utf-8"})
	require.NoError(t, err)
	assert.Equal(t, "日本語", back)

	auto, err := s.Transform(sjis, "to-utf8", nil)
	require.NoError(t, err)
	assert.Equal(t, "日本語", auto)
}

func TestEncoding_Defaults(t *testing.T) {
	s := transformers.NewEncoding()

	got, err := s.Transform("héllo", "iconv", nil)
	require.NoError(t, err)
	assert.Equal(t, "héllo", got)
}

func TestEncoding_Latin1(t *testing.T) {
	s := transformers.NewEncoding()

	got, err := s.Transform("caf\xe9", "latin1-to-utf8", nil)
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	out, err := s.Transform("café", "iconv", []string{"utf-8", "latin1"})
	require.NoError(t, err)
	assert.Equal(t, "caf\xe9", out)
}

func TestEncoding_StrictFailure(t *testing.T) {
	s := transformers.NewEncoding()

	_, err := s.Transform("日本語", "iconv", []string{"utf-8", "latin1"})
	assert.Error(t, err)

	replaced, err := s.Transform("a日b", "iconv", []string{"utf-8", "latin1", "ignore"})
	require.NoError(t, err)
	assert.Equal(t, "ab", replaced)

	_, err = s.Transform("x", "iconv", []string{"utf-8", "klingon"})
	assert.ErrorIs(t, err, transformers.ErrUnsupportedEncoding)

	_, err = s.Transform("x", "iconv", []string{"utf-8", "latin1", "loose"})
	assert.Error(t, err)

	_, err = s.Transform("x", "iconv", []string{"-f", "utf-8", "-t"})
	assert.ErrorContains(t, err, "flag -t needs a value")

	_, err = s.Transform("x", "iconv", []string{"-f", "sjis", "extra"})
	assert.ErrorContains(t, err, "unknown flag extra")
}

func TestEncoding_Detect(t *testing.T) {
	s := transformers.NewEncoding()

	got, err := s.Transform("hello", "detect-encoding", nil)
	require.NoError(t, err)
	assert.Equal(t, "Detected encoding: utf-8", got)

	assert.Equal(t, "shift_jis", transformers.DetectEncoding("\x93\xfa\x96\x7b\x8c\xea"))
}

func TestCanonicalEncoding(t *testing.T) {
	tests := map[string]string{
		"SJIS":        "shift_jis",
		"Shift-JIS":   "shift_jis",
		"UTF8":        "utf-8",
		"utf-8":       "utf-8",
		"latin-1":     "iso-8859-1",
		"EUC_JP":      "euc-jp",
		"iso-2022-jp": "iso-2022-jp",
		"gbk":         "gbk",
		"auto":        "auto",
	}
	for in, want := range tests {
		if got := transformers.CanonicalEncoding(in); got != want {
			t.Errorf("CanonicalEncoding(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCrypto_Roundtrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	s := transformers.NewCrypto(keystore.StaticKeys{Key: priv})

	sealed, err := s.Transform("top secret", "enc", nil)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "secret")

	plain, err := s.Transform(sealed, "dec", nil)
	require.NoError(t, err)
	assert.Equal(t, "top secret", plain)

	_, err = s.Transform("not-base64!", "dec", nil)
	assert.Error(t, err)
}

func TestCrypto_MissingKeys(t *testing.T) {
	s := transformers.NewCrypto(keystore.StaticKeys{})
	_, err := s.Transform("x", "enc", nil)
	assert.ErrorIs(t, err, keystore.ErrKeysNotFound)
}

func TestUnescapeArg(t *testing.T) {
	tests := map[string]string{
		`plain`:      "plain",
		`a\nb`:       "a\nb",
		`\r\n`:       "\r\n",
		`\t\\`:       "\t\\",
		`\x41é`:      "Aé",
		`\U0001F600`: "😀",
		`\q`:         `\q`,
		`\x4`:        `\x4`,
		`end\`:       `end\`,
		`\'quoted\"`: `'quoted"`,
	}
	for in, want := range tests {
		if got := transformers.UnescapeArg(in); got != want {
			t.Errorf("UnescapeArg(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFamily_Panics(t *testing.T) {
	assert.Panics(t, func() {
		transformers.NewFamily("bad", transformers.Rule{TransformationRule: domain.TransformationRule{Name: "x"}})
	})
}
