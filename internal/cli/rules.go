package cli

import (
	"strings"
)

// BuildRuleString turns command-line arguments into a rule string.
// The first argument is the rule string itself; a leading "//" (left by
// shells that treat a single slash specially) collapses to "/". Remaining
// arguments are appended as quoted arguments, so `textkit /r a b` runs
// `/r 'a' 'b'`.
func BuildRuleString(args []string) string {
	if len(args) == 0 {
		return ""
	}

	var sb strings.Builder
	first := args[0]
	if strings.HasPrefix(first, "//") {
		first = first[1:]
	}
	sb.WriteString(first)

	for _, a := range args[1:] {
		sb.WriteByte(' ')
		sb.WriteString(quote(a))
	}
	return sb.String()
}

// IsRuleString reports whether s looks like a rule string rather than a
// subcommand or plain text.
func IsRuleString(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "/") || (strings.HasPrefix(s, "-") && len(s) > 1 && s[1] != '-')
}

func quote(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// RewriteArgs lets flag-form rule strings reach the root command. When the
// first argument starts with "-" but isFlag does not recognize it, that
// argument and the positional arguments following it are moved after "--"
// so the flag parser leaves them alone.
func RewriteArgs(args []string, isFlag func(string) bool) []string {
	if len(args) == 0 || !IsRuleString(args[0]) || !strings.HasPrefix(args[0], "-") || isFlag(args[0]) {
		return args
	}

	end := 1
	for end < len(args) && !strings.HasPrefix(args[end], "-") {
		end++
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, args[end:]...)
	out = append(out, "--")
	out = append(out, args[:end]...)
	return out
}
