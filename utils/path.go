package utils

import (
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath populates environment variables and a leading home directory
// marker in p. Only well-formed $NAME and ${NAME} references to variables set
// in the current environment are replaced. Everything else, including
// references to unset variables and malformed references, is kept as is.
// A home directory that cannot be resolved leaves the text unchanged.
func ExpandPath(p string) string {
	p = expandVars(p)

	if expanded, err := homedir.Expand(p); err == nil {
		return expanded
	}
	return p
}

func isNameByte(c byte, first bool) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || !first && '0' <= c && c <= '9'
}

func expandVars(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '$' || i+1 == len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		var name string
		end := i + 1
		if s[end] == '{' {
			rb := strings.IndexByte(s[end:], '}')
			if rb > 1 && validName(s[end+1:end+rb]) {
				name, end = s[end+1:end+rb], end+rb+1
			}
		} else {
			for end < len(s) && isNameByte(s[end], end == i+1) {
				end++
			}
			name = s[i+1 : end]
		}

		if v, ok := os.LookupEnv(name); name != "" && ok {
			b.WriteString(v)
			i = end
			continue
		}
		b.WriteByte('$')
		i++
	}
	return b.String()
}

func validName(name string) bool {
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i], i == 0) {
			return false
		}
	}
	return name != ""
}
