package cache

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

// reserved holds characters that are commonly prohibited in file names.
// The period is included so the cache extension stays unambiguous.
const reserved = "#%&{}<>*?/$!'\":@+`|=\\."

var underscoreRun = regexp.MustCompile(`__+`)

// Normalize turns a mirror display name into a lowercase, file-system-safe token.
// Accents are stripped, reserved characters dropped and spaces replaced by underscores.
func Normalize(name string) (string, error) {
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(stripMarks, name)
	if err != nil {
		return "", errutils.Wrapf(err, "normalize %q", name)
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case strings.ContainsRune(reserved, r):
		case r == ' ':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}

	out := underscoreRun.ReplaceAllString(b.String(), "_")
	out = strings.TrimRight(out, "_")
	if out == "" {
		return "", errutils.Wrapf(errutils.ErrInvalidName, "normalize %q", name)
	}
	return strings.ToLower(out), nil
}
