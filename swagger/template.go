package swagger

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// segmentPattern matches a single templated path segment. Per RFC 3986 path
// segments are separated by "/", so a placeholder never spans a slash.
const segmentPattern = "[^/]+"

// Template is a compiled Swagger path template such as "/users/{id}".
//
// Templates without placeholders match by exact string equality. Templates
// with placeholders are compiled into an anchored regexp where every
// placeholder captures one or more non-slash characters. Trailing slashes
// are significant and no prefix matching is performed.
type Template struct {
	template string
	regexp   *regexp.Regexp
	names    []string
}

// NewTemplate compiles a path template. It returns an error for unbalanced
// braces, empty placeholder names and duplicated placeholder names.
func NewTemplate(tpl string) (*Template, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, err
	}

	if len(idxs) == 0 {
		return &Template{template: tpl}, nil
	}

	var (
		pattern strings.Builder
		names   []string
		end     int
	)

	pattern.WriteByte('^')

	for i := 0; i < len(idxs); i += 2 {
		raw := tpl[end:idxs[i]]
		end = idxs[i+1]

		name := tpl[idxs[i]+1 : end-1]
		if name == "" {
			return nil, fmt.Errorf("swagger: missing placeholder name in %q", tpl)
		}
		if slices.Contains(names, name) {
			return nil, fmt.Errorf("swagger: duplicated placeholder %q in %q", name, tpl)
		}

		fmt.Fprintf(&pattern, "%s(%s)", regexp.QuoteMeta(raw), segmentPattern)
		names = append(names, name)
	}

	pattern.WriteString(regexp.QuoteMeta(tpl[end:]))
	pattern.WriteByte('$')

	re, err := compileRegexp(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("swagger: compile template %q: %w", tpl, err)
	}

	return &Template{
		template: tpl,
		regexp:   re,
		names:    names,
	}, nil
}

// String returns the original template.
func (t *Template) String() string {
	return t.template
}

// Names returns the placeholder names in order of appearance.
func (t *Template) Names() []string {
	return t.names
}

// IsLiteral reports whether the template has no placeholders.
func (t *Template) IsLiteral() bool {
	return t.regexp == nil
}

// Match reports whether the request path matches the template.
func (t *Template) Match(path string) bool {
	if t.regexp == nil {
		return path == t.template
	}
	return t.regexp.MatchString(path)
}

// Capture returns the path segment bound to the named placeholder. The second
// result is false when the path does not match or the template has no
// placeholder with that name.
func (t *Template) Capture(path, name string) (string, bool) {
	idx := slices.Index(t.names, name)
	if idx < 0 {
		return "", false
	}

	matches := t.regexp.FindStringSubmatch(path)
	if matches == nil || idx+1 >= len(matches) {
		return "", false
	}

	return matches[idx+1], true
}

// Matches reports whether path matches the template tpl. Malformed templates
// never match.
func Matches(path, tpl string) bool {
	t, err := NewTemplate(tpl)
	if err != nil {
		return false
	}
	return t.Match(path)
}

// braceIndices returns the start and end+1 indices of each {...} pair in s.
// Returns an error if braces are unbalanced or nested.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level != 1 {
				return nil, fmt.Errorf("swagger: nested braces in %q", s)
			}
			idxs = append(idxs, i)
		case '}':
			if level--; level != 0 {
				return nil, fmt.Errorf("swagger: unbalanced braces in %q", s)
			}
			idxs = append(idxs, i+1)
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("swagger: unbalanced braces in %q", s)
	}
	return idxs, nil
}

// regexpCache caches compiled template regexps by pattern string. The number
// of patterns is bounded by the number of path templates in loaded documents.
var regexpCache sync.Map

// compileRegexp returns a cached *regexp.Regexp for the given pattern,
// compiling and caching it on first use.
func compileRegexp(pattern string) (*regexp.Regexp, error) {
	if v, ok := regexpCache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := regexpCache.LoadOrStore(pattern, re)

	return actual.(*regexp.Regexp), nil
}
