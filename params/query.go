package params

import (
	"net/url"
	"strings"
)

// ParseQuery parses a raw query string into decoded keys and values.
//
// A key that occurs once maps to a string; a key that occurs more than once
// maps to a []string in order of appearance. A trailing "[]" on a key is
// stripped, so "id[]=1" yields {"id": "1"} and "id[]=1&id[]=2" yields
// {"id": ["1", "2"]}. Keys are form-decoded. Values are only percent-decoded,
// so a literal "+" such as a time zone offset survives. Malformed escapes are
// kept verbatim.
func ParseQuery(raw string) map[string]any {
	out := make(map[string]any)

	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		key = strings.TrimSuffix(key, "[]")
		if key == "" {
			continue
		}
		if u, err := url.PathUnescape(value); err == nil {
			value = u
		}

		switch cur := out[key].(type) {
		case nil:
			out[key] = value
		case string:
			out[key] = []string{cur, value}
		case []string:
			out[key] = append(cur, value)
		}
	}

	return out
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
