package params

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vitalvas/swaggerrouter/swagger"
)

// Format is a Swagger 2.0 collectionFormat: the encoding of an array value
// inside a single string.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatSSV   Format = "ssv"
	FormatTSV   Format = "tsv"
	FormatPipes Format = "pipes"
	FormatMulti Format = "multi"
)

// DefaultFormat applies when a parameter declares no collectionFormat.
const DefaultFormat = FormatCSV

// whitespace splits ssv values on any single whitespace character.
var whitespace = regexp.MustCompile(`\s`)

// ParseFormat validates a collectionFormat value. An empty value yields
// DefaultFormat; unknown values are spec errors.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return DefaultFormat, nil
	case FormatCSV, FormatSSV, FormatTSV, FormatPipes, FormatMulti:
		return f, nil
	default:
		return "", &swagger.SpecError{Message: fmt.Sprintf("invalid collection format %q", s)}
	}
}

// Delimiter returns the separator of a delimited format. FormatMulti has no
// delimiter: it changes how values are extracted, not how they are split.
func (f Format) Delimiter() (string, error) {
	switch f {
	case FormatCSV, "":
		return ",", nil
	case FormatSSV:
		return " ", nil
	case FormatTSV:
		return "\t", nil
	case FormatPipes:
		return "|", nil
	default:
		return "", &swagger.SpecError{Message: fmt.Sprintf("collection format %q has no delimiter", f)}
	}
}

// Split splits a raw value on the format's delimiter. The split is literal:
// delimiters inside values are not escaped.
func Split(raw string, f Format) ([]string, error) {
	if f == FormatSSV {
		return whitespace.Split(raw, -1), nil
	}

	delim, err := f.Delimiter()
	if err != nil {
		return nil, err
	}

	return strings.Split(raw, delim), nil
}

// Join is the inverse of Split.
func Join(values []string, f Format) (string, error) {
	delim, err := f.Delimiter()
	if err != nil {
		return "", err
	}

	return strings.Join(values, delim), nil
}
