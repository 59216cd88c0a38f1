package coverage

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"golang.org/x/net/html/charset"
)

const (
	summaryElement = "coverage"
	lineRateAttr   = "line-rate"
	branchRateAttr = "branch-rate"
)

// ErrMalformed is returned when a report is not well-formed XML
var ErrMalformed = errors.New("malformed coverage report")

// Summary is the top-level line and branch rate of a Cobertura report
type Summary struct {
	Line   float64 `json:"line"`
	Branch float64 `json:"branch"`
}

// Truncate returns a copy of s with both rates truncated (not rounded)
// to three decimal places
func (s Summary) Truncate() Summary {
	return Summary{
		Line:   truncate3(s.Line),
		Branch: truncate3(s.Branch),
	}
}

func truncate3(v float64) float64 {
	return math.Trunc(v*1000) / 1000
}

// RateError reports a rate attribute whose value is not a number
type RateError struct {
	Path  string
	Attr  string
	Value string
	Err   error
}

func (e *RateError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid %s %q: %v", e.Attr, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: invalid %s %q: %v", e.Path, e.Attr, e.Value, e.Err)
}

func (e *RateError) Unwrap() error {
	return e.Err
}

// ParseSummary streams r and reads the rates from the first element named
// "coverage" in document order. Later coverage elements are never visited.
// A well-formed document without one yields a zero Summary.
func ParseSummary(r io.Reader) (Summary, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	// depth is the element nesting level; only one root element and no
	// text outside it are allowed.
	depth := 0
	sawRoot := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			if !sawRoot {
				return Summary{}, fmt.Errorf("%w: no root element", ErrMalformed)
			}
			return Summary{}, nil
		}
		if err != nil {
			return Summary{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				return Summary{}, fmt.Errorf("%w: element <%s> after root element", ErrMalformed, t.Name.Local)
			}
			sawRoot = true
			depth++
			if t.Name.Local == summaryElement {
				return summaryFromAttrs(t.Attr)
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.Trim(t, " \t\r\n\ufeff")) > 0 {
				return Summary{}, fmt.Errorf("%w: text outside root element", ErrMalformed)
			}
		}
	}
}

func summaryFromAttrs(attrs []xml.Attr) (Summary, error) {
	var summary Summary
	for _, attr := range attrs {
		var dst *float64
		switch attr.Name.Local {
		case lineRateAttr:
			dst = &summary.Line
		case branchRateAttr:
			dst = &summary.Branch
		default:
			continue
		}

		v, err := strconv.ParseFloat(attr.Value, 64)
		if err != nil {
			return Summary{}, &RateError{Attr: attr.Name.Local, Value: attr.Value, Err: err}
		}
		*dst = v
	}
	return summary, nil
}

// ExtractSummary reads the coverage summary from the Cobertura file at path.
// ok is false when the file is missing, unreadable or not well-formed XML.
// A non-nil error is returned only for a rate attribute that is not a number.
func ExtractSummary(path string) (summary Summary, ok bool, err error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Summary{}, false, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Summary{}, false, nil
	}
	defer file.Close()

	summary, err = ParseSummary(file)
	if err != nil {
		var rateErr *RateError
		if errors.As(err, &rateErr) {
			rateErr.Path = path
			return Summary{}, false, rateErr
		}
		return Summary{}, false, nil
	}
	return summary, true, nil
}
