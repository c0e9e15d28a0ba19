package history

import (
	"regexp"
	"strconv"
	"strings"
)

// LineKind is the category of a single history line
type LineKind int

const (
	LineBlank LineKind = iota
	LineBareYear
	LineDateBoundary
	LineContinuation
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineBareYear:
		return "bare_year"
	case LineDateBoundary:
		return "date_boundary"
	default:
		return "continuation"
	}
}

var (
	bareYearPattern = regexp.MustCompile(`^(\d{4})\s*$`)
	boundaryPattern = regexp.MustCompile(`^\s*(\d{2})-(\d{2})\.\s+([AS])\.(?:\s|$)`)
)

// Line is a classified history line
type Line struct {
	Kind  LineKind
	Text  string // Trimmed line
	Year  int    // Set for LineBareYear
	Month int    // Set for LineDateBoundary
	Day   int    // Set for LineDateBoundary
	House string // Set for LineDateBoundary: "A" or "S"
}

// Classify categorizes one raw history line
func Classify(raw string) Line {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Line{Kind: LineBlank}
	}

	if m := bareYearPattern.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		return Line{Kind: LineBareYear, Text: text, Year: year}
	}

	if m := boundaryPattern.FindStringSubmatch(raw); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return Line{
			Kind:  LineDateBoundary,
			Text:  text,
			Month: month,
			Day:   day,
			House: m[3],
		}
	}

	return Line{Kind: LineContinuation, Text: text}
}
