package prompt

import (
	"fmt"
	"io"
)

// ShowHelp prints usage information for the compare tool.
func ShowHelp(w io.Writer, minYear, maxYear int) {
	fmt.Fprintf(w, `Tennis Compare
==============

Estimates who would win a match between two players, each taken from a
season of your choosing, on a given surface and format.

Usage:
  go run ./cmd/compare [options]

Options:
  -a string
        Player A name (prompted when omitted)
  -year-a int
        Player A season, %[1]d-%[2]d (prompted when omitted)
  -b string
        Player B name (prompted when omitted)
  -year-b int
        Player B season, %[1]d-%[2]d (prompted when omitted)
  -surface string
        Hard, Clay, Grass or Carpet (default Hard)
  -best-of int
        3 or 5 (default 3)
  -json
        Print the comparison as JSON instead of a report
  -help
        Show this help message

Examples:
  # Answer every question interactively
  go run ./cmd/compare

  # Fully specified
  go run ./cmd/compare -a "Roger Federer" -year-a 2006 -b "Rafael Nadal" -year-b 2008 -surface clay -best-of 5
`, minYear, maxYear)
}
