// Package formula serializes snapshot sequences into the piecewise
// text grammar consumed by the graphing engine, splitting the output
// into numbered sections when it would exceed the configured length.
package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"midigraph/model"
)

// ErrTooLong means a single clause exceeds the section length limit,
// which cannot be fixed by splitting.
var ErrTooLong = errors.New("formula clause exceeds maximum length")

// DefaultName is the formula name used when Options.Name is empty.
const DefaultName = "A"

// Clause is one piece of the piecewise formula. BoundMs is the time at
// which the next piece takes over; Final marks the catch-all piece at
// the end of the song.
type Clause struct {
	BoundMs int64
	Final   bool
	Body    string
}

// Section is a contiguous run of clauses kept under the length limit.
// Clauses keep their true bounds; the catch-all rewrite of a section's
// last clause happens only at render time.
type Section struct {
	Clauses []Clause
}

type Options struct {
	Name      string
	MaxLength int // 0 disables splitting
}

// Compile serializes a processed song into newline-separated formulas:
// the piecewise note formula (split into sections plus a dispatcher
// when too long), the flattened soundfont array B and its stride C.
func Compile(song *model.ProcessedSong, opts Options) (string, error) {
	name := opts.Name
	if name == "" {
		name = DefaultName
	}

	sections, err := Split(BuildClauses(song.Snapshots), opts.MaxLength)
	if err != nil {
		return "", err
	}

	var formulas []string
	if len(sections) == 1 {
		formulas = append(formulas, renderSection(name, sections[0]))
	} else {
		formulas = append(formulas, renderDispatcher(name, sections))
		for i, s := range sections {
			formulas = append(formulas, renderSection(sectionName(name, i+1), s))
		}
	}
	formulas = append(formulas, renderFontArray(song.SoundFonts), renderFontStride(song.SoundFonts))

	return strings.Join(formulas, "\n"), nil
}

// BuildClauses turns each snapshot into a clause bounded by the next
// snapshot's time. The last clause is the catch-all.
func BuildClauses(snapshots []model.Snapshot) []Clause {
	if len(snapshots) == 0 {
		snapshots = []model.Snapshot{{TimeMs: 0}}
	}
	clauses := make([]Clause, len(snapshots))
	for i, snap := range snapshots {
		c := Clause{Body: renderNotes(snap.Notes)}
		if i == len(snapshots)-1 {
			c.Final = true
		} else {
			c.BoundMs = snapshots[i+1].TimeMs
		}
		clauses[i] = c
	}
	return clauses
}

// Split greedily packs clauses into sections: a clause that would push
// the current section past maxLength closes it and starts the next.
// Single-pass, never re-balancing earlier sections, so identical input
// always yields identical output.
func Split(clauses []Clause, maxLength int) ([]Section, error) {
	var sections []Section
	var current []Clause
	currentLength := 0

	for _, c := range clauses {
		l := len(renderClause(c, c.Final))
		if maxLength > 0 && l > maxLength {
			return nil, fmt.Errorf("%w: clause of %v bytes at %v, limit %v",
				ErrTooLong, l, renderBound(c.BoundMs), maxLength)
		}
		if maxLength > 0 && currentLength+l > maxLength && len(current) > 0 {
			sections = append(sections, Section{Clauses: current})
			current = nil
			currentLength = 0
		}
		current = append(current, c)
		currentLength += l
	}

	return append(sections, Section{Clauses: current}), nil
}

func sectionName(name string, i int) string {
	return fmt.Sprintf("%s_{%d}", name, i)
}

// renderSection writes one formula. The final clause of every section
// renders with the always-true bound: the dispatcher, not the bound,
// decides when the section stops applying.
func renderSection(name string, s Section) string {
	parts := make([]string, len(s.Clauses))
	for i, c := range s.Clauses {
		parts[i] = renderClause(c, c.Final || i == len(s.Clauses)-1)
	}
	return name + `=\left\{` + strings.Join(parts, ",") + `\right\}`
}

// renderDispatcher writes the section selector, piecewise on the true
// bounds of each section's last clause.
func renderDispatcher(name string, sections []Section) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		last := s.Clauses[len(s.Clauses)-1]
		bound := renderBound(last.BoundMs)
		if last.Final || i == len(sections)-1 {
			bound = `\infty`
		}
		parts[i] = "t<" + bound + ":" + sectionName(name, i+1)
	}
	return name + `=\left\{` + strings.Join(parts, ",") + `\right\}`
}

func renderClause(c Clause, alwaysTrue bool) string {
	bound := renderBound(c.BoundMs)
	if alwaysTrue {
		bound = `\infty`
	}
	return "t<" + bound + ":" + c.Body
}

// renderBound writes milliseconds as seconds in the shortest exact
// decimal form, e.g. 500 -> "0.5".
func renderBound(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64)
}

func renderNotes(notes []model.SnapshotNote) string {
	parts := make([]string, 0, len(notes)*3)
	for _, n := range notes {
		parts = append(parts,
			strconv.Itoa(n.Semitone),
			strconv.Itoa(int(n.Velocity)),
			strconv.Itoa(n.Soundfont))
	}
	return `\left[` + strings.Join(parts, ",") + `\right]`
}

func renderFontArray(m model.SoundFontMap) string {
	flat := m.Flatten()
	parts := make([]string, len(flat))
	for i, w := range flat {
		parts[i] = strconv.FormatFloat(float64(w), 'f', -1, 32)
	}
	return `B=\left[` + strings.Join(parts, ",") + `\right]`
}

func renderFontStride(m model.SoundFontMap) string {
	return "C=" + strconv.Itoa(m.Stride)
}
