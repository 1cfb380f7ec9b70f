package notes

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
	notePattern   = regexp.MustCompile(`^([A-Ga-g])([#b]?)(-?\d)?$`)
)

// semitones maps a spelled pitch class ("C", "C#", "Db", ...) to its
// chromatic index. Both spelling tables feed it; same-name entries agree
// by construction.
var semitones = func() map[string]int {
	m := make(map[string]int, 24)
	for i, name := range sharpNames {
		m[name] = i
	}
	for i, name := range flatNames {
		m[name] = i
	}
	return m
}()

// Parse resolves caller-supplied reference text to a frequency. A plain
// decimal number is taken directly as Hz; otherwise the text is matched
// as a note name (letter, optional # or b, optional signed one-digit
// octave, default octave 4). Unmatched input returns ok=false — callers
// must distinguish "unparseable" from "not given".
func Parse(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}

	if numberPattern.MatchString(trimmed) {
		hz, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || hz <= 0 {
			return 0, false
		}
		return hz, true
	}

	m := notePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, false
	}

	spelled := strings.ToUpper(m[1]) + m[2]
	pc, ok := semitones[spelled]
	if !ok {
		return 0, false
	}

	octave := 4
	if m[3] != "" {
		o, err := strconv.Atoi(m[3])
		if err != nil {
			return 0, false
		}
		octave = o
	}

	midi := pc + (octave+1)*12
	return midiToHz(midi), true
}

// Reference is a caller-supplied expected pitch: either a numeric
// frequency or a note name, resolved through one parser. The zero value
// means "not given".
type Reference struct {
	kind refKind
	hz   float64
	text string
}

type refKind int

const (
	refNone refKind = iota
	refHz
	refName
)

// RefHz builds a numeric reference.
func RefHz(hz float64) Reference {
	return Reference{kind: refHz, hz: hz}
}

// RefName builds a note-name reference from raw caller text.
func RefName(text string) Reference {
	return Reference{kind: refName, text: text}
}

// IsZero reports whether no reference was given.
func (r Reference) IsZero() bool { return r.kind == refNone }

// Label returns the caller's raw input for echoing in results.
func (r Reference) Label() string {
	switch r.kind {
	case refHz:
		return strconv.FormatFloat(r.hz, 'g', -1, 64)
	case refName:
		return r.text
	default:
		return ""
	}
}

// Resolve produces the reference frequency, or ok=false when the
// reference is absent or unparseable.
func (r Reference) Resolve() (float64, bool) {
	switch r.kind {
	case refHz:
		if r.hz <= 0 {
			return 0, false
		}
		return r.hz, true
	case refName:
		return Parse(r.text)
	default:
		return 0, false
	}
}
