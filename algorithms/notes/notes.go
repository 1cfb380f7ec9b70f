// Package notes converts between frequencies and equal-tempered note
// names, and resolves caller-supplied reference pitches.
package notes

import (
	"fmt"
	"math"
)

// A4 tuning reference.
const (
	referenceHz   = 440.0
	referenceMidi = 69
)

// Two spellings per pitch class; index 0 is C.
var (
	sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// Note is an equal-tempered note nearest to some frequency.
type Note struct {
	// Name is the canonical spelling with octave, e.g. "A4".
	Name string
	// ReferenceHz is the exact frequency of the named note.
	ReferenceHz float64
	// Cents is the rounded offset of the input frequency from
	// ReferenceHz, in cents.
	Cents int
}

// Unknown is the sentinel returned for invalid frequencies.
var Unknown = Note{Name: "unknown"}

// FromFrequency maps a frequency to the nearest equal-tempered note.
// Non-positive or non-finite frequencies yield Unknown.
func FromFrequency(frequencyHz float64) Note {
	if frequencyHz <= 0 || math.IsNaN(frequencyHz) || math.IsInf(frequencyHz, 0) {
		return Unknown
	}

	n := 12.0*math.Log2(frequencyHz/referenceHz) + float64(referenceMidi)
	r := int(math.Round(n))
	cents := int(math.Round((n - float64(r)) * 100.0))

	pc := ((r % 12) + 12) % 12
	octave := int(math.Floor(float64(r)/12.0)) - 1

	// The shorter spelling wins; ties go to the sharp table.
	name := sharpNames[pc]
	if len(flatNames[pc]) < len(name) {
		name = flatNames[pc]
	}

	return Note{
		Name:        fmt.Sprintf("%s%d", name, octave),
		ReferenceHz: midiToHz(r),
		Cents:       cents,
	}
}

// CentsBetween returns the signed interval from reference to frequency
// in cents. Positive means sharp of the reference, negative flat. Both
// inputs must be positive; the result is unrounded.
func CentsBetween(frequencyHz, referenceFreqHz float64) float64 {
	return 1200.0 * math.Log2(frequencyHz/referenceFreqHz)
}

func midiToHz(midi int) float64 {
	return referenceHz * math.Pow(2.0, float64(midi-referenceMidi)/12.0)
}
