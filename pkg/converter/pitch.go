package converter

import (
	"fmt"
	"strings"
)

// DeadNoteMode selects how dead (x) notes are rendered. The mode is read
// once per conversion and applied uniformly.
type DeadNoteMode string

const (
	// DeadNoteStandard renders dead notes as normal pitches with an x notehead
	DeadNoteStandard DeadNoteMode = "standard"
	// DeadNoteUnpitched renders dead notes without a definite pitch
	DeadNoteUnpitched DeadNoteMode = "unpitched"
)

// ResolveDeadNoteMode reads the payload's dead-note flags. An explicit
// deadNoteMode wins; deadNotesAsUnpitched is the boolean shortcut.
func ResolveDeadNoteMode(p *Payload) DeadNoteMode {
	switch strings.ToLower(strings.TrimSpace(p.DeadNoteMode)) {
	case string(DeadNoteStandard):
		return DeadNoteStandard
	case string(DeadNoteUnpitched):
		return DeadNoteUnpitched
	}
	if p.DeadNotesAsUnpitched != nil {
		if *p.DeadNotesAsUnpitched {
			return DeadNoteUnpitched
		}
		return DeadNoteStandard
	}
	return DeadNoteStandard
}

// ResolvePitches combines each event's string/fret coordinates with the
// tuning map to fill in absolute pitches. A string index outside the tuning
// is a malformed payload and aborts the conversion.
func ResolvePitches(events []Event, tuning []int, mode DeadNoteMode) error {
	for i := range events {
		ev := &events[i]
		if ev.IsRest() {
			continue
		}
		for j := range ev.Notes {
			note := &ev.Notes[j]
			if note.String < 0 || note.String >= len(tuning) {
				return fmt.Errorf("%w: string %d with %d strings tuned (measure %d)",
					ErrStringOutOfRange, note.String, len(tuning), ev.Measure+1)
			}
			note.MIDI = tuning[note.String] + note.Fret
			if note.Dead && mode == DeadNoteUnpitched {
				note.Unpitched = true
			}
		}
	}
	return nil
}
