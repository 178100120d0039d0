package converter

import (
	"sort"
	"strconv"

	"github.com/Captniz/SongsterrToMusicXML/pkg/musicxml"
)

// PartID is the single instrumental part emitted by Assemble
const PartID = "P1"

// Assemble builds the MusicXML document from the normalized, paired,
// pitch-resolved event stream. It performs no I/O; the caller owns writing
// the document out.
func Assemble(p *Payload, track *NormalizedTrack, spans []Span) *musicxml.ScorePartwise {
	title := ResolveTitle(p)
	partName := firstNonEmpty("track", p.Instrument, p.Name)

	divisions := computeDivisions(track.Events)
	starts, ends := spanLookup(spans)

	score := &musicxml.ScorePartwise{
		Version: "4.0",
		Work:    &musicxml.Work{WorkTitle: title},
		Identification: &musicxml.Identification{
			Creators: []musicxml.Creator{
				{Type: "composer", Name: ResolveAuthor(p)},
				{Type: "editor", Name: ResolveEditor(p)},
			},
		},
		PartList: musicxml.PartList{
			ScoreParts: []musicxml.ScorePart{{ID: PartID, PartName: partName}},
		},
	}

	part := musicxml.Part{ID: PartID}

	for mi, info := range track.Measures {
		measure := musicxml.Measure{Number: strconv.Itoa(info.Number)}

		if mi == 0 {
			measure.Attributes = &musicxml.Attributes{
				Divisions: divisions,
				Time:      &musicxml.Time{Beats: info.Time[0], BeatType: info.Time[1]},
				Clef:      &musicxml.Clef{Sign: "G", Line: 2},
			}
		} else if info.TimeChanged {
			measure.Attributes = &musicxml.Attributes{
				Time: &musicxml.Time{Beats: info.Time[0], BeatType: info.Time[1]},
			}
		}

		for vi, voice := range measureVoices(track.Events, mi) {
			if vi > 0 {
				measure.AddBackup(voiceTicks(track.Events, voice, divisions))
			}
			for _, idx := range voice {
				for _, note := range buildEventNotes(track.Events, idx, divisions, starts[idx], ends[idx]) {
					measure.AddNote(note)
				}
			}
		}

		part.Measures = append(part.Measures, measure)
	}

	score.Parts = []musicxml.Part{part}
	return score
}

// measureVoices groups the event indices of one measure by voice, keeping
// stream order within each voice
func measureVoices(events []Event, measure int) [][]int {
	byVoice := map[int][]int{}
	var order []int
	for idx, ev := range events {
		if ev.Measure != measure {
			continue
		}
		if _, seen := byVoice[ev.Voice]; !seen {
			order = append(order, ev.Voice)
		}
		byVoice[ev.Voice] = append(byVoice[ev.Voice], idx)
	}
	sort.Ints(order)

	voices := make([][]int, 0, len(order))
	for _, v := range order {
		voices = append(voices, byVoice[v])
	}
	return voices
}

func voiceTicks(events []Event, voice []int, divisions int) int {
	total := 0
	for _, idx := range voice {
		total += events[idx].Duration.Scale(divisions)
	}
	return total
}

// computeDivisions picks the smallest divisions-per-quarter that represents
// every event duration as an integer, so duration arithmetic stays exact
// even with tuplets.
func computeDivisions(events []Event) int {
	divisions := 1
	for _, ev := range events {
		d := Frac(ev.Duration.Num, ev.Duration.Den)
		divisions = lcm(divisions, d.Den)
	}
	return divisions
}

func spanLookup(spans []Span) (starts, ends map[int][]Span) {
	starts = map[int][]Span{}
	ends = map[int][]Span{}
	for _, s := range spans {
		starts[s.Start] = append(starts[s.Start], s)
		ends[s.End] = append(ends[s.End], s)
	}
	return starts, ends
}

// buildEventNotes renders one event as MusicXML notes: a single rest, or a
// chord whose members share a stem via <chord/> on every note after the
// first. Span markup anchors on the first note; technical string/fret
// markup is per note, from the original tab coordinates.
func buildEventNotes(events []Event, idx, divisions int, startSpans, endSpans []Span) []musicxml.Note {
	ev := events[idx]
	duration := ev.Duration.Scale(divisions)
	typeName, dots := noteType(ev.Base)

	if ev.IsRest() {
		note := musicxml.Note{
			Rest:     &musicxml.Empty{},
			Duration: duration,
			Voice:    ev.Voice,
			Type:     typeName,
		}
		for i := 0; i < dots; i++ {
			note.Dots = append(note.Dots, musicxml.Empty{})
		}
		return []musicxml.Note{note}
	}

	ordered := make([]EventNote, len(ev.Notes))
	copy(ordered, ev.Notes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].MIDI < ordered[j].MIDI })

	var result []musicxml.Note
	for ni, en := range ordered {
		note := musicxml.Note{
			Duration: duration,
			Voice:    ev.Voice,
			Type:     typeName,
		}
		if ni > 0 {
			note.Chord = &musicxml.Empty{}
		}
		for i := 0; i < dots; i++ {
			note.Dots = append(note.Dots, musicxml.Empty{})
		}
		if ev.Tuplet != nil {
			note.TimeModification = &musicxml.TimeModification{
				ActualNotes: ev.Tuplet.Actual,
				NormalNotes: ev.Tuplet.Normal,
			}
		}

		if en.Unpitched {
			note.Unpitched = &musicxml.Unpitched{DisplayStep: "C", DisplayOctave: 4}
		} else {
			pitch := musicxml.PitchFromMIDI(en.MIDI)
			note.Pitch = &pitch
		}
		if en.Dead {
			note.Notehead = "x"
		}

		notations := &musicxml.Notations{}
		fret := en.Fret
		if en.Dead {
			fret = 0
		}
		notations.Technical = &musicxml.Technical{
			String: en.String + 1,
			Fret:   &fret,
		}

		if ni == 0 {
			if ev.Staccato {
				notations.Articulations = &musicxml.Articulations{Staccato: &musicxml.Empty{}}
			}
			applySpans(events, &note, notations, startSpans, endSpans)
		} else {
			applyTieSpans(events, en, &note, notations, startSpans, endSpans)
		}

		note.Notations = notations
		result = append(result, note)
	}
	return result
}

// applySpans attaches connective markup for every span anchored at this
// event to its first (lowest) note.
func applySpans(events []Event, note *musicxml.Note, notations *musicxml.Notations, startSpans, endSpans []Span) {
	for _, s := range startSpans {
		switch s.Kind {
		case SpanHammerPull:
			notations.Slurs = append(notations.Slurs, musicxml.Slur{Type: "start", Number: 1})
			if isHammerOn(events, s) {
				ensureTechnical(notations).HammerOns = append(ensureTechnical(notations).HammerOns,
					musicxml.HammerOn{Type: "start", Number: 1})
			} else {
				ensureTechnical(notations).PullOffs = append(ensureTechnical(notations).PullOffs,
					musicxml.PullOff{Type: "start", Number: 1})
			}
		case SpanSlide:
			notations.Glissandos = append(notations.Glissandos, musicxml.Glissando{Type: "start", Number: 1})
			notations.Slides = append(notations.Slides, musicxml.Slide{Type: "start", Number: 1})
			if s.SlideType == "legato" {
				notations.Slurs = append(notations.Slurs, musicxml.Slur{Type: "start", Number: 1})
			}
		case SpanTie:
			note.Ties = append(note.Ties, musicxml.Tie{Type: "start"})
			notations.Tied = append(notations.Tied, musicxml.Tied{Type: "start"})
		}
	}

	for _, s := range endSpans {
		switch s.Kind {
		case SpanHammerPull:
			notations.Slurs = append(notations.Slurs, musicxml.Slur{Type: "stop", Number: 1})
			if isHammerOn(events, s) {
				ensureTechnical(notations).HammerOns = append(ensureTechnical(notations).HammerOns,
					musicxml.HammerOn{Type: "stop", Number: 1})
			} else {
				ensureTechnical(notations).PullOffs = append(ensureTechnical(notations).PullOffs,
					musicxml.PullOff{Type: "stop", Number: 1})
			}
		case SpanSlide:
			notations.Glissandos = append(notations.Glissandos, musicxml.Glissando{Type: "stop", Number: 1})
			notations.Slides = append(notations.Slides, musicxml.Slide{Type: "stop", Number: 1})
			if s.SlideType == "legato" {
				notations.Slurs = append(notations.Slurs, musicxml.Slur{Type: "stop", Number: 1})
			}
		case SpanTie:
			note.Ties = append(note.Ties, musicxml.Tie{Type: "stop"})
			notations.Tied = append(notations.Tied, musicxml.Tied{Type: "stop"})
		}
	}
}

// applyTieSpans extends tie markup to chord members beyond the first when
// the same pitch appears on both ends of the tie.
func applyTieSpans(events []Event, en EventNote, note *musicxml.Note, notations *musicxml.Notations, startSpans, endSpans []Span) {
	for _, s := range startSpans {
		if s.Kind == SpanTie && eventHasMIDI(events[s.End], en.MIDI) {
			note.Ties = append(note.Ties, musicxml.Tie{Type: "start"})
			notations.Tied = append(notations.Tied, musicxml.Tied{Type: "start"})
		}
	}
	for _, s := range endSpans {
		if s.Kind == SpanTie && eventHasMIDI(events[s.Start], en.MIDI) {
			note.Ties = append(note.Ties, musicxml.Tie{Type: "stop"})
			notations.Tied = append(notations.Tied, musicxml.Tied{Type: "stop"})
		}
	}
}

func eventHasMIDI(ev Event, midi int) bool {
	for _, n := range ev.Notes {
		if !n.Unpitched && n.MIDI == midi {
			return true
		}
	}
	return false
}

func ensureTechnical(n *musicxml.Notations) *musicxml.Technical {
	if n.Technical == nil {
		n.Technical = &musicxml.Technical{}
	}
	return n.Technical
}

// isHammerOn classifies a hammer-on/pull-off span by pitch direction:
// ascending or equal is a hammer-on, descending a pull-off.
func isHammerOn(events []Event, s Span) bool {
	from, okFrom := events[s.Start].LowestMIDI()
	to, okTo := events[s.End].LowestMIDI()
	if !okFrom || !okTo {
		return true
	}
	return to >= from
}

var noteTypeNames = []struct {
	value Fraction
	name  string
}{
	{Fraction{4, 1}, "whole"},
	{Fraction{2, 1}, "half"},
	{Fraction{1, 1}, "quarter"},
	{Fraction{1, 2}, "eighth"},
	{Fraction{1, 4}, "16th"},
	{Fraction{1, 8}, "32nd"},
	{Fraction{1, 16}, "64th"},
}

// noteType maps a notated duration in quarters to a MusicXML note type and
// dot count. Durations with no notatable shape return an empty type, which
// is valid MusicXML (the duration element still times the note correctly).
func noteType(base Fraction) (string, int) {
	for _, entry := range noteTypeNames {
		if base.Equal(entry.value) {
			return entry.name, 0
		}
		if base.Equal(entry.value.Mul(3, 2)) {
			return entry.name, 1
		}
		if base.Equal(entry.value.Mul(7, 4)) {
			return entry.name, 2
		}
	}
	return "", 0
}
