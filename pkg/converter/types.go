// Package converter turns Songsterr track JSON into MusicXML documents
package converter

// Payload is the decoded track JSON. It is produced by DecodePayload, which
// absorbs the loose shapes the upstream service emits; past that boundary
// everything is strongly typed.
type Payload struct {
	// Song identification, scanned in priority order by ResolveTitle
	SongName  string
	SongTitle string
	Title     string
	Song      string
	Name      string

	// Credit fields used for the output file name
	Author     string
	Artist     string
	Composer   string
	SongAuthor string
	ArtistName string

	Editor         string
	EditedBy       string
	EditorName     string
	Username       string
	RevisionAuthor string

	Instrument string
	SongID     string
	RevisionID string

	// Strings is the declared string count, 0 when absent
	Strings int

	// Tuning is the explicit open-string tuning (highest string first),
	// empty when the payload carries none
	Tuning []int

	DeadNoteMode         string
	DeadNotesAsUnpitched *bool

	Measures []Measure
}

// Measure is one bar of the track
type Measure struct {
	Index int
	// Signature is the explicit time signature, nil to carry the previous one
	Signature *[2]int
	Voices    []Voice
}

// Voice is one independent line within a measure
type Voice struct {
	Beats []Beat
}

// Beat is one time slot: a chord, a single note or a rest
type Beat struct {
	// Duration is the {numerator, denominator} note value, e.g. {1, 4}
	Duration []float64
	// Tuplet is the tuplet group size (3 = triplet), 0 when none
	Tuplet int
	Rest   bool
	Notes  []RawNote
}

// RawNote is one struck string within a beat
type RawNote struct {
	String *int
	Fret   *int
	Rest   bool

	Dead     bool
	Staccato bool
	// HP marks the start of a hammer-on/pull-off to the next beat
	HP bool
	// Slide is the slide type ("shift", "legato", ...), "" when none
	Slide string
	// Tie marks this note as tied from the previous beat
	Tie bool
}

// TupletRatio is the actual-in-the-time-of-normal timing of a tuplet group
type TupletRatio struct {
	Actual int
	Normal int
}

// EventNote is one pitched (or dead) note of a normalized event
type EventNote struct {
	String int
	Fret   int
	Dead   bool

	// MIDI is filled in by ResolvePitches
	MIDI int
	// Unpitched is set for dead notes under DeadNoteUnpitched mode
	Unpitched bool
}

// Event is one normalized musical occurrence: a note, chord or rest with
// resolved timing. Events are created by Normalize, annotated by
// PairTechniques and ResolvePitches, and consumed by Assemble.
type Event struct {
	Measure int
	Voice   int
	// Start is the offset within the measure in quarter notes
	Start Fraction
	// Duration is the sounding length in quarter notes, tuplet-scaled
	Duration Fraction
	// Base is the notated value before tuplet scaling, used for the note type
	Base   Fraction
	Tuplet *TupletRatio

	Rest  bool
	Notes []EventNote

	Staccato bool

	// Technique markers consumed by PairTechniques
	HP        bool
	SlideType string
	TieStop   bool
}

// IsRest reports whether the event sounds no notes
func (e *Event) IsRest() bool {
	return e.Rest || len(e.Notes) == 0
}

// LowestMIDI returns the lowest resolved pitch of the event, or ok=false
// for rests and fully unpitched events
func (e *Event) LowestMIDI() (int, bool) {
	found := false
	lowest := 0
	for _, n := range e.Notes {
		if n.Unpitched {
			continue
		}
		if !found || n.MIDI < lowest {
			lowest = n.MIDI
			found = true
		}
	}
	return lowest, found
}

// MeasureInfo is the per-measure context Normalize derives for assembly
type MeasureInfo struct {
	Number int
	// Time is the prevailing signature, explicit or carried forward
	Time [2]int
	// TimeChanged is set on the first measure and wherever the signature
	// differs from the previous measure
	TimeChanged bool
}

// NormalizedTrack is the output of Normalize: the flat event stream plus
// the measure contexts it was derived under
type NormalizedTrack struct {
	Measures []MeasureInfo
	Events   []Event
}

// SpanKind identifies the technique a paired span renders
type SpanKind int

const (
	// SpanHammerPull is a hammer-on or pull-off; which of the two is
	// decided at assembly from the pitch direction
	SpanHammerPull SpanKind = iota
	// SpanSlide is a slide/glissando connection
	SpanSlide
	// SpanTie is a tie between equal pitches
	SpanTie
)

func (k SpanKind) String() string {
	switch k {
	case SpanHammerPull:
		return "hammer-on/pull-off"
	case SpanSlide:
		return "slide"
	case SpanTie:
		return "tie"
	}
	return "unknown"
}

// Span is a paired technique annotation connecting two events of one voice.
// Start and End index into the normalized event stream.
type Span struct {
	Kind  SpanKind
	Voice int
	Start int
	End   int
	// SlideType carries the payload's slide flavor for SpanSlide
	SlideType string
}
