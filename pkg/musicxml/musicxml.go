// Package musicxml provides a score-partwise MusicXML document model
package musicxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Empty marshals to an empty element (e.g. <chord/>, <rest/>)
type Empty struct{}

// ScorePartwise is the root element of a MusicXML document
type ScorePartwise struct {
	XMLName        xml.Name        `xml:"score-partwise"`
	Version        string          `xml:"version,attr"`
	Work           *Work           `xml:"work,omitempty"`
	Identification *Identification `xml:"identification,omitempty"`
	PartList       PartList        `xml:"part-list"`
	Parts          []Part          `xml:"part"`
}

// Work holds the work title
type Work struct {
	WorkTitle string `xml:"work-title"`
}

// Identification holds creator credits
type Identification struct {
	Creators []Creator `xml:"creator"`
}

// Creator is a credited person with a role (composer, arranger, ...)
type Creator struct {
	Type string `xml:"type,attr"`
	Name string `xml:",chardata"`
}

// PartList declares the score parts
type PartList struct {
	ScoreParts []ScorePart `xml:"score-part"`
}

// ScorePart declares one part in the part list
type ScorePart struct {
	ID       string `xml:"id,attr"`
	PartName string `xml:"part-name"`
}

// Part holds the measures of one instrumental part
type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

// Measure is one bar of music. Items holds the measure content (notes and
// backups) in document order; a custom marshaller keeps the mixed content
// model intact.
type Measure struct {
	Number     string
	Attributes *Attributes
	Items      []MeasureItem
}

// MeasureItem is an element that may appear in measure content
type MeasureItem interface {
	measureItem()
}

func (Note) measureItem()   {}
func (Backup) measureItem() {}

// Backup rewinds the measure cursor so another voice can be written
type Backup struct {
	Duration int `xml:"duration"`
}

// AddNote appends a note to the measure content
func (m *Measure) AddNote(n Note) {
	m.Items = append(m.Items, n)
}

// AddBackup appends a backup to the measure content
func (m *Measure) AddBackup(duration int) {
	m.Items = append(m.Items, Backup{Duration: duration})
}

// MarshalXML writes the measure with its number attribute, attributes block
// and interleaved note/backup content
func (m Measure) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "measure"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "number"}, Value: m.Number}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if m.Attributes != nil {
		if err := e.EncodeElement(m.Attributes, xml.StartElement{Name: xml.Name{Local: "attributes"}}); err != nil {
			return err
		}
	}
	for _, item := range m.Items {
		var local string
		switch item.(type) {
		case Note:
			local = "note"
		case Backup:
			local = "backup"
		default:
			continue
		}
		if err := e.EncodeElement(item, xml.StartElement{Name: xml.Name{Local: local}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// Attributes carries divisions, time signature and clef
type Attributes struct {
	Divisions int   `xml:"divisions,omitempty"`
	Time      *Time `xml:"time,omitempty"`
	Clef      *Clef `xml:"clef,omitempty"`
}

// Time is a time signature
type Time struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

// Clef is a staff clef
type Clef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line,omitempty"`
}

// Note is one note, chord member or rest.
// Field order matches the MusicXML content model for <note>.
type Note struct {
	Chord            *Empty            `xml:"chord,omitempty"`
	Pitch            *Pitch            `xml:"pitch,omitempty"`
	Unpitched        *Unpitched        `xml:"unpitched,omitempty"`
	Rest             *Empty            `xml:"rest,omitempty"`
	Duration         int               `xml:"duration"`
	Ties             []Tie             `xml:"tie,omitempty"`
	Voice            int               `xml:"voice,omitempty"`
	Type             string            `xml:"type,omitempty"`
	Dots             []Empty           `xml:"dot,omitempty"`
	TimeModification *TimeModification `xml:"time-modification,omitempty"`
	Notehead         string            `xml:"notehead,omitempty"`
	Notations        *Notations        `xml:"notations,omitempty"`
}

// Pitch is a definite pitch
type Pitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

// Unpitched is an indefinite pitch placed on the staff for display
type Unpitched struct {
	DisplayStep   string `xml:"display-step"`
	DisplayOctave int    `xml:"display-octave"`
}

// Tie is the sounding tie element (pairs with the notated Tied)
type Tie struct {
	Type string `xml:"type,attr"`
}

// TimeModification describes tuplet timing (actual notes in the time of normal)
type TimeModification struct {
	ActualNotes int `xml:"actual-notes"`
	NormalNotes int `xml:"normal-notes"`
}

// Notations groups notated markup attached to a note
type Notations struct {
	Tied          []Tied         `xml:"tied,omitempty"`
	Slurs         []Slur         `xml:"slur,omitempty"`
	Glissandos    []Glissando    `xml:"glissando,omitempty"`
	Slides        []Slide        `xml:"slide,omitempty"`
	Technical     *Technical     `xml:"technical,omitempty"`
	Articulations *Articulations `xml:"articulations,omitempty"`
}

// Tied is the notated tie
type Tied struct {
	Type string `xml:"type,attr"`
}

// Slur connects two notes with a slur line
type Slur struct {
	Type   string `xml:"type,attr"`
	Number int    `xml:"number,attr"`
}

// Glissando connects two notes with a glissando line
type Glissando struct {
	Type   string `xml:"type,attr"`
	Number int    `xml:"number,attr"`
}

// Slide connects two notes with a slide line
type Slide struct {
	Type   string `xml:"type,attr"`
	Number int    `xml:"number,attr"`
}

// Technical holds tablature and fretted-instrument markup
type Technical struct {
	HammerOns []HammerOn `xml:"hammer-on,omitempty"`
	PullOffs  []PullOff  `xml:"pull-off,omitempty"`
	String    int        `xml:"string,omitempty"`
	Fret      *int       `xml:"fret,omitempty"`
}

// HammerOn marks a hammer-on start or stop
type HammerOn struct {
	Type   string `xml:"type,attr"`
	Number int    `xml:"number,attr"`
}

// PullOff marks a pull-off start or stop
type PullOff struct {
	Type   string `xml:"type,attr"`
	Number int    `xml:"number,attr"`
}

// Articulations holds per-note articulation marks
type Articulations struct {
	Staccato *Empty `xml:"staccato,omitempty"`
}

var stepTable = []struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"D", 1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"A", 1}, {"B", 0},
}

// PitchFromMIDI converts a MIDI note number to a pitch (sharps for accidentals)
func PitchFromMIDI(midi int) Pitch {
	entry := stepTable[((midi % 12) + 12) % 12]
	return Pitch{
		Step:   entry.step,
		Alter:  entry.alter,
		Octave: midi/12 - 1,
	}
}

// MIDI converts a pitch back to its MIDI note number
func (p Pitch) MIDI() int {
	semis := map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}
	return (p.Octave+1)*12 + semis[p.Step] + p.Alter
}

const header = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">
`

// WriteTo writes the document as indented XML with the MusicXML doctype
func (s *ScorePartwise) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, header)
	if err != nil {
		return int64(n), err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return int64(n), fmt.Errorf("failed to encode MusicXML: %w", err)
	}
	return int64(n), enc.Flush()
}

// Bytes renders the document to a byte slice
func (s *ScorePartwise) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
