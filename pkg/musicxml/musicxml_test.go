package musicxml

import (
	"encoding/xml"
	"strings"
	"testing"
)

func TestPitchFromMIDI(t *testing.T) {
	tests := []struct {
		midi   int
		step   string
		alter  int
		octave int
	}{
		{60, "C", 0, 4},
		{61, "C", 1, 4},
		{40, "E", 0, 2},
		{66, "F", 1, 4},
		{43, "G", 0, 2},
		{21, "A", 0, 0},
	}

	for _, tt := range tests {
		got := PitchFromMIDI(tt.midi)
		if got.Step != tt.step || got.Alter != tt.alter || got.Octave != tt.octave {
			t.Errorf("PitchFromMIDI(%d) = %+v, want %s alter %d octave %d",
				tt.midi, got, tt.step, tt.alter, tt.octave)
		}
		if back := got.MIDI(); back != tt.midi {
			t.Errorf("PitchFromMIDI(%d).MIDI() = %d", tt.midi, back)
		}
	}
}

func TestMeasureMarshalInterleavesBackup(t *testing.T) {
	pitch := PitchFromMIDI(64)
	m := Measure{Number: "1"}
	m.AddNote(Note{Pitch: &pitch, Duration: 4, Voice: 1})
	m.AddBackup(4)
	m.AddNote(Note{Rest: &Empty{}, Duration: 4, Voice: 2})

	data, err := xml.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `<measure number="1">`) {
		t.Errorf("missing measure number attribute: %s", out)
	}
	noteIdx := strings.Index(out, "<note>")
	backupIdx := strings.Index(out, "<backup>")
	restIdx := strings.Index(out, "<rest")
	if noteIdx < 0 || backupIdx < 0 || restIdx < 0 {
		t.Fatalf("missing elements: %s", out)
	}
	if !(noteIdx < backupIdx && backupIdx < restIdx) {
		t.Errorf("content not in document order: %s", out)
	}
}

func TestMeasureMarshalAttributesFirst(t *testing.T) {
	pitch := PitchFromMIDI(60)
	m := Measure{
		Number: "1",
		Attributes: &Attributes{
			Divisions: 2,
			Time:      &Time{Beats: 4, BeatType: 4},
			Clef:      &Clef{Sign: "G", Line: 2},
		},
	}
	m.AddNote(Note{Pitch: &pitch, Duration: 8, Voice: 1})

	data, err := xml.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	attrIdx := strings.Index(out, "<attributes>")
	noteIdx := strings.Index(out, "<note>")
	if attrIdx < 0 || noteIdx < 0 || attrIdx > noteIdx {
		t.Errorf("attributes must precede notes: %s", out)
	}
	for _, want := range []string{"<divisions>2</divisions>", "<beats>4</beats>", "<beat-type>4</beat-type>", "<sign>G</sign>"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestNoteMarshalOrder(t *testing.T) {
	pitch := Pitch{Step: "F", Alter: 1, Octave: 3}
	fret := 2
	n := Note{
		Chord:    &Empty{},
		Pitch:    &pitch,
		Duration: 2,
		Voice:    1,
		Type:     "eighth",
		Notations: &Notations{
			Technical: &Technical{String: 4, Fret: &fret},
		},
	}

	data, err := xml.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	// chord flag must come before the pitch per the MusicXML content model
	if !(strings.Index(out, "<chord>") < strings.Index(out, "<pitch>")) {
		t.Errorf("chord not before pitch: %s", out)
	}
	for _, want := range []string{"<alter>1</alter>", "<string>4</string>", "<fret>2</fret>"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestWriteToEmitsDoctype(t *testing.T) {
	score := &ScorePartwise{
		Version: "4.0",
		Work:    &Work{WorkTitle: "Test"},
		PartList: PartList{
			ScoreParts: []ScorePart{{ID: "P1", PartName: "track"}},
		},
		Parts: []Part{{ID: "P1"}},
	}

	var b strings.Builder
	if _, err := score.WriteTo(&b); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	out := b.String()

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(out, "<!DOCTYPE score-partwise") {
		t.Error("missing MusicXML doctype")
	}
	if !strings.Contains(out, `<score-partwise version="4.0">`) {
		t.Error("missing root element")
	}
	if !strings.Contains(out, "<work-title>Test</work-title>") {
		t.Error("missing work title")
	}
}
