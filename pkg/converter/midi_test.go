package converter

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
)

func midiTestTrack(t *testing.T) *NormalizedTrack {
	t.Helper()
	p := &Payload{
		Measures: []Measure{{
			Voices: []Voice{{Beats: []Beat{
				beatNote([]float64{1, 4}, 0, 0),
				beatNote([]float64{1, 4}, 0, 2),
				{Duration: []float64{1, 2}, Rest: true},
			}}},
		}},
	}
	track, err := Normalize(p)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if err := ResolvePitches(track.Events, []int{40}, DeadNoteStandard); err != nil {
		t.Fatalf("ResolvePitches() error = %v", err)
	}
	return track
}

func TestGenerateMIDIHeader(t *testing.T) {
	data, err := GenerateMIDI(midiTestTrack(t))
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}

	if len(data) < 14 || string(data[:4]) != "MThd" {
		t.Fatal("output is not a standard MIDI file")
	}
	// conductor track plus one voice track
	if tracks := binary.BigEndian.Uint16(data[10:12]); tracks != 2 {
		t.Errorf("track count = %d, want 2", tracks)
	}
	if division := binary.BigEndian.Uint16(data[12:14]); division != ticksPerQuarter {
		t.Errorf("division = %d, want %d", division, ticksPerQuarter)
	}
}

func TestGenerateMIDIEmptyTrack(t *testing.T) {
	if _, err := GenerateMIDI(nil); !errors.Is(err, ErrMissingMeasures) {
		t.Errorf("GenerateMIDI(nil) error = %v, want ErrMissingMeasures", err)
	}
	if _, err := GenerateMIDI(&NormalizedTrack{}); !errors.Is(err, ErrMissingMeasures) {
		t.Errorf("GenerateMIDI(empty) error = %v, want ErrMissingMeasures", err)
	}
}

func TestConvertToMIDI(t *testing.T) {
	p, err := DecodePayload([]byte(`{
		"songName": "Riff",
		"tuning": [64],
		"measures": [{"voices": [{"beats": [
			{"duration": [1, 4], "notes": [{"string": 0, "fret": 0}]}
		]}]}]
	}`))
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}

	data, name, err := ConvertToMIDI(p, config.Config{DefaultIntervalSemitones: 5})
	if err != nil {
		t.Fatalf("ConvertToMIDI() error = %v", err)
	}
	if string(data[:4]) != "MThd" {
		t.Error("output is not a standard MIDI file")
	}
	if name != "Riff-unknown-author-unknown.mid" {
		t.Errorf("name = %q, want Riff-unknown-author-unknown.mid", name)
	}
}

func TestConvertToMIDIMissingMeasures(t *testing.T) {
	_, _, err := ConvertToMIDI(&Payload{}, config.Config{})
	if !errors.Is(err, ErrMissingMeasures) {
		t.Errorf("error = %v, want ErrMissingMeasures", err)
	}
}
