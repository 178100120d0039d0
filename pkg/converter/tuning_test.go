package converter

import (
	"errors"
	"testing"

	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func payloadWithStrings(count int) *Payload {
	return &Payload{Strings: count}
}

func TestResolveTuningExplicitWins(t *testing.T) {
	p := &Payload{Tuning: []int{40, 45, 50}}
	cfg := config.Config{
		DefaultTopStringMIDI:     floatPtr(70),
		DefaultIntervalSemitones: 12,
	}

	tuning, err := ResolveTuning(p, cfg)
	if err != nil {
		t.Fatalf("ResolveTuning() error = %v", err)
	}
	want := []int{40, 45, 50}
	if len(tuning) != len(want) {
		t.Fatalf("tuning = %v, want %v", tuning, want)
	}
	for i := range want {
		if tuning[i] != want[i] {
			t.Errorf("tuning[%d] = %d, want %d (explicit tuning must pass through verbatim)", i, tuning[i], want[i])
		}
	}
}

func TestResolveTuningSynthesized(t *testing.T) {
	tests := []struct {
		name string
		p    *Payload
		cfg  config.Config
		want []int
	}{
		{
			name: "six string guitar default",
			p:    payloadWithStrings(6),
			cfg:  config.Config{DefaultIntervalSemitones: 5},
			want: []int{64, 59, 54, 49, 44, 39},
		},
		{
			name: "four string bass default",
			p:    payloadWithStrings(4),
			cfg:  config.Config{DefaultIntervalSemitones: 5},
			want: []int{43, 38, 33, 28},
		},
		{
			name: "five strings bass-like",
			p:    payloadWithStrings(5),
			cfg:  config.Config{DefaultIntervalSemitones: 5},
			want: []int{43, 38, 33, 28, 23},
		},
		{
			name: "configured top string",
			p:    payloadWithStrings(3),
			cfg:  config.Config{DefaultTopStringMIDI: floatPtr(50), DefaultIntervalSemitones: 5},
			want: []int{50, 45, 40},
		},
		{
			name: "configured interval",
			p:    payloadWithStrings(3),
			cfg:  config.Config{DefaultTopStringMIDI: floatPtr(60), DefaultIntervalSemitones: 7},
			want: []int{60, 53, 46},
		},
		{
			name: "invalid interval falls back to 5",
			p:    payloadWithStrings(2),
			cfg:  config.Config{DefaultTopStringMIDI: floatPtr(60), DefaultIntervalSemitones: -2},
			want: []int{60, 55},
		},
		{
			name: "unknown count snaps to nearest table entry",
			p:    payloadWithStrings(10),
			cfg:  config.Config{DefaultIntervalSemitones: 5},
			want: []int{64, 59, 54, 49, 44, 39, 34, 29, 24, 19},
		},
		{
			name: "tiny count snaps to bass entry",
			p:    payloadWithStrings(2),
			cfg:  config.Config{DefaultIntervalSemitones: 5},
			want: []int{43, 38},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning, err := ResolveTuning(tt.p, tt.cfg)
			if err != nil {
				t.Fatalf("ResolveTuning() error = %v", err)
			}
			if len(tuning) != len(tt.want) {
				t.Fatalf("tuning = %v, want %v", tuning, tt.want)
			}
			for i := range tt.want {
				if tuning[i] != tt.want[i] {
					t.Errorf("tuning[%d] = %d, want %d", i, tuning[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolveTuningCountFromNotes(t *testing.T) {
	p := &Payload{
		Measures: []Measure{{
			Voices: []Voice{{
				Beats: []Beat{
					{Duration: []float64{1, 4}, Notes: []RawNote{{String: intPtr(0), Fret: intPtr(0)}}},
					{Duration: []float64{1, 4}, Notes: []RawNote{{String: intPtr(3), Fret: intPtr(2)}}},
				},
			}},
		}},
	}

	tuning, err := ResolveTuning(p, config.Config{DefaultIntervalSemitones: 5})
	if err != nil {
		t.Fatalf("ResolveTuning() error = %v", err)
	}
	// highest string index 3 means four strings, the bass default
	if len(tuning) != 4 {
		t.Fatalf("got %d strings, want 4", len(tuning))
	}
	if tuning[0] != 43 {
		t.Errorf("top string = %d, want 43", tuning[0])
	}
}

func TestResolveTuningNoStrings(t *testing.T) {
	p := &Payload{
		Measures: []Measure{{Voices: []Voice{{Beats: []Beat{{Duration: []float64{1, 1}, Rest: true}}}}}},
	}

	_, err := ResolveTuning(p, config.Config{DefaultIntervalSemitones: 5})
	if !errors.Is(err, ErrNoStrings) {
		t.Errorf("error = %v, want ErrNoStrings", err)
	}
}
