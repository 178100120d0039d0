package converter

import (
	"bytes"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
)

const (
	ticksPerQuarter = 480
	defaultTempoBPM = 120.0
	midiVelocity    = 100
)

// GenerateMIDI renders a pitch-resolved event stream as a type-1 standard
// MIDI file: one conductor track with tempo and time signatures, plus one
// track per voice. Tied events extend the previous note instead of
// restriking it; unpitched dead notes are skipped.
func GenerateMIDI(track *NormalizedTrack) ([]byte, error) {
	if track == nil || len(track.Measures) == 0 {
		return nil, ErrMissingMeasures
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	measureTicks := measureStartTicks(track.Measures)

	if err := s.Add(conductorTrack(track.Measures, measureTicks)); err != nil {
		return nil, fmt.Errorf("failed to add conductor track: %w", err)
	}

	for _, voice := range voiceOrder(track.Events) {
		if err := s.Add(voiceTrack(track.Events, voice, measureTicks)); err != nil {
			return nil, fmt.Errorf("failed to add voice track: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// measureStartTicks accumulates each measure's nominal duration
func measureStartTicks(measures []MeasureInfo) []uint32 {
	starts := make([]uint32, len(measures))
	var tick uint32
	for i, m := range measures {
		starts[i] = tick
		tick += uint32(Frac(4*m.Time[0], m.Time[1]).Scale(ticksPerQuarter))
	}
	return starts
}

func conductorTrack(measures []MeasureInfo, starts []uint32) smf.Track {
	var tr smf.Track

	microsecondsPerBeat := uint32(60000000.0 / defaultTempoBPM)
	tr.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))

	var currentTick uint32
	for i, m := range measures {
		if !m.TimeChanged {
			continue
		}
		delta := starts[i] - currentTick
		currentTick = starts[i]
		denomPower := uint8(0)
		for d := m.Time[1]; d > 1; d /= 2 {
			denomPower++
		}
		tr.Add(delta, smf.Message([]byte{
			0xFF, 0x58, 0x04,
			byte(m.Time[0]), denomPower, 0x18, 0x08,
		}))
	}

	tr.Close(0)
	return tr
}

type timedMessage struct {
	tick uint32
	off  bool
	msg  smf.Message
}

func voiceTrack(events []Event, voice int, measureStarts []uint32) smf.Track {
	var msgs []timedMessage
	// pending note-off index per MIDI pitch, for tie extension
	pendingOff := map[int]int{}

	channel := uint8(0)

	for _, ev := range events {
		if ev.Voice != voice || ev.IsRest() {
			continue
		}

		start := measureStarts[ev.Measure] + uint32(ev.Start.Scale(ticksPerQuarter))
		duration := uint32(ev.Duration.Scale(ticksPerQuarter))
		if ev.Staccato {
			duration = duration / 2
		}
		end := start + duration

		for _, note := range ev.Notes {
			if note.Unpitched {
				continue
			}
			key := uint8(note.MIDI)

			if ev.TieStop {
				if offIdx, ok := pendingOff[note.MIDI]; ok && msgs[offIdx].tick == start {
					msgs[offIdx].tick = end
					continue
				}
			}

			msgs = append(msgs, timedMessage{tick: start, msg: smf.Message(midi.NoteOn(channel, key, midiVelocity))})
			msgs = append(msgs, timedMessage{tick: end, off: true, msg: smf.Message(midi.NoteOff(channel, key))})
			pendingOff[note.MIDI] = len(msgs) - 1
		}
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		// note-offs first so retriggered pitches do not cancel themselves
		return msgs[i].off && !msgs[j].off
	})

	var tr smf.Track
	var currentTick uint32
	for _, m := range msgs {
		tr.Add(m.tick-currentTick, m.msg)
		currentTick = m.tick
	}
	tr.Close(0)
	return tr
}

// ConvertToMIDI runs the core pipeline on a payload and renders the result
// as a standard MIDI file instead of MusicXML. Returns the file data and
// the suggested file name.
func ConvertToMIDI(p *Payload, cfg config.Config) ([]byte, string, error) {
	if len(p.Measures) == 0 {
		return nil, "", ErrMissingMeasures
	}

	tuning, err := ResolveTuning(p, cfg)
	if err != nil {
		return nil, "", err
	}

	track, err := Normalize(p)
	if err != nil {
		return nil, "", err
	}

	if err := ResolvePitches(track.Events, tuning, ResolveDeadNoteMode(p)); err != nil {
		return nil, "", err
	}

	data, err := GenerateMIDI(track)
	if err != nil {
		return nil, "", err
	}

	name := SafeFileName(ResolveTitle(p)+"-"+ResolveAuthor(p)+"-"+ResolveEditor(p)) + ".mid"
	return data, name, nil
}
