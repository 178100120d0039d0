package converter

import "fmt"

// Normalize walks the payload's measures and produces the ordered event
// stream, one event per beat per voice, with exact rational durations.
// Tuplet groups are rescaled so durations inside a beat still sum exactly;
// beats holding several strings collapse into one chordal event.
func Normalize(p *Payload) (*NormalizedTrack, error) {
	if len(p.Measures) == 0 {
		return nil, ErrMissingMeasures
	}

	track := &NormalizedTrack{}
	prevTime := [2]int{4, 4}

	for mi, measure := range p.Measures {
		info := MeasureInfo{Number: mi + 1, Time: prevTime}
		if measure.Signature != nil {
			info.Time = *measure.Signature
		}
		info.TimeChanged = mi == 0 || info.Time != prevTime
		prevTime = info.Time
		track.Measures = append(track.Measures, info)

		if len(measure.Voices) == 0 {
			track.Events = append(track.Events, wholeMeasureRest(mi, 1, info.Time))
			continue
		}

		for vi, voice := range measure.Voices {
			if len(voice.Beats) == 0 {
				track.Events = append(track.Events, wholeMeasureRest(mi, vi+1, info.Time))
				continue
			}

			start := Zero
			for bi, beat := range voice.Beats {
				ev, err := normalizeBeat(beat)
				if err != nil {
					return nil, fmt.Errorf("measure %d voice %d beat %d: %w", mi+1, vi+1, bi+1, err)
				}
				ev.Measure = mi
				ev.Voice = vi + 1
				ev.Start = start
				start = start.Add(ev.Duration)
				track.Events = append(track.Events, ev)
			}
		}
	}

	return track, nil
}

func normalizeBeat(beat Beat) (Event, error) {
	base, err := beatDuration(beat)
	if err != nil {
		return Event{}, err
	}

	ev := Event{Base: base, Duration: base}
	if beat.Tuplet > 1 {
		normal := tupletNormal(beat.Tuplet)
		ev.Tuplet = &TupletRatio{Actual: beat.Tuplet, Normal: normal}
		ev.Duration = base.Mul(normal, beat.Tuplet)
	}

	if beat.Rest {
		ev.Rest = true
		return ev, nil
	}

	for _, note := range beat.Notes {
		if note.Rest || note.String == nil || note.Fret == nil {
			continue
		}
		ev.Notes = append(ev.Notes, EventNote{
			String: *note.String,
			Fret:   *note.Fret,
			Dead:   note.Dead,
		})
		if note.Staccato {
			ev.Staccato = true
		}
		if note.HP {
			ev.HP = true
		}
		if note.Slide != "" && ev.SlideType == "" {
			ev.SlideType = note.Slide
		}
		if note.Tie {
			ev.TieStop = true
		}
	}

	if len(ev.Notes) == 0 {
		ev.Rest = true
		ev.Staccato = false
		ev.HP = false
		ev.SlideType = ""
		ev.TieStop = false
	}

	return ev, nil
}

// beatDuration maps the {numerator, denominator} duration code to quarter
// notes. A code with no canonical mapping is rejected rather than guessed.
func beatDuration(beat Beat) (Fraction, error) {
	if len(beat.Duration) != 2 {
		return Zero, fmt.Errorf("%w: got %v", ErrUnknownDuration, beat.Duration)
	}
	num := int(beat.Duration[0])
	den := int(beat.Duration[1])
	if float64(num) != beat.Duration[0] || float64(den) != beat.Duration[1] || num <= 0 || den <= 0 {
		return Zero, fmt.Errorf("%w: got %v", ErrUnknownDuration, beat.Duration)
	}
	return Frac(4*num, den), nil
}

// tupletNormal returns the note count a tuplet group plays in the time of:
// the largest power of two below the group size (3 in the time of 2,
// 5 and 6 in the time of 4, ...).
func tupletNormal(actual int) int {
	normal := 1
	for normal*2 < actual {
		normal *= 2
	}
	return normal
}

// wholeMeasureRest fills an empty measure or voice with one rest spanning
// the bar's nominal duration.
func wholeMeasureRest(measure, voice int, time [2]int) Event {
	return Event{
		Measure:  measure,
		Voice:    voice,
		Start:    Zero,
		Base:     Frac(4*time[0], time[1]),
		Duration: Frac(4*time[0], time[1]),
		Rest:     true,
	}
}
