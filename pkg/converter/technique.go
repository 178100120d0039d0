package converter

import "fmt"

// spanTracker is the {idle, open} state machine for one connective
// technique kind within one voice. Songsterr marks only the start of a
// hammer-on/pull-off or slide; the next pitched event in the voice acts as
// the end marker. A new start on that closing event both closes the old
// span and opens the next one, which is the auto-close-and-reopen recovery
// for chained or malformed markers.
type spanTracker struct {
	kind  SpanKind
	voice int
	open  int // event index of the open start, -1 when idle
}

func newSpanTracker(kind SpanKind, voice int) *spanTracker {
	return &spanTracker{kind: kind, voice: voice, open: -1}
}

// close pairs the open start with the given end event, if any
func (t *spanTracker) close(end int, slideType string, spans *[]Span) {
	if t.open < 0 {
		return
	}
	*spans = append(*spans, Span{
		Kind:      t.kind,
		Voice:     t.voice,
		Start:     t.open,
		End:       end,
		SlideType: slideType,
	})
	t.open = -1
}

// abandon drops the open start without a destination, reporting a warning
func (t *spanTracker) abandon(events []Event, warnings *[]string, reason string) {
	if t.open < 0 {
		return
	}
	ev := events[t.open]
	*warnings = append(*warnings, fmt.Sprintf(
		"unmatched %s start in measure %d voice %d (%s); note rendered without markup",
		t.kind, ev.Measure+1, t.voice, reason))
	t.open = -1
}

// PairTechniques scans each voice's events in time order and associates
// technique start markers with their end events. Unmatched starts and
// stray tie markers are recoverable: the affected note is rendered without
// the connective markup and a warning is collected.
func PairTechniques(events []Event) ([]Span, []string) {
	var spans []Span
	var warnings []string

	for _, voice := range voiceOrder(events) {
		hp := newSpanTracker(SpanHammerPull, voice)
		slide := newSpanTracker(SpanSlide, voice)
		slideType := ""
		lastPitched := -1

		for idx, ev := range events {
			if ev.Voice != voice {
				continue
			}

			if ev.IsRest() {
				// A rest breaks any pending connection
				hp.abandon(events, &warnings, "rest before pairing")
				slide.abandon(events, &warnings, "rest before pairing")
				slideType = ""
				continue
			}

			hp.close(idx, "", &spans)
			slide.close(idx, slideType, &spans)
			slideType = ""

			if ev.TieStop {
				if lastPitched < 0 {
					warnings = append(warnings, fmt.Sprintf(
						"tie marker with no preceding note in measure %d voice %d; marker discarded",
						ev.Measure+1, voice))
				} else {
					spans = append(spans, Span{
						Kind:  SpanTie,
						Voice: voice,
						Start: lastPitched,
						End:   idx,
					})
				}
			}

			if ev.HP {
				hp.open = idx
			}
			if ev.SlideType != "" {
				slide.open = idx
				slideType = ev.SlideType
			}

			lastPitched = idx
		}

		hp.abandon(events, &warnings, "end of voice")
		slide.abandon(events, &warnings, "end of voice")
	}

	return spans, warnings
}

func voiceOrder(events []Event) []int {
	seen := map[int]bool{}
	var voices []int
	for _, ev := range events {
		if !seen[ev.Voice] {
			seen[ev.Voice] = true
			voices = append(voices, ev.Voice)
		}
	}
	return voices
}
