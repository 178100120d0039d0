package converter

import (
	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
)

// Default top-string pitch by string count when the config does not pin one:
// 4/5 strings are assumed bass-like (G2), 6 and up guitar-like (E4).
var defaultTopByStrings = map[int]int{
	4: 43,
	5: 43,
	6: 64,
	7: 64,
	8: 64,
}

// ResolveTuning produces the ordered open-string pitch map, highest string
// first. An explicit payload tuning always wins, regardless of configuration;
// otherwise the tuning is synthesized from the detected string count, the
// configured (or defaulted) top-string pitch and a fixed interval between
// strings.
func ResolveTuning(p *Payload, cfg config.Config) ([]int, error) {
	if len(p.Tuning) > 0 {
		return p.Tuning, nil
	}

	count := stringCount(p)
	if count <= 0 {
		return nil, ErrNoStrings
	}

	top, ok := cfg.TopStringMIDI()
	if !ok {
		top = defaultTopString(count)
	}
	interval := cfg.Interval()

	tuning := make([]int, count)
	for i := range tuning {
		tuning[i] = top - interval*i
	}
	return tuning, nil
}

func stringCount(p *Payload) int {
	if p.Strings > 0 {
		return p.Strings
	}

	max := -1
	for _, m := range p.Measures {
		for _, v := range m.Voices {
			for _, b := range v.Beats {
				for _, n := range b.Notes {
					if n.Rest || n.String == nil {
						continue
					}
					if *n.String > max {
						max = *n.String
					}
				}
			}
		}
	}
	return max + 1
}

// defaultTopString picks the table entry for the string count, falling back
// to the nearest known count (ties resolve downward).
func defaultTopString(count int) int {
	if top, ok := defaultTopByStrings[count]; ok {
		return top
	}
	best, bestDist := 0, -1
	for known := range defaultTopByStrings {
		dist := abs(known - count)
		if bestDist < 0 || dist < bestDist || (dist == bestDist && known < best) {
			best, bestDist = known, dist
		}
	}
	return defaultTopByStrings[best]
}
