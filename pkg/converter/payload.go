package converter

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// DecodePayload decodes raw track JSON into a typed Payload. The upstream
// service is loose about shapes (measures and tuning sometimes arrive as
// index-keyed objects, ids as numbers), so decoding tolerates those forms;
// anything it cannot make sense of is simply left zero-valued and caught by
// the later validation steps.
func DecodePayload(data []byte) (*Payload, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrNotObject
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, ErrNotObject
	}

	p := &Payload{}

	str := func(key string) string {
		s, _ := jsonString(top[key])
		return s
	}

	p.SongName = str("songName")
	p.SongTitle = str("songTitle")
	p.Title = str("title")
	p.Song = str("song")
	p.Name = str("name")

	p.Author = str("author")
	p.Artist = str("artist")
	p.Composer = str("composer")
	p.SongAuthor = str("songAuthor")
	p.ArtistName = str("artistName")

	p.Editor = str("editor")
	p.EditedBy = str("editedBy")
	p.EditorName = str("editorName")
	p.Username = str("username")
	p.RevisionAuthor = str("revisionAuthor")

	p.Instrument = str("instrument")
	p.SongID = str("songId")
	p.RevisionID = str("revisionId")

	if n, ok := jsonInt(top["strings"]); ok && n > 0 {
		p.Strings = n
	}
	p.Tuning = decodeTuning(top["tuning"])
	if s, ok := jsonString(top["deadNoteMode"]); ok {
		p.DeadNoteMode = s
	}
	if b, ok := jsonBool(top["deadNotesAsUnpitched"]); ok {
		p.DeadNotesAsUnpitched = &b
	}

	p.Measures = decodeMeasures(top["measures"])

	return p, nil
}

func decodeMeasures(raw json.RawMessage) []Measure {
	type entry struct {
		index int
		raw   json.RawMessage
	}
	var entries []entry

	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		for i, value := range list {
			entries = append(entries, entry{index: i, raw: value})
		}
	} else {
		// Some payloads key measures by index instead of using a list
		var keyed map[string]json.RawMessage
		if json.Unmarshal(raw, &keyed) != nil {
			return nil
		}
		for key, value := range keyed {
			idx, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil {
				continue
			}
			entries = append(entries, entry{index: idx, raw: value})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })
	}

	var measures []Measure
	for _, item := range entries {
		var fields map[string]json.RawMessage
		if json.Unmarshal(item.raw, &fields) != nil {
			continue
		}

		m := Measure{Index: item.index}
		if idx, ok := jsonInt(fields["index"]); ok {
			m.Index = idx
		}
		m.Signature = decodeSignature(fields["signature"])

		var voices []json.RawMessage
		if json.Unmarshal(fields["voices"], &voices) == nil {
			for _, rawVoice := range voices {
				m.Voices = append(m.Voices, decodeVoice(rawVoice))
			}
		}

		measures = append(measures, m)
	}

	sort.SliceStable(measures, func(i, j int) bool { return measures[i].Index < measures[j].Index })
	return measures
}

func decodeSignature(raw json.RawMessage) *[2]int {
	var pair []int
	if json.Unmarshal(raw, &pair) != nil || len(pair) != 2 {
		return nil
	}
	if pair[0] <= 0 || pair[1] <= 0 {
		return nil
	}
	return &[2]int{pair[0], pair[1]}
}

func decodeVoice(raw json.RawMessage) Voice {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return Voice{}
	}

	var beats []json.RawMessage
	if json.Unmarshal(fields["beats"], &beats) != nil {
		return Voice{}
	}

	v := Voice{}
	for _, rawBeat := range beats {
		var beatFields map[string]json.RawMessage
		if json.Unmarshal(rawBeat, &beatFields) != nil {
			continue
		}

		b := Beat{}
		_ = json.Unmarshal(beatFields["duration"], &b.Duration)
		if n, ok := jsonInt(beatFields["tuplet"]); ok && n > 1 {
			b.Tuplet = n
		}
		if flag, ok := jsonBool(beatFields["rest"]); ok {
			b.Rest = flag
		}

		var notes []json.RawMessage
		if json.Unmarshal(beatFields["notes"], &notes) == nil {
			for _, rawNote := range notes {
				if note, ok := decodeNote(rawNote); ok {
					b.Notes = append(b.Notes, note)
				}
			}
		}

		v.Beats = append(v.Beats, b)
	}
	return v
}

func decodeNote(raw json.RawMessage) (RawNote, bool) {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return RawNote{}, false
	}

	n := RawNote{}
	if v, ok := jsonInt(fields["string"]); ok {
		n.String = &v
	}
	if v, ok := jsonInt(fields["fret"]); ok {
		n.Fret = &v
	}
	if flag, ok := jsonBool(fields["rest"]); ok {
		n.Rest = flag
	}
	if flag, ok := jsonBool(fields["dead"]); ok {
		n.Dead = flag
	}
	if flag, ok := jsonBool(fields["staccato"]); ok {
		n.Staccato = flag
	}
	if flag, ok := jsonBool(fields["hp"]); ok {
		n.HP = flag
	}
	if s, ok := jsonString(fields["slide"]); ok {
		n.Slide = strings.ToLower(s)
	}
	if flag, ok := jsonBool(fields["tie"]); ok {
		n.Tie = flag
	}
	return n, true
}

// decodeTuning accepts a list of pitches, a list of {value|note|pitch|midi}
// objects, or either form keyed by string index.
func decodeTuning(raw json.RawMessage) []int {
	var entries []json.RawMessage

	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		entries = list
	} else {
		var keyed map[string]json.RawMessage
		if json.Unmarshal(raw, &keyed) != nil {
			return nil
		}
		type indexed struct {
			index int
			raw   json.RawMessage
		}
		var ordered []indexed
		for key, value := range keyed {
			idx, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil {
				continue
			}
			ordered = append(ordered, indexed{index: idx, raw: value})
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })
		for _, entry := range ordered {
			entries = append(entries, entry.raw)
		}
	}

	var tuning []int
	for _, entry := range entries {
		if v, ok := jsonInt(entry); ok {
			tuning = append(tuning, v)
			continue
		}
		var fields map[string]json.RawMessage
		if json.Unmarshal(entry, &fields) != nil {
			continue
		}
		for _, key := range []string{"value", "note", "pitch", "midi"} {
			if v, ok := jsonInt(fields[key]); ok {
				tuning = append(tuning, v)
				break
			}
		}
	}
	return tuning
}

func jsonString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	// Numeric ids are stringified
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

func jsonInt(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}
	var f float64
	if json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	return int(f), true
}

func jsonBool(raw json.RawMessage) (bool, bool) {
	if raw == nil {
		return false, false
	}
	var b bool
	if json.Unmarshal(raw, &b) != nil {
		return false, false
	}
	return b, true
}
