package converter

import (
	"strings"
	"unicode"
)

// ResolveTitle derives the song title from the payload's identification
// fields in fixed priority order, falling back to "track".
func ResolveTitle(p *Payload) string {
	return firstNonEmpty("track", p.SongName, p.SongTitle, p.Title, p.Song, p.Name)
}

// ResolveAuthor derives the credited author for the output file name
func ResolveAuthor(p *Payload) string {
	return firstNonEmpty("unknown-author", p.Author, p.Artist, p.Composer, p.SongAuthor, p.ArtistName)
}

// ResolveEditor derives the credited tab editor, falling back to the
// revision id when no editor field is present
func ResolveEditor(p *Payload) string {
	fallback := p.RevisionID
	if fallback == "" {
		fallback = "unknown"
	}
	return firstNonEmpty(fallback, p.Editor, p.EditedBy, p.EditorName, p.Username, p.RevisionAuthor)
}

func firstNonEmpty(fallback string, values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return fallback
}

// SafeFileName replaces anything that is not alphanumeric, '-' or '_' with
// an underscore, so titles survive as file names on every platform.
func SafeFileName(value string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "track"
	}
	return b.String()
}

// OutputFileName builds the suggested {title}-{author}-{editor}.musicxml name
func OutputFileName(p *Payload) string {
	name := ResolveTitle(p) + "-" + ResolveAuthor(p) + "-" + ResolveEditor(p)
	return SafeFileName(name) + ".musicxml"
}
