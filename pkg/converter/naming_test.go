package converter

import "testing"

func TestResolveTitlePriority(t *testing.T) {
	tests := []struct {
		name string
		p    Payload
		want string
	}{
		{"songName wins", Payload{SongName: "A", SongTitle: "B", Title: "C"}, "A"},
		{"songTitle next", Payload{SongTitle: "B", Title: "C"}, "B"},
		{"title next", Payload{Title: "C", Song: "D"}, "C"},
		{"song next", Payload{Song: "D", Name: "E"}, "D"},
		{"name last", Payload{Name: "E"}, "E"},
		{"whitespace skipped", Payload{SongName: "   ", Title: "C"}, "C"},
		{"fallback", Payload{}, "track"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTitle(&tt.p); got != tt.want {
				t.Errorf("ResolveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveAuthorPriority(t *testing.T) {
	tests := []struct {
		name string
		p    Payload
		want string
	}{
		{"author wins", Payload{Author: "A", Artist: "B"}, "A"},
		{"artist next", Payload{Artist: "B", Composer: "C"}, "B"},
		{"composer next", Payload{Composer: "C"}, "C"},
		{"songAuthor next", Payload{SongAuthor: "D"}, "D"},
		{"artistName last", Payload{ArtistName: "E"}, "E"},
		{"fallback", Payload{}, "unknown-author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveAuthor(&tt.p); got != tt.want {
				t.Errorf("ResolveAuthor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveEditorFallbacks(t *testing.T) {
	tests := []struct {
		name string
		p    Payload
		want string
	}{
		{"editor wins", Payload{Editor: "A", EditedBy: "B", RevisionID: "9"}, "A"},
		{"editedBy next", Payload{EditedBy: "B"}, "B"},
		{"editorName next", Payload{EditorName: "C"}, "C"},
		{"username next", Payload{Username: "D"}, "D"},
		{"revisionAuthor last", Payload{RevisionAuthor: "E"}, "E"},
		{"revision id fallback", Payload{RevisionID: "12345"}, "12345"},
		{"unknown fallback", Payload{}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEditor(&tt.p); got != tt.want {
				t.Errorf("ResolveEditor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Back In Black", "Back_In_Black"},
		{"AC/DC", "AC_DC"},
		{"already-safe_name", "already-safe_name"},
		{"  padded  ", "padded"},
		{"señor año", "señor_año"},
		{"", "track"},
		{"///", "___"},
	}

	for _, tt := range tests {
		if got := SafeFileName(tt.in); got != tt.want {
			t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputFileName(t *testing.T) {
	p := &Payload{SongName: "My Song", Artist: "The Band", Editor: "ed"}
	want := "My_Song-The_Band-ed.musicxml"
	if got := OutputFileName(p); got != want {
		t.Errorf("OutputFileName() = %q, want %q", got, want)
	}
}
