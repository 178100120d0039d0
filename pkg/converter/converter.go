package converter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
	"github.com/Captniz/SongsterrToMusicXML/pkg/musicxml"
)

// Result is the outcome of one conversion: the assembled document, the
// suggested output file name and any recoverable warnings collected along
// the way.
type Result struct {
	Document *musicxml.ScorePartwise
	FileName string
	Warnings []string
}

// Convert runs the full pipeline on a decoded payload: tuning resolution,
// event normalization, technique pairing, pitch resolution and document
// assembly. Fatal validation errors abort before any document is built;
// pairing problems degrade to warnings on the Result.
func Convert(p *Payload, cfg config.Config) (*Result, error) {
	if len(p.Measures) == 0 {
		return nil, ErrMissingMeasures
	}

	tuning, err := ResolveTuning(p, cfg)
	if err != nil {
		return nil, err
	}

	track, err := Normalize(p)
	if err != nil {
		return nil, err
	}

	spans, warnings := PairTechniques(track.Events)

	mode := ResolveDeadNoteMode(p)
	if err := ResolvePitches(track.Events, tuning, mode); err != nil {
		return nil, err
	}

	doc := Assemble(p, track, spans)

	return &Result{
		Document: doc,
		FileName: OutputFileName(p),
		Warnings: warnings,
	}, nil
}

// ConvertJSON decodes raw track JSON and converts it
func ConvertJSON(data []byte, cfg config.Config) (*Result, error) {
	p, err := DecodePayload(data)
	if err != nil {
		return nil, err
	}
	return Convert(p, cfg)
}

// Write renders the document into dir under the suggested file name and
// returns the final path
func (r *Result) Write(dir string) (string, error) {
	data, err := r.Document.Bytes()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, r.FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write MusicXML: %w", err)
	}
	return path, nil
}
