// Package main is the entry point for the songsterr2musicxml CLI
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Captniz/SongsterrToMusicXML/pkg/api"
	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
	"github.com/Captniz/SongsterrToMusicXML/pkg/converter"
	"github.com/Captniz/SongsterrToMusicXML/pkg/songsterr"
	"github.com/Captniz/SongsterrToMusicXML/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	outputDir  string
	instrument string
	trackIndex int
	rawOutput  bool
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "songsterr2musicxml",
	Short: "Convert Songsterr tablature tracks to MusicXML",
	Long: `songsterr2musicxml converts Songsterr track JSON into standard
MusicXML notation, with hammer-on/pull-off, slide, tie, staccato and
dead-note markup preserved.

Examples:
  songsterr2musicxml convert track.json
  cat track.json | songsterr2musicxml convert
  songsterr2musicxml tab2midi track.json
  songsterr2musicxml search "paranoid" -i bass
  songsterr2musicxml download 1234 -t 0
  songsterr2musicxml tui
  songsterr2musicxml serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert [input.json]",
	Short: "Convert track JSON to MusicXML (stdin when no file given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConvert,
}

var tab2midiCmd = &cobra.Command{
	Use:   "tab2midi [input.json]",
	Short: "Convert track JSON to a standard MIDI file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTab2MIDI,
}

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search Songsterr songs by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var downloadCmd = &cobra.Command{
	Use:   "download <songId>",
	Short: "Download a track and convert it to MusicXML",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFileName, "Path to converter.config")

	convertCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")

	tab2midiCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")

	searchCmd.Flags().StringVarP(&instrument, "instrument", "i", "", "Instrument filter (guitar, bass, drums)")

	downloadCmd.Flags().IntVarP(&trackIndex, "track", "t", 0, "Track index within the song")
	downloadCmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the enriched track JSON instead of converting")
	downloadCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(tab2midiCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() config.Config {
	return config.Load(configPath)
}

func resolveOutputDir(cfg config.Config) (string, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return "", err
		}
		return outputDir, nil
	}
	return cfg.OutputDir()
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	data, err := readInput(args)
	if err != nil {
		return err
	}

	result, err := converter.ConvertJSON(data, cfg)
	if err != nil {
		return err
	}

	dir, err := resolveOutputDir(cfg)
	if err != nil {
		return err
	}

	path, err := result.Write(dir)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	fmt.Printf("MusicXML written to: %s\n", path)
	return nil
}

func runTab2MIDI(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	data, err := readInput(args)
	if err != nil {
		return err
	}

	payload, err := converter.DecodePayload(data)
	if err != nil {
		return err
	}

	midiData, name, err := converter.ConvertToMIDI(payload, cfg)
	if err != nil {
		return err
	}

	dir, err := resolveOutputDir(cfg)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, midiData, 0644); err != nil {
		return err
	}

	fmt.Printf("MIDI written to: %s\n", path)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	client := songsterr.New()

	songs, err := client.Search(args[0], instrument)
	if err != nil {
		return err
	}

	if len(songs) == 0 {
		fmt.Println("No songs found.")
		return nil
	}

	for _, song := range songs {
		fmt.Printf("%-10s %s — %s\n", song.SongID.String(), song.Title, song.Artist)
	}
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := songsterr.New()
	songID := args[0]

	meta, err := client.Meta(songID)
	if err != nil {
		return err
	}
	if trackIndex < 0 || trackIndex >= len(meta.Tracks) {
		return fmt.Errorf("track index %d out of range: song has %d tracks", trackIndex, len(meta.Tracks))
	}

	raw, err := client.TrackJSON(songID, meta.Revision(), meta.ImageID(), strconv.Itoa(trackIndex))
	if err != nil {
		return err
	}

	enriched, err := meta.EnrichTrackJSON(raw)
	if err != nil {
		return err
	}

	if rawOutput {
		_, err := os.Stdout.Write(enriched)
		return err
	}

	result, err := converter.ConvertJSON(enriched, cfg)
	if err != nil {
		return err
	}

	dir, err := resolveOutputDir(cfg)
	if err != nil {
		return err
	}

	path, err := result.Write(dir)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	fmt.Printf("MusicXML written to: %s\n", path)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(loadConfig())
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort, loadConfig())
}
