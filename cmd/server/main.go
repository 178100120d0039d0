// Package main is the entry point for the SongsterrToMusicXML API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Captniz/SongsterrToMusicXML/pkg/api"
	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	configPath := flag.String("config", config.DefaultFileName, "Path to converter.config")
	flag.Parse()

	fmt.Printf("Starting SongsterrToMusicXML API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port, config.Load(*configPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
