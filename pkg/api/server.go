// Package api provides the REST API server for SongsterrToMusicXML
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Captniz/SongsterrToMusicXML/pkg/config"
	"github.com/Captniz/SongsterrToMusicXML/pkg/converter"
	"github.com/Captniz/SongsterrToMusicXML/pkg/songsterr"
)

// @title SongsterrToMusicXML API
// @version 1.0
// @description API for converting Songsterr track JSON to MusicXML
// @host localhost:8080
// @BasePath /api/v1

// Server holds the API dependencies
type Server struct {
	cfg    config.Config
	client *songsterr.Client
}

// NewServer creates a server with the given configuration
func NewServer(cfg config.Config) *Server {
	return &Server{cfg: cfg, client: songsterr.New()}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert", s.handleConvert)
		v1.POST("/convert/midi", s.handleConvertMIDI)
		v1.GET("/search", s.handleSearch)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port int, cfg config.Config) error {
	return NewServer(cfg).Router().Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "songsterr2musicxml",
	})
}

// handleConvert godoc
// @Summary Convert track JSON to MusicXML
// @Description Post a Songsterr track JSON payload and receive a .musicxml file
// @Tags convert
// @Accept json
// @Produce application/vnd.recordare.musicxml+xml
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert [post]
func (s *Server) handleConvert(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		return
	}

	result, err := converter.ConvertJSON(payload, s.cfg)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	data, err := result.Document.Bytes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, warning := range result.Warnings {
		c.Header("X-Conversion-Warning", warning)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.FileName))
	c.Data(http.StatusOK, "application/vnd.recordare.musicxml+xml", data)
}

// handleConvertMIDI godoc
// @Summary Convert track JSON to MIDI
// @Description Post a Songsterr track JSON payload and receive a .mid file
// @Tags convert
// @Accept json
// @Produce audio/midi
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/midi [post]
func (s *Server) handleConvertMIDI(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		return
	}

	p, err := converter.DecodePayload(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, name, err := converter.ConvertToMIDI(p, s.cfg)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, "audio/midi", data)
}

// handleSearch godoc
// @Summary Search Songsterr songs
// @Description Search songs by name, optionally filtered by instrument
// @Tags search
// @Produce json
// @Param pattern query string true "Song name to search for"
// @Param inst query string false "Instrument filter (guitar, bass, drums)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/search [get]
func (s *Server) handleSearch(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'pattern' query parameter"})
		return
	}

	songs, err := s.client.Search(pattern, c.Query("inst"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"songs": songs})
}

func readPayload(c *gin.Context) ([]byte, bool) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No JSON payload received"})
		return nil, false
	}
	return data, true
}

// statusFor maps validation errors to 400 and everything else to 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, converter.ErrNotObject),
		errors.Is(err, converter.ErrMissingMeasures),
		errors.Is(err, converter.ErrNoStrings),
		errors.Is(err, converter.ErrUnknownDuration),
		errors.Is(err, converter.ErrStringOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
