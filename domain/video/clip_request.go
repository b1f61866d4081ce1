package video

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ClipRequest represents a request to cut one game out of a recording
type ClipRequest struct {
	SourcePath string
	Start      Timestamp
	End        Timestamp
	OrangeTeam string
	BlueTeam   string
	Map        string
	CreatedAt  time.Time
}

// NewClipRequest creates a validated ClipRequest
func NewClipRequest(sourcePath string, start, end Timestamp, orange, blue, mapName string, createdAt time.Time) (*ClipRequest, error) {
	req := &ClipRequest{
		SourcePath: sourcePath,
		Start:      start,
		End:        end,
		OrangeTeam: orange,
		BlueTeam:   blue,
		Map:        mapName,
		CreatedAt:  createdAt,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks that the clip request is valid
func (r *ClipRequest) Validate() error {
	if r.SourcePath == "" {
		return fmt.Errorf("source path is required")
	}

	if !r.Start.Before(r.End) {
		return fmt.Errorf("end time %s must be after start time %s", r.End, r.Start)
	}

	return nil
}

// Duration returns the clip length in seconds
func (r *ClipRequest) Duration() int {
	return r.End.TotalSeconds() - r.Start.TotalSeconds()
}

// OutputFilename returns "EBP - <orange> vs <blue> - <map> (<millis>).<ext>"
func (r *ClipRequest) OutputFilename() string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(r.SourcePath), "."))
	if ext == "" {
		ext = "mp4"
	}
	return fmt.Sprintf("EBP - %s vs %s - %s (%d).%s",
		sanitize(r.OrangeTeam), sanitize(r.BlueTeam), sanitize(r.Map), r.CreatedAt.UnixMilli(), ext)
}

// OutputPath returns the full output path given an output directory
func (r *ClipRequest) OutputPath(outputDir string) string {
	return filepath.Join(outputDir, r.OutputFilename())
}

// sanitize drops characters that are not allowed in file names
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, s)
}
