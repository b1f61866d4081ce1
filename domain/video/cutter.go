package video

import "context"

// Cutter defines the interface for cutting a game clip out of a recording
// This is a port that can be implemented by different infrastructure adapters
type Cutter interface {
	// Cut copies the clip described by req into outputPath
	Cut(ctx context.Context, req *ClipRequest, outputPath string) error
}

// FileChecker defines the interface for checking file existence
// This is used to validate that source files exist before cutting
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}
