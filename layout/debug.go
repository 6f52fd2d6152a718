package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type debugDump struct {
	Stats  Stats   `json:"stats"`
	Layout *Result `json:"layout"`
}

// WriteDebugJSON dumps the layout result and its stats as JSON, creating the
// parent directory when needed. Barcode rasters are omitted.
func WriteDebugJSON(res *Result, stats Stats, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(debugDump{Stats: stats, Layout: res}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
