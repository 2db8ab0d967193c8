package output

import (
	"encoding/json"
	"io"
	"time"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	if rep.Timestamp == "" {
		rep.Timestamp = time.Now().Format(time.RFC3339)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
