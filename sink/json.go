package sink

import (
	"encoding/json"

	"github.com/Alain-L/logmerge/aggregate"
	"github.com/Alain-L/logmerge/record"
)

// jsonEntry is the downstream-sink wire shape from spec.md §6: exactly
// the fields named there, field order unspecified.
type jsonEntry struct {
	Timestamp string `json:"@timestamp"`
	FlowID    string `json:"flowid"`
	Level     string `json:"level"`
	Thread    string `json:"thread"`
	Class     string `json:"class"`
	Method    string `json:"method"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Message   string `json:"message"`
	Logfile   string `json:"logfile"`
}

// MarshalEntry renders e as the JSON object described in spec.md §6,
// using displayName (empty string when unknown) as the "logfile" field.
func MarshalEntry(e record.Entry, displayName string) ([]byte, error) {
	return json.Marshal(jsonEntry{
		Timestamp: e.TimestampText,
		FlowID:    e.FlowID,
		Level:     e.Level.String(),
		Thread:    e.Thread,
		Class:     e.ClassName,
		Method:    e.Method,
		File:      e.SourceFile,
		Line:      e.SourceLine,
		Message:   e.Message,
		Logfile:   displayName,
	})
}

// MarshalWithNames is a convenience for callers holding a DisplayNamer.
func MarshalWithNames(e record.Entry, names aggregate.DisplayNamer) ([]byte, error) {
	name := ""
	if names != nil {
		name = names.DisplayName(e.ReaderID)
	}
	return MarshalEntry(e, name)
}
