package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// JSON handles typical structs, maps and slices. Funcs, channels and complex
// numbers are not supported; for those, implement Codec with a custom
// encoding and pass it to the snapshot writer.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when none is configured.
//
// This only affects newly written snapshots. Existing files record their
// codec name and are decoded by selecting it via ByName.
var Default Codec = JSON{}
