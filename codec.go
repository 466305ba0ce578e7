package denseid

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

// Codec encodes/decodes map values for the binary snapshot surface.
// Implementations must be safe for concurrent use.
//
// Snapshots record the codec name in their header, so a file written with
// one codec is validated and decoded with the same codec on read.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// CodecByName returns a built-in codec by its stable name.
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSONCodec{}, true
	case "go-json":
		return GoJSONCodec{}, true
	default:
		return nil, false
	}
}

// JSONCodec is the standard-library JSON codec. The most portable,
// lowest-dependency option.
type JSONCodec struct{}

// Marshal encodes the value to JSON.
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSONCodec) Name() string { return "json" }

// GoJSONCodec is a JSON codec backed by github.com/goccy/go-json.
type GoJSONCodec struct{}

// Marshal encodes the value to JSON.
func (GoJSONCodec) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (GoJSONCodec) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns the unique name of the codec ("go-json").
func (GoJSONCodec) Name() string { return "go-json" }

// DefaultCodec is the codec used by Map.WriteTo when none is given.
// Existing snapshots are self-describing, so changing this only affects
// newly written data.
var DefaultCodec Codec = GoJSONCodec{}
