// Package events delivers scan results from the engine's worker to the one
// listener currently attached to a bridge.
package events

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Result is one decoded symbol as sent on the event channel.
type Result struct {
	BarcodeType        int               `json:"barcodeType"`
	BarcodeTypeName    string            `json:"barcodeTypeName"`
	BinaryDataAsBase64 string            `json:"binaryDataAsBase64"`
	TextualData        string            `json:"textualData"`
	CharacterSet       string            `json:"characterSet"`
	Extra              map[string]string `json:"extra,omitempty"`
}

// Event carries the results of one frame or image.
type Event struct {
	Results      []Result `json:"results"`
	Thumbnails   []string `json:"thumbnails,omitempty"`   // base64 PNG, one per result
	ResultImage  string   `json:"resultImage,omitempty"`  // base64 PNG of the full frame
	SessionEnded bool     `json:"sessionEnded,omitempty"` // last event of a scanning session
}

// NewResult builds a wire result from decoded text and raw bytes.
func NewResult(typ int, typeName, text string, raw []byte, charset string, extra map[string]string) Result {
	if raw == nil {
		raw = []byte(text)
	}
	return Result{
		BarcodeType:        typ,
		BarcodeTypeName:    typeName,
		BinaryDataAsBase64: base64.StdEncoding.EncodeToString(raw),
		TextualData:        text,
		CharacterSet:       charset,
		Extra:              extra,
	}
}

// Encode serializes e as the JSON string sent to the host.
func (e Event) Encode() (string, error) {
	if e.Results == nil {
		e.Results = []Result{}
	}
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	return string(b), nil
}
