package barcode

import (
	"context"
	"errors"
	"image"
)

// Type is a barcode symbology. Values are stable wire ordinals.
type Type int

const (
	Aztec Type = iota
	AztecCompact
	QR
	QRMicro
	Code128
	Code93
	Code39
	Codabar
	Code11
	Msi
	UpcA
	UpcE
	UpcE1
	Ean13
	Ean8
	PDF417
	PDF417Micro
	Datamatrix
	Code25
	Interleaved25
	ITF14
	IATA25
	Matrix25
	Datalogic25
	COOP25
	Code32
	Telepen
	Dotcode
	IDDocument
	Databar14
	DatabarLimited
	DatabarExpanded
	PostalIMB
	Postnet
	Planet
	AustralianPost
	RoyalMail
	KIX
	JapanesePost
	MaxiCode
)

// NumTypes is the number of known symbologies.
const NumTypes = int(MaxiCode) + 1

var typeNames = [NumTypes]string{
	"Aztec", "Aztec Compact", "QR", "QR Micro", "Code 128", "Code 93", "Code 39",
	"Codabar", "Code 11", "MSI", "UPC-A", "UPC-E", "UPC-E1", "EAN-13", "EAN-8",
	"PDF 417", "PDF 417 Micro", "Datamatrix", "Code 25", "Interleaved 2 of 5",
	"ITF 14", "IATA 25", "Matrix 25", "Datalogic 25", "COOP 25", "Code 32",
	"Telepen", "Dotcode", "ID Document", "Databar 14", "Databar Limited",
	"Databar Expanded", "Postal IMB", "Postnet", "Planet", "Australian Post",
	"Royal Mail", "KIX", "Japanese Post", "MaxiCode",
}

// configKeys are the keys used for a symbology inside the "decoder" object
// of a bulk configuration document.
var configKeys = [NumTypes]string{
	"Aztec", "Aztec Compact", "QR", "QR Micro", "Code 128", "Code 93", "Code 39",
	"Codabar", "Code 11", "Msi", "Upc-A", "Upc-E", "Upc-E1", "Ean-13", "Ean-8",
	"PDF 417", "PDF 417 Micro", "Datamatrix", "Code 2/5", "Interleaved 2/5",
	"ITF 14", "IATA 2/5", "Matrix 2/5", "Datalogic 2/5", "COOP 2/5", "Code 32",
	"Telepen", "Dotcode", "ID Document", "Databar 14", "Databar Limited",
	"Databar Expanded", "Postal IMB", "Postnet", "Planet", "Australian Post",
	"Royal Mail", "KIX", "Japanese Post", "MaxiCode",
}

// Types returns every known symbology in ordinal order.
func Types() []Type {
	out := make([]Type, NumTypes)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// Valid reports whether t is a known symbology.
func (t Type) Valid() bool { return t >= 0 && int(t) < NumTypes }

// String returns the human readable symbology name.
func (t Type) String() string {
	if !t.Valid() {
		return "Unknown"
	}
	return typeNames[t]
}

// ConfigKey returns the key used for t in bulk configuration documents.
func (t Type) ConfigKey() string {
	if !t.Valid() {
		return ""
	}
	return configKeys[t]
}

// TypeFromConfigKey resolves a bulk document key to its symbology.
func TypeFromConfigKey(key string) (Type, bool) {
	for i, k := range configKeys {
		if k == key {
			return Type(i), true
		}
	}
	return 0, false
}

// SupportsLengthRange reports whether t has a configurable length range.
func (t Type) SupportsLengthRange() bool {
	switch t {
	case Code128, Code93, Code39, Codabar, Code11, Msi:
		return true
	}
	return false
}

// SupportsChecksum reports whether t has a configurable checksum mode.
func (t Type) SupportsChecksum() bool {
	switch t {
	case Msi, Code39, Code11:
		return true
	}
	return false
}

// SupportsDPM reports whether t can be decoded in Direct Part Marking mode.
func (t Type) SupportsDPM() bool {
	switch t {
	case Datamatrix, QR, QRMicro:
		return true
	}
	return false
}

// SupportsExpandToUPCA reports whether t can be expanded to UPC-A on output.
func (t Type) SupportsExpandToUPCA() bool { return t == UpcE || t == UpcE1 }

// SupportsMasterChecksum reports whether t carries an ID document master checksum.
func (t Type) SupportsMasterChecksum() bool { return t == IDDocument }

// ErrUnsupportedImage is returned by backends that cannot read the image.
var ErrUnsupportedImage = errors.New("barcode: unsupported image")

// Options controls backend decoding behavior.
type Options struct {
	// Types constrains the set of symbologies to search. Empty means all.
	Types []Type

	// TryHarder enables more exhaustive search (slower but more robust).
	TryHarder bool

	// Multi enables multi-symbol detection in a single image.
	Multi bool

	// ROI optionally restricts decoding to a sub-rectangle of the image.
	// If zero-sized or out of bounds, backends should ignore it.
	ROI image.Rectangle

	// CharacterSet is a decoding hint for byte-mode payloads.
	CharacterSet string
}

// Point is an integer point in image coordinates.
type Point struct {
	X int
	Y int
}

// Result represents a decoded barcode.
type Result struct {
	Type   Type
	Text   string
	Points []Point         // Corner or key points if available
	BBox   image.Rectangle // Bounding box if derivable from points
	Extra  map[string]string
}

// Backend is a pluggable barcode decoder implementation.
type Backend interface {
	Decode(ctx context.Context, img image.Image, opts Options) ([]Result, error)
}

// NewBackend returns the default backend implementation.
func NewBackend() Backend { return &gozxingBackend{} }
