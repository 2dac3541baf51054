package testutil

import (
	"path/filepath"
	"testing"

	gozxing "github.com/makiuchi-d/gozxing"
)

// Label is a rendered barcode image on disk and the text it encodes.
type Label struct {
	Name     string
	File     string
	TypeName string // symbology name as reported on the event channel
	Text     string
}

type labelDef struct {
	name     string
	typeName string
	symbol   Symbol
}

func labelDefs() []labelDef {
	captioned := Code128Symbol("SHIP-0042")
	captioned.Caption = true
	rotated := QRSymbol("rotated label")
	rotated.Rotation = 90

	return []labelDef{
		{"qr", "QR", QRSymbol("https://example.com/item/17")},
		{"code128", "Code 128", captioned},
		{"ean8", "EAN-8", Symbol{Format: gozxing.BarcodeFormat_EAN_8, Text: "96385074", Size: LinearSize}},
		{"qr-rotated", "QR", rotated},
	}
}

// WriteLabels renders the standard label set into dir as PNG files.
func WriteLabels(t *testing.T, dir string) []Label {
	t.Helper()
	specs := labelDefs()
	out := make([]Label, 0, len(specs))
	for _, s := range specs {
		path := WriteSymbol(t, filepath.Join(dir, s.name+".png"), s.symbol)
		out = append(out, Label{Name: s.name, File: path, TypeName: s.typeName, Text: s.symbol.Text})
	}
	return out
}
