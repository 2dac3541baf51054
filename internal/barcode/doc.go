// Package barcode defines the symbology set understood by the scanning
// bridge and a pluggable decoder backend.
//
// Symbology ordinals are part of the command-channel wire format and must
// never be reordered. The default backend is implemented on top of gozxing
// and covers the subset of symbologies that library can read; the rest are
// accepted by configuration but never produced by the software engine.
package barcode
