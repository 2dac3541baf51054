package engine

import (
	"testing"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/scanconfig"
	"github.com/stretchr/testify/assert"
)

func TestUpcEToUPCA(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"01234505", "012000003455", true},
		{"04252614", "042100005264", true},
		{"01234531", "012300000451", true},
		{"01234541", "012340000051", true},
		{"01234558", "012345000058", true},
		{"0123456", "", false},
		{"0123A505", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := upcEToUPCA(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandToUPCAOnlyWhenEnabled(t *testing.T) {
	cfg := scanconfig.Default()
	r := barcode.Result{Type: barcode.UpcE, Text: "01234505"}
	assert.Equal(t, "01234505", expandToUPCA(cfg, r).Text)

	cfg.Decoder.Symbologies[barcode.UpcE].ExpandToUPCA = true
	assert.Equal(t, "012000003455", expandToUPCA(cfg, r).Text)
}

func TestAcceptVIN(t *testing.T) {
	cfg := scanconfig.Default()
	assert.True(t, acceptVIN(cfg, barcode.Result{Text: "anything"}))

	cfg.Decoder.EnableVINRestrictions = true
	assert.True(t, acceptVIN(cfg, barcode.Result{Text: "1HGCM82633A004352"}))
	assert.False(t, acceptVIN(cfg, barcode.Result{Text: "1HGCM82633A00435"}))
	assert.False(t, acceptVIN(cfg, barcode.Result{Text: "1HGCM82633A00435O"}))
}

func TestDedupWindow(t *testing.T) {
	var w dedupWindow
	t0 := time.Unix(1000, 0)
	r := barcode.Result{Type: barcode.QR, Text: "x"}
	other := barcode.Result{Type: barcode.Code128, Text: "x"}

	assert.True(t, w.admit(r, t0, 0))
	assert.True(t, w.admit(r, t0, 0))

	assert.True(t, w.admit(r, t0, time.Second))
	assert.False(t, w.admit(r, t0.Add(500*time.Millisecond), time.Second))
	assert.True(t, w.admit(other, t0.Add(500*time.Millisecond), time.Second))
	assert.True(t, w.admit(r, t0.Add(time.Second), time.Second))
}

func TestDedupWindowIsBounded(t *testing.T) {
	var w dedupWindow
	now := time.Unix(0, 0)
	for i := range maxRemembered + 10 {
		w.admit(barcode.Result{Type: barcode.QR, Text: string(rune('a' + i%26)) + time.Duration(i).String()}, now, time.Hour)
	}
	assert.Equal(t, maxRemembered, w.seen.Len())
}
