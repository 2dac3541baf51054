package scanconfig

import (
	"testing"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestApplyDocumentColorAndBool(t *testing.T) {
	s := NewStore(nil)
	rep, err := s.ApplyDocument(`{"roiLineColor":"#80FF0000","pinchToZoomEnabled":false}`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"roiLineColor", "pinchToZoomEnabled"}, rep.Applied)
	assert.Empty(t, rep.Skipped)
	assert.Equal(t, Color(0x80FF0000), Get(s, ROILineColor))
	assert.False(t, Get(s, PinchToZoom))
}

func TestApplyDocumentMalformedLeavesStoreUnchanged(t *testing.T) {
	for _, doc := range []string{`{"roiLineColor":`, `[1,2,3]`, `"text"`, `{"nothing":1,"known":2}`} {
		t.Run(doc, func(t *testing.T) {
			s := NewStore(nil)
			before := s.Snapshot()
			_, err := s.ApplyDocument(doc)
			require.ErrorIs(t, err, ErrMalformedDocument)
			assert.Same(t, before, s.Snapshot())
		})
	}
}

// Invalid values skip only their own key; the document still applies.
func TestApplyDocumentBestEffort(t *testing.T) {
	s := NewStore(nil)
	rep, err := s.ApplyDocument(`{
		"barkoderResolution": 9,
		"locationLineColor": "#nothex",
		"roiLineWidth": 7.5,
		"unknownKey": true,
		"regionOfInterest": {"left":0.2,"top":0.2,"width":0.9,"height":0.2}
	}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"roiLineWidth"}, rep.Applied)

	skipped := map[string]error{}
	for _, sk := range rep.Skipped {
		skipped[sk.Key] = sk.Err
	}
	assert.ErrorIs(t, skipped["barkoderResolution"], ErrUnknownEnum)
	assert.ErrorIs(t, skipped["locationLineColor"], ErrOutOfRange)
	assert.ErrorIs(t, skipped["unknownKey"], ErrUnknownField)
	assert.ErrorIs(t, skipped["regionOfInterest"], ErrOutOfRange)

	assert.Equal(t, 7.5, Get(s, ROILineWidth))
	assert.Equal(t, Default().Resolution, Get(s, ResolutionField))
	assert.Equal(t, Default().LocationLineColor, Get(s, LocationLineColor))
}

// Later keys win, in document order.
func TestApplyDocumentOrder(t *testing.T) {
	s := NewStore(nil)
	_, err := s.ApplyDocument(`{"roiLineWidth":1,"roiLineWidth":2}`)
	require.NoError(t, err)
	assert.Equal(t, 2.0, Get(s, ROILineWidth))
}

func TestApplyDocumentDecoder(t *testing.T) {
	s := NewStore(nil)
	rep, err := s.ApplyDocument(`{"decoder":{
		"decodingSpeed": 3,
		"maximumResultsCount": 10,
		"Code 128": {"enabled": false, "minimumLength": 6, "maximumLength": 20},
		"Msi": {"checksum": 2},
		"QR": {"dpmMode": true, "checksum": 1},
		"Upc-E": {"expandToUPCA": true},
		"customOptions": {"decode.foo": 4},
		"Unknown 99": {"enabled": true}
	}}`)
	require.NoError(t, err)

	c := s.Snapshot()
	assert.Equal(t, SpeedRigorous, c.Decoder.DecodingSpeed)
	assert.Equal(t, 10, c.Decoder.MaximumResultsCount)
	code128 := c.Decoder.Symbologies[barcode.Code128]
	assert.False(t, code128.Enabled)
	assert.Equal(t, 6, code128.MinLength)
	assert.Equal(t, 20, code128.MaxLength)
	assert.Equal(t, 2, c.Decoder.Symbologies[barcode.Msi].Checksum)
	assert.True(t, c.Decoder.Symbologies[barcode.QR].DPMMode)
	assert.True(t, c.Decoder.Symbologies[barcode.UpcE].ExpandToUPCA)
	assert.Equal(t, 4, c.Decoder.CustomOptions["decode.foo"])

	skipped := map[string]error{}
	for _, sk := range rep.Skipped {
		skipped[sk.Key] = sk.Err
	}
	assert.ErrorIs(t, skipped["decoder.QR.checksum"], ErrNotSupported)
	assert.ErrorIs(t, skipped["decoder.Unknown 99"], ErrUnknownField)
}

func TestApplyDocumentLengthRangeAllOrNothing(t *testing.T) {
	s := NewStore(nil)
	_, err := s.ApplyDocument(`{"decoder":{"Code 39":{"minimumLength":9,"maximumLength":2}}}`)
	require.NoError(t, err)
	lo, hi, err := s.Snapshot().LengthRange(barcode.Code39)
	require.NoError(t, err)
	assert.Equal(t, DefaultMinLength, lo)
	assert.Equal(t, DefaultMaxLength, hi)
}

func TestApplyEmptyDocument(t *testing.T) {
	s := NewStore(nil)
	rep, err := s.ApplyDocument(`{}`)
	require.NoError(t, err)
	assert.Empty(t, rep.Applied)
}

func TestNormalizeColors(t *testing.T) {
	out, skipped, err := NormalizeColors(`{"roiLineColor":"#FF000001","headerTextColorSelected":"0xZZ","other":"#FF000001"}`)
	require.NoError(t, err)
	assert.Equal(t, int64(0xFF000001), gjson.Get(out, "roiLineColor").Int())
	assert.False(t, gjson.Get(out, "headerTextColorSelected").Exists())
	assert.Equal(t, "#FF000001", gjson.Get(out, "other").String())
	require.Len(t, skipped, 1)
	assert.Equal(t, "headerTextColorSelected", skipped[0].Key)
}

func TestExportDocumentRoundTrip(t *testing.T) {
	src := NewStore(nil)
	require.NoError(t, src.Update(func(c *Config) error {
		c.ROILineColor = 0x11223344
		c.AR.HeaderTextFormat = "[barcode_type]"
		require.NoError(t, c.SetLengthRange(barcode.Codabar, 2, 9))
		require.NoError(t, c.SetCustomOption("x", 3))
		return c.SetROI(Region{0.1, 0.1, 0.5, 0.5})
	}))

	doc, err := ExportDocument(src.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "#11223344", gjson.Get(doc, "roiLineColor").String())

	dst := NewStore(nil)
	rep, err := dst.ApplyDocument(doc)
	require.NoError(t, err)
	assert.Empty(t, rep.Skipped)
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}
