package scanconfig

import (
	"math"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/ianaindex"
)

// Field is a typed accessor for one scalar configuration setting. Key is the
// name of the setting in bulk configuration documents.
type Field[T any] struct {
	Key    string
	ref    func(*Config) *T
	check  func(T) error
	decode func(gjson.Result) (T, error)
	encode func(T) any
}

// Get reads the field from c.
func (f Field[T]) Get(c *Config) T { return *f.ref(c) }

// Set validates v and writes it into c. Nothing is written on error.
func (f Field[T]) Set(c *Config, v T) error {
	if f.check != nil {
		if err := f.check(v); err != nil {
			return fieldErr(f.Key, v, err)
		}
	}
	*f.ref(c) = v
	return nil
}

func (f Field[T]) name() string { return f.Key }

func (f Field[T]) applyJSON(c *Config, v gjson.Result) error {
	x, err := f.decode(v)
	if err != nil {
		return fieldErr(f.Key, v.Raw, err)
	}
	return f.Set(c, x)
}

func (f Field[T]) exportJSON(c *Config) any {
	v := f.Get(c)
	if f.encode != nil {
		return f.encode(v)
	}
	return v
}

// docField is the type-erased view of a Field used by bulk documents.
type docField interface {
	name() string
	applyJSON(c *Config, v gjson.Result) error
	exportJSON(c *Config) any
}

func decodeBool(v gjson.Result) (bool, error) {
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, ErrInvalidValue
	}
	return v.Bool(), nil
}

func decodeInt(v gjson.Result) (int, error) {
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, ErrInvalidValue
	}
	return int(v.Int()), nil
}

func decodeFloat(v gjson.Result) (float64, error) {
	if v.Type != gjson.Number {
		return 0, ErrInvalidValue
	}
	return v.Num, nil
}

func decodeString(v gjson.Result) (string, error) {
	if v.Type != gjson.String {
		return "", ErrInvalidValue
	}
	return v.Str, nil
}

// decodeColor accepts packed integers (signed or unsigned 32-bit) and hex strings.
func decodeColor(v gjson.Result) (Color, error) {
	switch v.Type {
	case gjson.String:
		return ParseColor(v.Str)
	case gjson.Number:
		if v.Num != math.Trunc(v.Num) || v.Num < math.MinInt32 || v.Num > math.MaxUint32 {
			return 0, ErrOutOfRange
		}
		return Color(uint32(v.Int())), nil
	}
	return 0, ErrInvalidValue
}

func decodeRegion(v gjson.Result) (Region, error) {
	if !v.IsObject() {
		return Region{}, ErrInvalidValue
	}
	var r Region
	for key, dst := range map[string]*float64{"left": &r.Left, "top": &r.Top, "width": &r.Width, "height": &r.Height} {
		x, err := decodeFloat(v.Get(key))
		if err != nil {
			return Region{}, err
		}
		*dst = x
	}
	return r, nil
}

func nonNegative(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ErrOutOfRange
	}
	return nil
}

func nonNegativeInt(v int) error {
	if v < 0 {
		return ErrOutOfRange
	}
	return nil
}

// MaxDuplicateThresholdSeconds is the longest duplicate threshold that fits
// a time.Duration.
const MaxDuplicateThresholdSeconds = math.MaxInt64 / int64(time.Second)

func duplicateThreshold(v int) error {
	if v < 0 || int64(v) > MaxDuplicateThresholdSeconds {
		return ErrOutOfRange
	}
	return nil
}

func intRange(lo, hi int) func(int) error {
	return func(v int) error {
		if v < lo || v > hi {
			return ErrOutOfRange
		}
		return nil
	}
}

// CheckCharset accepts the empty string or any IANA name x/text can encode.
func CheckCharset(name string) error {
	if name == "" {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return ErrUnknownCharset
	}
	return nil
}

func boolField(key string, ref func(*Config) *bool) Field[bool] {
	return Field[bool]{Key: key, ref: ref, decode: decodeBool}
}

func intField(key string, ref func(*Config) *int, check func(int) error) Field[int] {
	return Field[int]{Key: key, ref: ref, check: check, decode: decodeInt}
}

func floatField(key string, ref func(*Config) *float64) Field[float64] {
	return Field[float64]{Key: key, ref: ref, check: nonNegative, decode: decodeFloat}
}

func stringField(key string, ref func(*Config) *string, check func(string) error) Field[string] {
	return Field[string]{Key: key, ref: ref, check: check, decode: decodeString}
}

func colorField(key string, ref func(*Config) *Color) Field[Color] {
	return Field[Color]{
		Key:    key,
		ref:    ref,
		decode: decodeColor,
		encode: func(c Color) any { return c.Hex() },
	}
}

func enumField[E enum](key string, ref func(*Config) *E) Field[E] {
	return Field[E]{
		Key: key,
		ref: ref,
		check: func(e E) error {
			if !e.Valid() {
				return ErrUnknownEnum
			}
			return nil
		},
		decode: func(v gjson.Result) (E, error) {
			i, err := decodeInt(v)
			return E(i), err
		},
		encode: func(e E) any { return int(e) },
	}
}

// ROIField is the region of interest, replaced as one value.
var ROIField = Field[Region]{
	Key:    "regionOfInterest",
	ref:    func(c *Config) *Region { return &c.ROI },
	check:  Region.Validate,
	decode: decodeRegion,
}

// Capture and UI fields.
var (
	ResolutionField                = enumField("barkoderResolution", func(c *Config) *Resolution { return &c.Resolution })
	RegionOfInterestVisible        = boolField("regionOfInterestVisible", func(c *Config) *bool { return &c.RegionOfInterestVisible })
	LocationLineColor              = colorField("locationLineColor", func(c *Config) *Color { return &c.LocationLineColor })
	LocationLineWidth              = floatField("locationLineWidth", func(c *Config) *float64 { return &c.LocationLineWidth })
	ROILineColor                   = colorField("roiLineColor", func(c *Config) *Color { return &c.ROILineColor })
	ROILineWidth                   = floatField("roiLineWidth", func(c *Config) *float64 { return &c.ROILineWidth })
	ROIOverlayBackgroundColor      = colorField("roiOverlayBackgroundColor", func(c *Config) *Color { return &c.ROIOverlayBackgroundColor })
	CloseSessionOnResult           = boolField("closeSessionOnResultEnabled", func(c *Config) *bool { return &c.CloseSessionOnResultEnabled })
	ImageResult                    = boolField("imageResultEnabled", func(c *Config) *bool { return &c.ImageResultEnabled })
	LocationInImageResult          = boolField("locationInImageResultEnabled", func(c *Config) *bool { return &c.LocationInImageResultEnabled })
	LocationInPreview              = boolField("locationInPreviewEnabled", func(c *Config) *bool { return &c.LocationInPreviewEnabled })
	PinchToZoom                    = boolField("pinchToZoomEnabled", func(c *Config) *bool { return &c.PinchToZoomEnabled })
	BeepOnSuccess                  = boolField("beepOnSuccessEnabled", func(c *Config) *bool { return &c.BeepOnSuccessEnabled })
	VibrateOnSuccess               = boolField("vibrateOnSuccessEnabled", func(c *Config) *bool { return &c.VibrateOnSuccessEnabled })
	BarcodeThumbnailOnResult       = boolField("barcodeThumbnailOnResult", func(c *Config) *bool { return &c.BarcodeThumbnailOnResultEnabled })
	ScanningIndicatorColor         = colorField("scanningIndicatorColor", func(c *Config) *Color { return &c.ScanningIndicatorColor })
	ScanningIndicatorWidth         = floatField("scanningIndicatorWidth", func(c *Config) *float64 { return &c.ScanningIndicatorWidth })
	ScanningIndicatorAnimation     = enumField("scanningIndicatorAnimation", func(c *Config) *IndicatorAnimation { return &c.ScanningIndicatorAnimation })
	ScanningIndicatorAlwaysVisible = boolField("scanningIndicatorAlwaysVisible", func(c *Config) *bool { return &c.ScanningIndicatorAlwaysVisible })
	ThresholdBetweenDuplicateScans = intField("thresholdBetweenDuplicatesScans", func(c *Config) *int { return &c.ThresholdBetweenDuplicatesScans }, duplicateThreshold)
	ShowDuplicatesLocations        = boolField("showDuplicatesLocations", func(c *Config) *bool { return &c.ShowDuplicatesLocations })
)

// Decoder-wide fields, nested under "decoder" in bulk documents.
var (
	DecodingSpeedField       = enumField("decodingSpeed", func(c *Config) *DecodingSpeed { return &c.Decoder.DecodingSpeed })
	FormattingField          = enumField("formattingType", func(c *Config) *FormattingType { return &c.Decoder.Formatting })
	MaximumResultsCount      = intField("maximumResultsCount", func(c *Config) *int { return &c.Decoder.MaximumResultsCount }, intRange(1, MaxResultsLimit))
	EncodingCharacterSet     = stringField("encodingCharacterSet", func(c *Config) *string { return &c.Decoder.EncodingCharacterSet }, CheckCharset)
	UpcEanDeblur             = boolField("upcEanDeblur", func(c *Config) *bool { return &c.Decoder.UpcEanDeblur })
	EnableMisshaped1D        = boolField("enableMisshaped1D", func(c *Config) *bool { return &c.Decoder.EnableMisshaped1D })
	EnableVINRestrictions    = boolField("enableVINRestrictions", func(c *Config) *bool { return &c.Decoder.EnableVINRestrictions })
	IDDocumentMasterChecksum = boolField("idDocumentMasterChecksum", func(c *Config) *bool { return &c.Decoder.IDDocumentMasterChecksum })
	CompositeField           = enumField("enableComposite", func(c *Config) *CompositeMode { return &c.Decoder.Composite })
)

// AR overlay fields.
var (
	ARModeField                    = enumField("arMode", func(c *Config) *ARMode { return &c.AR.Mode })
	ARResultDisappearanceDelayMs   = intField("resultDisappearanceDelayMs", func(c *Config) *int { return &c.AR.ResultDisappearanceDelayMs }, nonNegativeInt)
	ARLocationTransitionSpeed      = floatField("locationTransitionSpeed", func(c *Config) *float64 { return &c.AR.LocationTransitionSpeed })
	AROverlayRefreshField          = enumField("overlayRefresh", func(c *Config) *AROverlayRefresh { return &c.AR.OverlayRefresh })
	ARSelectedLocationColor        = colorField("selectedLocationColor", func(c *Config) *Color { return &c.AR.SelectedLocationColor })
	ARNonSelectedLocationColor     = colorField("nonSelectedLocationColor", func(c *Config) *Color { return &c.AR.NonSelectedLocationColor })
	ARSelectedLocationLineWidth    = floatField("selectedLocationLineWidth", func(c *Config) *float64 { return &c.AR.SelectedLocationLineWidth })
	ARNonSelectedLocationLineWidth = floatField("nonSelectedLocationLineWidth", func(c *Config) *float64 { return &c.AR.NonSelectedLocationLineWidth })
	ARLocationTypeField            = enumField("locationType", func(c *Config) *ARLocationType { return &c.AR.LocationType })
	ARDoubleTapToFreeze            = boolField("doubleTapToFreezeEnabled", func(c *Config) *bool { return &c.AR.DoubleTapToFreezeEnabled })
	ARImageResult                  = boolField("arImageResultEnabled", func(c *Config) *bool { return &c.AR.ImageResultEnabled })
	ARBarcodeThumbnailOnResult     = boolField("arBarcodeThumbnailOnResult", func(c *Config) *bool { return &c.AR.BarcodeThumbnailOnResult })
	ARResultLimit                  = intField("resultLimit", func(c *Config) *int { return &c.AR.ResultLimit }, nonNegativeInt)
	ARContinueScanningOnLimit      = boolField("continueScanningOnLimit", func(c *Config) *bool { return &c.AR.ContinueScanningOnLimit })
	AREmitResultsAtSessionEndOnly  = boolField("emitResultsAtSessionEndOnly", func(c *Config) *bool { return &c.AR.EmitResultsAtSessionEndOnly })
	ARHeaderHeight                 = floatField("headerHeight", func(c *Config) *float64 { return &c.AR.HeaderHeight })
	ARHeaderShowModeField          = enumField("headerShowMode", func(c *Config) *ARHeaderShowMode { return &c.AR.HeaderShowMode })
	ARHeaderMaxTextHeight          = floatField("headerMaxTextHeight", func(c *Config) *float64 { return &c.AR.HeaderMaxTextHeight })
	ARHeaderMinTextHeight          = floatField("headerMinTextHeight", func(c *Config) *float64 { return &c.AR.HeaderMinTextHeight })
	ARHeaderTextColorSelected      = colorField("headerTextColorSelected", func(c *Config) *Color { return &c.AR.HeaderTextColorSelected })
	ARHeaderTextColorNonSelected   = colorField("headerTextColorNonSelected", func(c *Config) *Color { return &c.AR.HeaderTextColorNonSelected })
	ARHeaderHorizontalTextMargin   = floatField("headerHorizontalTextMargin", func(c *Config) *float64 { return &c.AR.HeaderHorizontalTextMargin })
	ARHeaderVerticalTextMargin     = floatField("headerVerticalTextMargin", func(c *Config) *float64 { return &c.AR.HeaderVerticalTextMargin })
	ARHeaderTextFormat             = stringField("headerTextFormat", func(c *Config) *string { return &c.AR.HeaderTextFormat }, nil)
)

// Per-symbology flags exposed as individual commands.
var (
	DatamatrixDPMMode = symbologyBool("datamatrixDpmModeEnabled", barcode.Datamatrix, func(s *Symbology) *bool { return &s.DPMMode })
	QRDPMMode         = symbologyBool("qrDpmModeEnabled", barcode.QR, func(s *Symbology) *bool { return &s.DPMMode })
	QRMicroDPMMode    = symbologyBool("qrMicroDpmModeEnabled", barcode.QRMicro, func(s *Symbology) *bool { return &s.DPMMode })
	UPCEExpandToUPCA  = symbologyBool("upcEexpandToUPCA", barcode.UpcE, func(s *Symbology) *bool { return &s.ExpandToUPCA })
	UPCE1ExpandToUPCA = symbologyBool("upcE1expandToUPCA", barcode.UpcE1, func(s *Symbology) *bool { return &s.ExpandToUPCA })
)

func symbologyBool(key string, t barcode.Type, sub func(*Symbology) *bool) Field[bool] {
	return boolField(key, func(c *Config) *bool { return sub(&c.Decoder.Symbologies[t]) })
}

// topLevelFields lists bulk document keys in export order.
var topLevelFields = []docField{
	ResolutionField, ROIField, RegionOfInterestVisible, LocationLineColor, LocationLineWidth,
	ROILineColor, ROILineWidth, ROIOverlayBackgroundColor, CloseSessionOnResult, ImageResult,
	LocationInImageResult, LocationInPreview, PinchToZoom, BeepOnSuccess, VibrateOnSuccess,
	BarcodeThumbnailOnResult, ScanningIndicatorColor, ScanningIndicatorWidth,
	ScanningIndicatorAnimation, ScanningIndicatorAlwaysVisible, ThresholdBetweenDuplicateScans,
	ShowDuplicatesLocations,
	ARModeField, ARResultDisappearanceDelayMs, ARLocationTransitionSpeed, AROverlayRefreshField,
	ARSelectedLocationColor, ARNonSelectedLocationColor, ARSelectedLocationLineWidth,
	ARNonSelectedLocationLineWidth, ARLocationTypeField, ARDoubleTapToFreeze, ARImageResult,
	ARBarcodeThumbnailOnResult, ARResultLimit, ARContinueScanningOnLimit,
	AREmitResultsAtSessionEndOnly, ARHeaderHeight, ARHeaderShowModeField, ARHeaderMaxTextHeight,
	ARHeaderMinTextHeight, ARHeaderTextColorSelected, ARHeaderTextColorNonSelected,
	ARHeaderHorizontalTextMargin, ARHeaderVerticalTextMargin, ARHeaderTextFormat,
}

var decoderFields = []docField{
	DecodingSpeedField, FormattingField, MaximumResultsCount, EncodingCharacterSet, UpcEanDeblur,
	EnableMisshaped1D, EnableVINRestrictions, IDDocumentMasterChecksum, CompositeField,
}

// ColorKeys are the top-level document keys whose hex strings are converted
// to packed integers before a document is merged.
var ColorKeys = []string{
	"roiLineColor", "roiOverlayBackgroundColor", "locationLineColor", "scanningIndicatorColor",
	"selectedLocationColor", "nonSelectedLocationColor", "headerTextColorSelected",
	"headerTextColorNonSelected",
}

func lookup(fields []docField, key string) (docField, bool) {
	for _, f := range fields {
		if f.name() == key {
			return f, true
		}
	}
	return nil, false
}
