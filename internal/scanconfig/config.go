package scanconfig

import (
	"fmt"
	"maps"
	"math"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
)

// Config is the complete per-bridge scanner configuration.
//
// A Config reachable from a Store is never mutated; Store.Update works on a
// clone. Composite values (Region, Color) are plain values and are replaced
// as a whole.
type Config struct {
	// Capture and UI
	Resolution                      Resolution
	ROI                             Region
	RegionOfInterestVisible         bool
	LocationLineColor               Color
	LocationLineWidth               float64
	ROILineColor                    Color
	ROILineWidth                    float64
	ROIOverlayBackgroundColor       Color
	CloseSessionOnResultEnabled     bool
	ImageResultEnabled              bool
	LocationInImageResultEnabled    bool
	LocationInPreviewEnabled        bool
	PinchToZoomEnabled              bool
	BeepOnSuccessEnabled            bool
	VibrateOnSuccessEnabled         bool
	BarcodeThumbnailOnResultEnabled bool
	ScanningIndicatorColor          Color
	ScanningIndicatorWidth          float64
	ScanningIndicatorAnimation      IndicatorAnimation
	ScanningIndicatorAlwaysVisible  bool

	// Duplicate suppression within a session
	ThresholdBetweenDuplicatesScans int // seconds
	ShowDuplicatesLocations         bool

	Decoder DecoderConfig
	AR      ARConfig
}

// Region is a normalized rectangle; every component lies in [0,1].
type Region struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate checks that r lies within the unit square.
func (r Region) Validate() error {
	for _, v := range []float64{r.Left, r.Top, r.Width, r.Height} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("region %+v: %w", r, ErrOutOfRange)
		}
	}
	if r.Left+r.Width > 1 || r.Top+r.Height > 1 {
		return fmt.Errorf("region %+v exceeds frame: %w", r, ErrOutOfRange)
	}
	return nil
}

// Symbology is the per-type decoder configuration.
type Symbology struct {
	Enabled      bool
	MinLength    int
	MaxLength    int
	Checksum     int
	DPMMode      bool
	ExpandToUPCA bool
}

// DecoderConfig holds symbology and decoder-wide options.
type DecoderConfig struct {
	Symbologies              [barcode.NumTypes]Symbology
	DecodingSpeed            DecodingSpeed
	Formatting               FormattingType
	MaximumResultsCount      int
	EncodingCharacterSet     string
	UpcEanDeblur             bool
	EnableMisshaped1D        bool
	EnableVINRestrictions    bool
	IDDocumentMasterChecksum bool
	Composite                CompositeMode
	CustomOptions            map[string]int
}

// ARConfig holds the augmented-reality overlay settings.
type ARConfig struct {
	Mode                         ARMode
	ResultDisappearanceDelayMs   int
	LocationTransitionSpeed      float64
	OverlayRefresh               AROverlayRefresh
	SelectedLocationColor        Color
	NonSelectedLocationColor     Color
	SelectedLocationLineWidth    float64
	NonSelectedLocationLineWidth float64
	LocationType                 ARLocationType
	DoubleTapToFreezeEnabled     bool
	ImageResultEnabled           bool
	BarcodeThumbnailOnResult     bool
	ResultLimit                  int
	ContinueScanningOnLimit      bool
	EmitResultsAtSessionEndOnly  bool
	HeaderHeight                 float64
	HeaderShowMode               ARHeaderShowMode
	HeaderMaxTextHeight          float64
	HeaderMinTextHeight          float64
	HeaderTextColorSelected      Color
	HeaderTextColorNonSelected   Color
	HeaderHorizontalTextMargin   float64
	HeaderVerticalTextMargin     float64
	HeaderTextFormat             string
}

const (
	// DefaultMinLength and DefaultMaxLength bound 1D symbologies with a length range.
	DefaultMinLength = 4
	DefaultMaxLength = 128

	// MaxResultsLimit is the upper bound for MaximumResultsCount.
	MaxResultsLimit = 200
)

var defaultEnabled = []barcode.Type{
	barcode.Aztec, barcode.QR, barcode.QRMicro, barcode.Code128, barcode.Code93,
	barcode.Code39, barcode.Codabar, barcode.UpcA, barcode.UpcE, barcode.Ean13,
	barcode.Ean8, barcode.PDF417, barcode.Datamatrix, barcode.Interleaved25,
}

// Default returns the configuration a bridge starts from.
func Default() *Config {
	c := &Config{
		Resolution:                      ResolutionHigh,
		ROI:                             Region{Left: 0, Top: 0, Width: 1, Height: 1},
		LocationLineColor:               0xFF00FF00,
		LocationLineWidth:               4,
		ROILineColor:                    0xFFE60000,
		ROILineWidth:                    3,
		ROIOverlayBackgroundColor:       0x40000000,
		ImageResultEnabled:              false,
		LocationInPreviewEnabled:        true,
		PinchToZoomEnabled:              true,
		BeepOnSuccessEnabled:            true,
		VibrateOnSuccessEnabled:         true,
		CloseSessionOnResultEnabled:     true,
		BarcodeThumbnailOnResultEnabled: false,
		ScanningIndicatorColor:          0xFFFF0000,
		ScanningIndicatorWidth:          2,
		ScanningIndicatorAnimation:      IndicatorSweep,
		ThresholdBetweenDuplicatesScans: 5,
		Decoder: DecoderConfig{
			DecodingSpeed:       SpeedNormal,
			Formatting:          FormattingDisabled,
			MaximumResultsCount: MaxResultsLimit,
			CustomOptions:       map[string]int{},
		},
		AR: ARConfig{
			Mode:                         AROff,
			ResultDisappearanceDelayMs:   300,
			LocationTransitionSpeed:      0.85,
			OverlayRefresh:               ARRefreshNormal,
			SelectedLocationColor:        0xFF00FF00,
			NonSelectedLocationColor:     0xFFFF0000,
			SelectedLocationLineWidth:    3,
			NonSelectedLocationLineWidth: 3,
			LocationType:                 ARLocationTight,
			DoubleTapToFreezeEnabled:     true,
			ResultLimit:                  0,
			HeaderHeight:                 19,
			HeaderShowMode:               ARHeaderOnSelected,
			HeaderMaxTextHeight:          14,
			HeaderMinTextHeight:          7,
			HeaderTextColorSelected:      0xFF000000,
			HeaderTextColorNonSelected:   0xFFFFFFFF,
			HeaderHorizontalTextMargin:   3,
			HeaderVerticalTextMargin:     3,
			HeaderTextFormat:             "[barcode_text]",
		},
	}
	for _, t := range barcode.Types() {
		if t.SupportsLengthRange() {
			c.Decoder.Symbologies[t].MinLength = DefaultMinLength
			c.Decoder.Symbologies[t].MaxLength = DefaultMaxLength
		}
	}
	for _, t := range defaultEnabled {
		c.Decoder.Symbologies[t].Enabled = true
	}
	return c
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Decoder.CustomOptions = maps.Clone(c.Decoder.CustomOptions)
	if out.Decoder.CustomOptions == nil {
		out.Decoder.CustomOptions = map[string]int{}
	}
	return &out
}

// SetROI replaces the region of interest as one value.
func (c *Config) SetROI(r Region) error { return ROIField.Set(c, r) }

// EnabledTypes lists the enabled symbologies in ordinal order.
func (c *Config) EnabledTypes() []barcode.Type {
	var out []barcode.Type
	for i, s := range c.Decoder.Symbologies {
		if s.Enabled {
			out = append(out, barcode.Type(i))
		}
	}
	return out
}

func checkType(t barcode.Type) error {
	if !t.Valid() {
		return fieldErr("barcodeType", int(t), ErrUnknownType)
	}
	return nil
}

// TypeEnabled reports whether t is enabled.
func (c *Config) TypeEnabled(t barcode.Type) (bool, error) {
	if err := checkType(t); err != nil {
		return false, err
	}
	return c.Decoder.Symbologies[t].Enabled, nil
}

// SetTypeEnabled enables or disables t.
func (c *Config) SetTypeEnabled(t barcode.Type, enabled bool) error {
	if err := checkType(t); err != nil {
		return err
	}
	c.Decoder.Symbologies[t].Enabled = enabled
	return nil
}

// LengthRange returns the accepted length range for t.
func (c *Config) LengthRange(t barcode.Type) (minLen, maxLen int, err error) {
	if err := checkType(t); err != nil {
		return 0, 0, err
	}
	if !t.SupportsLengthRange() {
		return 0, 0, fieldErr("lengthRange", t.String(), ErrNotSupported)
	}
	s := c.Decoder.Symbologies[t]
	return s.MinLength, s.MaxLength, nil
}

// SetLengthRange sets both bounds for t or neither.
func (c *Config) SetLengthRange(t barcode.Type, minLen, maxLen int) error {
	if err := checkType(t); err != nil {
		return err
	}
	if !t.SupportsLengthRange() {
		return fieldErr("lengthRange", t.String(), ErrNotSupported)
	}
	if minLen < 0 || minLen > maxLen {
		return fieldErr("lengthRange", [2]int{minLen, maxLen}, ErrOutOfRange)
	}
	c.Decoder.Symbologies[t].MinLength = minLen
	c.Decoder.Symbologies[t].MaxLength = maxLen
	return nil
}

// Checksum returns the checksum ordinal configured for t.
func (c *Config) Checksum(t barcode.Type) (int, error) {
	if err := checkType(t); err != nil {
		return 0, err
	}
	if !t.SupportsChecksum() {
		return 0, fieldErr("checksum", t.String(), ErrNotSupported)
	}
	return c.Decoder.Symbologies[t].Checksum, nil
}

// SetChecksum validates ordinal against the checksum enum of t.
func (c *Config) SetChecksum(t barcode.Type, ordinal int) error {
	if err := checkType(t); err != nil {
		return err
	}
	var err error
	switch t {
	case barcode.Msi:
		_, err = ParseEnum[MsiChecksum](ordinal)
	case barcode.Code39:
		_, err = ParseEnum[Code39Checksum](ordinal)
	case barcode.Code11:
		_, err = ParseEnum[Code11Checksum](ordinal)
	default:
		return fieldErr("checksum", t.String(), ErrNotSupported)
	}
	if err != nil {
		return fieldErr("checksum", ordinal, err)
	}
	c.Decoder.Symbologies[t].Checksum = ordinal
	return nil
}

// SetCustomOption stores an opaque engine option.
func (c *Config) SetCustomOption(option string, value int) error {
	if option == "" {
		return fieldErr("customOption", option, ErrInvalidValue)
	}
	if c.Decoder.CustomOptions == nil {
		c.Decoder.CustomOptions = map[string]int{}
	}
	c.Decoder.CustomOptions[option] = value
	return nil
}
