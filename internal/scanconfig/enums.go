package scanconfig

import "fmt"

// enum is satisfied by every ordinal-backed setting type in this package.
type enum interface {
	~int
	Valid() bool
}

// ParseEnum resolves an ordinal to a member of E, rejecting anything outside
// the declared range. Values are never clamped.
func ParseEnum[E enum](ordinal int) (E, error) {
	e := E(ordinal)
	if !e.Valid() {
		return e, fmt.Errorf("%T(%d): %w", e, ordinal, ErrUnknownEnum)
	}
	return e, nil
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("Unknown(%d)", i)
	}
	return names[i]
}

// Resolution is the camera capture resolution.
type Resolution int

const (
	ResolutionNormal Resolution = iota
	ResolutionHigh
	ResolutionFHD
)

var resolutionNames = []string{"Normal", "High", "FHD"}

func (v Resolution) Valid() bool { return v >= 0 && int(v) < len(resolutionNames) }
func (v Resolution) String() string { return enumName(resolutionNames, int(v)) }

// CameraPosition selects the physical camera.
type CameraPosition int

const (
	CameraBack CameraPosition = iota
	CameraFront
)

var cameraPositionNames = []string{"Back", "Front"}

func (v CameraPosition) Valid() bool { return v >= 0 && int(v) < len(cameraPositionNames) }
func (v CameraPosition) String() string { return enumName(cameraPositionNames, int(v)) }

// DecodingSpeed trades decode time for robustness.
type DecodingSpeed int

const (
	SpeedFast DecodingSpeed = iota
	SpeedNormal
	SpeedSlow
	SpeedRigorous
)

var decodingSpeedNames = []string{"Fast", "Normal", "Slow", "Rigorous"}

func (v DecodingSpeed) Valid() bool { return v >= 0 && int(v) < len(decodingSpeedNames) }
func (v DecodingSpeed) String() string { return enumName(decodingSpeedNames, int(v)) }

// FormattingType controls post-processing of decoded text.
type FormattingType int

const (
	FormattingDisabled FormattingType = iota
	FormattingAutomatic
	FormattingGS1
	FormattingAAMVA
	FormattingSADL
)

var formattingNames = []string{"Disabled", "Automatic", "GS1", "AAMVA", "SADL"}

func (v FormattingType) Valid() bool { return v >= 0 && int(v) < len(formattingNames) }
func (v FormattingType) String() string { return enumName(formattingNames, int(v)) }

// MsiChecksum is the checksum variant applied to MSI codes.
type MsiChecksum int

const (
	MsiChecksumDisabled MsiChecksum = iota
	MsiChecksumMod10
	MsiChecksumMod11
	MsiChecksumMod1010
	MsiChecksumMod1110
	MsiChecksumMod11IBM
	MsiChecksumMod1110IBM
)

var msiChecksumNames = []string{"Disabled", "Mod10", "Mod11", "Mod1010", "Mod1110", "Mod11IBM", "Mod1110IBM"}

func (v MsiChecksum) Valid() bool { return v >= 0 && int(v) < len(msiChecksumNames) }
func (v MsiChecksum) String() string { return enumName(msiChecksumNames, int(v)) }

// Code39Checksum toggles the optional Code 39 check digit.
type Code39Checksum int

const (
	Code39ChecksumDisabled Code39Checksum = iota
	Code39ChecksumEnabled
)

var code39ChecksumNames = []string{"Disabled", "Enabled"}

func (v Code39Checksum) Valid() bool { return v >= 0 && int(v) < len(code39ChecksumNames) }
func (v Code39Checksum) String() string { return enumName(code39ChecksumNames, int(v)) }

// Code11Checksum is the number of Code 11 check digits.
type Code11Checksum int

const (
	Code11ChecksumDisabled Code11Checksum = iota
	Code11ChecksumSingle
	Code11ChecksumDouble
)

var code11ChecksumNames = []string{"Disabled", "Single", "Double"}

func (v Code11Checksum) Valid() bool { return v >= 0 && int(v) < len(code11ChecksumNames) }
func (v Code11Checksum) String() string { return enumName(code11ChecksumNames, int(v)) }

// CompositeMode toggles GS1 composite decoding.
type CompositeMode int

const (
	CompositeDisabled CompositeMode = iota
	CompositeEnabled
)

var compositeNames = []string{"Disabled", "Enabled"}

func (v CompositeMode) Valid() bool { return v >= 0 && int(v) < len(compositeNames) }
func (v CompositeMode) String() string { return enumName(compositeNames, int(v)) }

// IndicatorAnimation is the scanning indicator animation style.
type IndicatorAnimation int

const (
	IndicatorNone IndicatorAnimation = iota
	IndicatorSweep
	IndicatorPulse
)

var indicatorAnimationNames = []string{"None", "Sweep", "Pulse"}

func (v IndicatorAnimation) Valid() bool { return v >= 0 && int(v) < len(indicatorAnimationNames) }
func (v IndicatorAnimation) String() string { return enumName(indicatorAnimationNames, int(v)) }

// ARMode selects the augmented-reality overlay behavior.
type ARMode int

const (
	AROff ARMode = iota
	ARInteractionDisabled
	ARInteractionEnabled
	ARNonInteractive
)

var arModeNames = []string{"Off", "InteractionDisabled", "InteractionEnabled", "NonInteractive"}

func (v ARMode) Valid() bool { return v >= 0 && int(v) < len(arModeNames) }
func (v ARMode) String() string { return enumName(arModeNames, int(v)) }

// AROverlayRefresh is the AR overlay redraw policy.
type AROverlayRefresh int

const (
	ARRefreshSmooth AROverlayRefresh = iota
	ARRefreshNormal
)

var arOverlayRefreshNames = []string{"Smooth", "Normal"}

func (v AROverlayRefresh) Valid() bool { return v >= 0 && int(v) < len(arOverlayRefreshNames) }
func (v AROverlayRefresh) String() string { return enumName(arOverlayRefreshNames, int(v)) }

// ARLocationType is the shape drawn around AR results.
type ARLocationType int

const (
	ARLocationNone ARLocationType = iota
	ARLocationTight
	ARLocationBoundingBox
)

var arLocationTypeNames = []string{"None", "Tight", "BoundingBox"}

func (v ARLocationType) Valid() bool { return v >= 0 && int(v) < len(arLocationTypeNames) }
func (v ARLocationType) String() string { return enumName(arLocationTypeNames, int(v)) }

// ARHeaderShowMode controls when the AR header label is drawn.
type ARHeaderShowMode int

const (
	ARHeaderNever ARHeaderShowMode = iota
	ARHeaderAlways
	ARHeaderOnSelected
)

var arHeaderShowModeNames = []string{"Never", "Always", "OnSelected"}

func (v ARHeaderShowMode) Valid() bool { return v >= 0 && int(v) < len(arHeaderShowModeNames) }
func (v ARHeaderShowMode) String() string { return enumName(arHeaderShowModeNames, int(v)) }
