package bridge

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/scanbridge/internal/engine"
	"github.com/MeKo-Tech/scanbridge/internal/global"
	"github.com/MeKo-Tech/scanbridge/internal/scanconfig"
)

// Kind is the error family callers branch on.
type Kind int

const (
	KindDisposed Kind = iota
	KindValidationFailed
	KindEnumNotFound
	KindFieldNotSupported
	KindFieldNotFound
	KindMalformedConfigDocument
)

var kindNames = []string{
	"Disposed", "ValidationFailed", "EnumNotFound", "FieldNotSupported",
	"FieldNotFound", "MalformedConfigDocument",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Code is the stable wire code of a failure.
type Code int

const (
	BarkoderViewDestroyed Code = iota
	InvalidResolution
	ThreadsLimitNotSet
	RoiNotSet
	ColorNotSet
	BarcodeTypeNotFound
	BarcodeTypeNotSupported
	LengthRangeNotValid
	ChecksumTypeNotFound
	DecodingSpeedNotFound
	FormattingTypeNotFound
	MaximumResultsNotValid
	BarkoderConfigIsNotValid
	InvalidCameraPosition
	EnumValueNotFound
	InvalidArguments
	ValueOutOfRange
	ImageNotValid
	EngineFailure
)

type codeInfo struct {
	name   string
	kind   Kind
	prefix string
}

var codes = []codeInfo{
	BarkoderViewDestroyed:    {"BARKODER_VIEW_DESTROYED", KindDisposed, "Barkoder view is destroyed"},
	InvalidResolution:        {"INVALID_RESOLUTION", KindValidationFailed, "Invalid resolution"},
	ThreadsLimitNotSet:       {"THREADS_LIMIT_NOT_SET", KindValidationFailed, "Threads limit not set"},
	RoiNotSet:                {"ROI_NOT_SET", KindValidationFailed, "Region of interest not set"},
	ColorNotSet:              {"COLOR_NOT_SET", KindValidationFailed, "Color not set"},
	BarcodeTypeNotFound:      {"BARCODE_TYPE_NOT_FOUNDED", KindFieldNotFound, "Barcode type not found"},
	BarcodeTypeNotSupported:  {"BARCODE_TYPE_NOT_SUPPORTED", KindFieldNotSupported, "Barcode type not supported"},
	LengthRangeNotValid:      {"LENGTH_RANGE_NOT_VALID", KindValidationFailed, "Length range not valid"},
	ChecksumTypeNotFound:     {"CHECKSUM_TYPE_NOT_FOUNDED", KindEnumNotFound, "Checksum type not found"},
	DecodingSpeedNotFound:    {"DECODING_SPEED_NOT_FOUNDED", KindEnumNotFound, "Decoding speed not found"},
	FormattingTypeNotFound:   {"FORMATTING_TYPE_NOT_FOUNDED", KindEnumNotFound, "Formatting type not found"},
	MaximumResultsNotValid:   {"MAXIMUM_RESULTS_TYPE_NOT_FOUNDED", KindValidationFailed, "Maximum results count not valid"},
	BarkoderConfigIsNotValid: {"BARKODER_CONFIG_IS_NOT_VALID", KindMalformedConfigDocument, "Barkoder config is not valid"},
	InvalidCameraPosition:    {"INVALID_CAMERA_POSITION", KindValidationFailed, "Invalid camera position"},
	EnumValueNotFound:        {"ENUM_VALUE_NOT_FOUND", KindEnumNotFound, "Enum value not found"},
	InvalidArguments:         {"INVALID_ARGUMENTS", KindValidationFailed, "Invalid arguments"},
	ValueOutOfRange:          {"VALUE_OUT_OF_RANGE", KindValidationFailed, "Value out of range"},
	ImageNotValid:            {"IMAGE_NOT_VALID", KindValidationFailed, "Image not valid"},
	EngineFailure:            {"ENGINE_FAILURE", KindValidationFailed, "Engine failure"},
}

func (c Code) info() codeInfo {
	if c < 0 || int(c) >= len(codes) {
		return codeInfo{name: fmt.Sprintf("CODE_%d", int(c)), kind: KindValidationFailed, prefix: "Unknown error"}
	}
	return codes[c]
}

// Name returns the stable symbolic name of c.
func (c Code) Name() string { return c.info().name }

// Kind returns the family c belongs to.
func (c Code) Kind() Kind { return c.info().kind }

func (c Code) String() string { return c.Name() }

// Failure is the typed error returned to the host.
type Failure struct {
	Code    Code
	Message string // fixed prefix, optionally followed by the underlying error
	Detail  string
}

func (f *Failure) Error() string { return f.Message }

// Kind returns the error family of f.
func (f *Failure) Kind() Kind { return f.Code.Kind() }

// Is matches failures by code so callers can use errors.Is with a template.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Code == f.Code
}

// NewFailure builds a failure whose message is the code prefix plus detail.
func NewFailure(code Code, detail string) *Failure {
	msg := code.info().prefix
	if detail != "" {
		msg += ": " + detail
	}
	return &Failure{Code: code, Message: msg, Detail: detail}
}

// ErrDisposed is returned for every command on a disposed bridge.
var ErrDisposed = NewFailure(BarkoderViewDestroyed, "")

var errInvalidArgs = errors.New("invalid arguments")

// classify converts err into a Failure. code is the failure the command
// raises for its own validation errors.
func classify(err error, code Code) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	detail := err.Error()
	switch {
	case errors.Is(err, errInvalidArgs):
		return NewFailure(InvalidArguments, detail)
	case errors.Is(err, scanconfig.ErrUnknownType):
		return NewFailure(BarcodeTypeNotFound, detail)
	case errors.Is(err, scanconfig.ErrNotSupported):
		return NewFailure(BarcodeTypeNotSupported, detail)
	case errors.Is(err, scanconfig.ErrMalformedDocument):
		return NewFailure(BarkoderConfigIsNotValid, detail)
	case errors.Is(err, engine.ErrClosed):
		return NewFailure(BarkoderViewDestroyed, detail)
	case errors.Is(err, scanconfig.ErrUnknownEnum):
		if code.Kind() == KindEnumNotFound || code == InvalidResolution || code == InvalidCameraPosition {
			return NewFailure(code, detail)
		}
		return NewFailure(EnumValueNotFound, detail)
	case errors.Is(err, engine.ErrNotScanning),
		errors.Is(err, engine.ErrFlashUnavailable),
		errors.Is(err, engine.ErrNoFrame),
		errors.Is(err, global.ErrNotInitialized):
		return NewFailure(EngineFailure, detail)
	}
	return NewFailure(code, detail)
}
