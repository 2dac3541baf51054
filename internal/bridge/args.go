package bridge

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/tidwall/gjson"
)

// Args is the argument variant of a command. Each command accepts exactly
// one variant.
type Args interface {
	isArgs()
}

// NoArgs is the argument of commands that take none.
type NoArgs struct{}

// Bool is a single positional boolean.
type Bool bool

// Int is a single positional integer, also used for enum ordinals.
type Int int

// Float is a single positional number.
type Float float64

// String is a single positional string (hex colors, base64 images, documents).
type String string

// TypeArg selects one symbology by ordinal.
type TypeArg struct {
	Type barcode.Type
}

// RegionArgs is a normalized rectangle.
type RegionArgs struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TypeEnabledArgs toggles one symbology.
type TypeEnabledArgs struct {
	Type    barcode.Type `json:"type"`
	Enabled bool         `json:"enabled"`
}

// LengthRangeArgs sets the accepted payload length of one symbology.
type LengthRangeArgs struct {
	Type barcode.Type `json:"type"`
	Min  int          `json:"min"`
	Max  int          `json:"max"`
}

// ChecksumArgs sets the checksum mode of one symbology.
type ChecksumArgs struct {
	Type     barcode.Type `json:"type"`
	Checksum int          `json:"checksum"`
}

// CustomOptionArgs sets an engine-specific integer option.
type CustomOptionArgs struct {
	Option string `json:"option"`
	Value  int    `json:"value"`
}

func (NoArgs) isArgs()           {}
func (Bool) isArgs()             {}
func (Int) isArgs()              {}
func (Float) isArgs()            {}
func (String) isArgs()           {}
func (TypeArg) isArgs()          {}
func (RegionArgs) isArgs()       {}
func (TypeEnabledArgs) isArgs()  {}
func (LengthRangeArgs) isArgs()  {}
func (ChecksumArgs) isArgs()     {}
func (CustomOptionArgs) isArgs() {}

func argsErr(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errInvalidArgs}, a...)...)
}

func wantBool(v gjson.Result, name string) (bool, error) {
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, argsErr("%s must be a boolean, got %q", name, v.Raw)
	}
	return v.Bool(), nil
}

func wantInt(v gjson.Result, name string) (int, error) {
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, argsErr("%s must be an integer, got %q", name, v.Raw)
	}
	return int(v.Num), nil
}

func wantFloat(v gjson.Result, name string) (float64, error) {
	if v.Type != gjson.Number {
		return 0, argsErr("%s must be a number, got %q", name, v.Raw)
	}
	return v.Num, nil
}

func wantString(v gjson.Result, name string) (string, error) {
	if v.Type != gjson.String {
		return "", argsErr("%s must be a string, got %q", name, v.Raw)
	}
	return v.Str, nil
}

func wantObject(v gjson.Result) error {
	if !v.IsObject() {
		return argsErr("expected an object, got %q", v.Raw)
	}
	return nil
}

func decodeNone(gjson.Result) (NoArgs, error) { return NoArgs{}, nil }

func decodeBool(v gjson.Result) (Bool, error) {
	b, err := wantBool(v, "value")
	return Bool(b), err
}

func decodeInt(v gjson.Result) (Int, error) {
	i, err := wantInt(v, "value")
	return Int(i), err
}

func decodeFloat(v gjson.Result) (Float, error) {
	f, err := wantFloat(v, "value")
	return Float(f), err
}

func decodeString(v gjson.Result) (String, error) {
	s, err := wantString(v, "value")
	return String(s), err
}

func decodeType(v gjson.Result) (TypeArg, error) {
	i, err := wantInt(v, "type")
	return TypeArg{Type: barcode.Type(i)}, err
}

func decodeRegion(v gjson.Result) (RegionArgs, error) {
	var a RegionArgs
	if err := wantObject(v); err != nil {
		return a, err
	}
	var err error
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"left", &a.Left}, {"top", &a.Top}, {"width", &a.Width}, {"height", &a.Height}} {
		if *f.dst, err = wantFloat(v.Get(f.name), f.name); err != nil {
			return a, err
		}
	}
	return a, nil
}

func decodeTypeEnabled(v gjson.Result) (TypeEnabledArgs, error) {
	var a TypeEnabledArgs
	if err := wantObject(v); err != nil {
		return a, err
	}
	t, err := wantInt(v.Get("type"), "type")
	if err != nil {
		return a, err
	}
	a.Type = barcode.Type(t)
	a.Enabled, err = wantBool(v.Get("enabled"), "enabled")
	return a, err
}

func decodeLengthRange(v gjson.Result) (LengthRangeArgs, error) {
	var a LengthRangeArgs
	if err := wantObject(v); err != nil {
		return a, err
	}
	t, err := wantInt(v.Get("type"), "type")
	if err != nil {
		return a, err
	}
	a.Type = barcode.Type(t)
	if a.Min, err = wantInt(v.Get("min"), "min"); err != nil {
		return a, err
	}
	a.Max, err = wantInt(v.Get("max"), "max")
	return a, err
}

func decodeChecksum(v gjson.Result) (ChecksumArgs, error) {
	var a ChecksumArgs
	if err := wantObject(v); err != nil {
		return a, err
	}
	t, err := wantInt(v.Get("type"), "type")
	if err != nil {
		return a, err
	}
	a.Type = barcode.Type(t)
	a.Checksum, err = wantInt(v.Get("checksum"), "checksum")
	return a, err
}

func decodeCustomOption(v gjson.Result) (CustomOptionArgs, error) {
	var a CustomOptionArgs
	if err := wantObject(v); err != nil {
		return a, err
	}
	var err error
	if a.Option, err = wantString(v.Get("option"), "option"); err != nil {
		return a, err
	}
	a.Value, err = wantInt(v.Get("value"), "value")
	return a, err
}
