package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/MeKo-Tech/scanbridge/internal/scanconfig"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type enumCommand struct {
	set, get Method
	count    int
	code     Code
}

var enumCommands = []enumCommand{
	{SetDecodingSpeed, GetDecodingSpeed, 4, DecodingSpeedNotFound},
	{SetFormattingType, GetFormattingType, 5, FormattingTypeNotFound},
	{SetBarkoderResolution, GetBarkoderResolution, 3, InvalidResolution},
	{SetMsiChecksumType, GetMsiChecksumType, 7, ChecksumTypeNotFound},
	{SetCode39ChecksumType, GetCode39ChecksumType, 2, ChecksumTypeNotFound},
	{SetCode11ChecksumType, GetCode11ChecksumType, 3, ChecksumTypeNotFound},
	{SetEnableComposite, GetEnableComposite, 2, EnumValueNotFound},
	{SetScanningIndicatorAnimation, GetScanningIndicatorAnimation, 3, EnumValueNotFound},
	{SetARMode, GetARMode, 4, EnumValueNotFound},
	{SetAROverlayRefresh, GetAROverlayRefresh, 2, EnumValueNotFound},
	{SetARLocationType, GetARLocationType, 3, EnumValueNotFound},
	{SetARHeaderShowMode, GetARHeaderShowMode, 3, EnumValueNotFound},
}

func TestEnumCommandProperties(t *testing.T) {
	b := newTestBridge(t, nil)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	for _, ec := range enumCommands {
		properties.Property(string(ec.set)+" round trips valid ordinals", prop.ForAll(
			func(i int) bool {
				if _, err := b.Call(ctx, ec.set, Int(i)); err != nil {
					return false
				}
				v, err := b.Call(ctx, ec.get, nil)
				return err == nil && v == i
			},
			gen.IntRange(0, ec.count-1),
		))

		properties.Property(string(ec.set)+" rejects unknown ordinals", prop.ForAll(
			func(off int, below bool) bool {
				i := ec.count + off
				if below {
					i = -1 - off
				}
				before := b.Store().Snapshot()
				_, err := b.Call(ctx, ec.set, Int(i))
				var f *Failure
				return errors.As(err, &f) && f.Code == ec.code && b.Store().Snapshot() == before
			},
			gen.IntRange(0, 1000),
			gen.Bool(),
		))
	}

	properties.TestingRun(t)
}

func TestColorCommandProperties(t *testing.T) {
	b := newTestBridge(t, nil)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)
	properties.Property("color setters accept every getter output", prop.ForAll(
		func(v uint32) bool {
			hex := scanconfig.Color(v).Hex()
			if _, err := b.Call(ctx, SetScanningIndicatorColor, String(hex)); err != nil {
				return false
			}
			got, err := b.Call(ctx, GetScanningIndicatorColorHex, nil)
			return err == nil && got == hex
		},
		gen.UInt32(),
	))
	properties.TestingRun(t)
}
