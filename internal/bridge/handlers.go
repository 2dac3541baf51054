package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/global"
	"github.com/MeKo-Tech/scanbridge/internal/scanconfig"
	"github.com/MeKo-Tech/scanbridge/internal/utils"
	"github.com/MeKo-Tech/scanbridge/internal/version"
	"github.com/tidwall/gjson"
)

// MaxDynamicExposure is the highest accepted exposure level.
const MaxDynamicExposure = 10

type handler struct {
	decode func(gjson.Result) (Args, error)
	run    func(ctx context.Context, b *Bridge, a Args, r *Responder)
}

// command binds a typed argument decoder to a handler that answers through r.
func command[A Args](decode func(gjson.Result) (A, error), run func(context.Context, *Bridge, A, *Responder)) handler {
	return handler{
		decode: func(v gjson.Result) (Args, error) {
			a, err := decode(v)
			return a, err
		},
		run: func(ctx context.Context, b *Bridge, a Args, r *Responder) {
			typed, ok := a.(A)
			if !ok {
				r.Fail(NewFailure(InvalidArguments, fmt.Sprintf("expected %T, got %T", typed, a)))
				return
			}
			run(ctx, b, typed, r)
		},
	}
}

// syncCommand answers as soon as fn returns. Errors are classified with code.
func syncCommand[A Args](decode func(gjson.Result) (A, error), code Code, fn func(context.Context, *Bridge, A) (any, error)) handler {
	return command(decode, func(ctx context.Context, b *Bridge, a A, r *Responder) {
		v, err := fn(ctx, b, a)
		if err != nil {
			r.Fail(classify(err, code))
			return
		}
		r.Success(v)
	})
}

func noArgs(code Code, fn func(context.Context, *Bridge) error) handler {
	return syncCommand(decodeNone, code, func(ctx context.Context, b *Bridge, _ NoArgs) (any, error) {
		return nil, fn(ctx, b)
	})
}

func query(fn func(b *Bridge) (any, error)) handler {
	return syncCommand(decodeNone, EngineFailure, func(_ context.Context, b *Bridge, _ NoArgs) (any, error) {
		return fn(b)
	})
}

func getField[T any](f scanconfig.Field[T], out func(T) any) handler {
	return query(func(b *Bridge) (any, error) {
		v := f.Get(b.store.Snapshot())
		if out == nil {
			return v, nil
		}
		return out(v), nil
	})
}

func getColor(f scanconfig.Field[scanconfig.Color]) handler {
	return getField(f, func(c scanconfig.Color) any { return c.Hex() })
}

func getEnum[E ~int](f scanconfig.Field[E]) handler {
	return getField(f, func(e E) any { return int(e) })
}

func setBool(f scanconfig.Field[bool]) handler {
	return syncCommand(decodeBool, ValueOutOfRange, func(_ context.Context, b *Bridge, a Bool) (any, error) {
		return nil, scanconfig.Set(b.store, f, bool(a))
	})
}

func setInt(f scanconfig.Field[int], code Code) handler {
	return syncCommand(decodeInt, code, func(_ context.Context, b *Bridge, a Int) (any, error) {
		return nil, scanconfig.Set(b.store, f, int(a))
	})
}

func setFloat(f scanconfig.Field[float64]) handler {
	return syncCommand(decodeFloat, ValueOutOfRange, func(_ context.Context, b *Bridge, a Float) (any, error) {
		return nil, scanconfig.Set(b.store, f, float64(a))
	})
}

func setString(f scanconfig.Field[string], code Code) handler {
	return syncCommand(decodeString, code, func(_ context.Context, b *Bridge, a String) (any, error) {
		return nil, scanconfig.Set(b.store, f, string(a))
	})
}

func setColor(f scanconfig.Field[scanconfig.Color]) handler {
	return syncCommand(decodeString, ColorNotSet, func(_ context.Context, b *Bridge, a String) (any, error) {
		c, err := scanconfig.ParseColor(string(a))
		if err != nil {
			return nil, err
		}
		return nil, scanconfig.Set(b.store, f, c)
	})
}

// setEnum resolves the ordinal against E before anything is written.
func setEnum[E ~int](f scanconfig.Field[E], code Code) handler {
	return syncCommand(decodeInt, code, func(_ context.Context, b *Bridge, a Int) (any, error) {
		return nil, scanconfig.Set(b.store, f, E(a))
	})
}

func getChecksum(t barcode.Type) handler {
	return query(func(b *Bridge) (any, error) { return b.store.Snapshot().Checksum(t) })
}

func setChecksum(t barcode.Type) handler {
	return syncCommand(decodeInt, ChecksumTypeNotFound, func(_ context.Context, b *Bridge, a Int) (any, error) {
		return nil, b.store.Update(func(c *scanconfig.Config) error { return c.SetChecksum(t, int(a)) })
	})
}

func engineBool(fn func(b *Bridge, v bool) error) handler {
	return syncCommand(decodeBool, EngineFailure, func(_ context.Context, b *Bridge, a Bool) (any, error) {
		return nil, fn(b, bool(a))
	})
}

var commands = map[Method]handler{
	// Engine control
	StartCamera:      noArgs(EngineFailure, func(ctx context.Context, b *Bridge) error { return b.engine.StartCamera(ctx) }),
	StartScanning:    noArgs(EngineFailure, func(_ context.Context, b *Bridge) error { return b.engine.StartScanning(b.store, b.onBatch) }),
	StopScanning:     noArgs(EngineFailure, func(_ context.Context, b *Bridge) error { return b.engine.StopScanning() }),
	PauseScanning:    noArgs(EngineFailure, func(_ context.Context, b *Bridge) error { return b.engine.PauseScanning() }),
	FreezeScanning:   noArgs(EngineFailure, func(_ context.Context, b *Bridge) error { return b.engine.FreezeScanning() }),
	UnfreezeScanning: noArgs(EngineFailure, func(_ context.Context, b *Bridge) error { return b.engine.UnfreezeScanning() }),
	CaptureImage:     noArgs(EngineFailure, func(_ context.Context, b *Bridge) error { return b.engine.CaptureImage() }),
	ScanImage:        syncCommand(decodeString, ImageNotValid, func(_ context.Context, b *Bridge, a String) (any, error) {
		img, err := utils.DecodeBase64Image(string(a))
		if err != nil {
			return nil, err
		}
		if err := b.engine.ScanImage(b.ctx, img, b.store.Snapshot(), b.onBatch); err != nil {
			return nil, classify(err, EngineFailure)
		}
		return nil, nil
	}),
	SetZoomFactor: syncCommand(decodeFloat, ValueOutOfRange, func(_ context.Context, b *Bridge, a Float) (any, error) {
		return nil, b.engine.SetZoomFactor(float64(a))
	}),
	GetCurrentZoomFactor: query(func(b *Bridge) (any, error) { return b.engine.CurrentZoomFactor(), nil }),
	GetMaxZoomFactor:     command(decodeNone, func(_ context.Context, b *Bridge, _ NoArgs, r *Responder) {
		b.engine.MaxZoomFactor(func(f float64) { r.Success(f) })
	}),
	IsFlashAvailable: command(decodeNone, func(_ context.Context, b *Bridge, _ NoArgs, r *Responder) {
		b.engine.IsFlashAvailable(func(ok bool) { r.Success(ok) })
	}),
	SetFlashEnabled: engineBool(func(b *Bridge, v bool) error { return b.engine.SetFlashEnabled(v) }),
	SetCamera:       syncCommand(decodeInt, InvalidCameraPosition, func(_ context.Context, b *Bridge, a Int) (any, error) {
		pos, err := scanconfig.ParseEnum[scanconfig.CameraPosition](int(a))
		if err != nil {
			return nil, err
		}
		return nil, b.engine.SetCamera(pos)
	}),
	SetDynamicExposure: syncCommand(decodeInt, ValueOutOfRange, func(_ context.Context, b *Bridge, a Int) (any, error) {
		if a < 0 || a > MaxDynamicExposure {
			return nil, NewFailure(ValueOutOfRange, fmt.Sprintf("dynamic exposure %d not in [0, %d]", a, MaxDynamicExposure))
		}
		return nil, b.engine.SetDynamicExposure(int(a))
	}),
	SetCentricFocusAndExposure: engineBool(func(b *Bridge, v bool) error { return b.engine.SetCentricFocusAndExposure(v) }),
	SetVideoStabilization:      engineBool(func(b *Bridge, v bool) error { return b.engine.SetVideoStabilization(v) }),

	// Info
	GetVersion:      query(func(*Bridge) (any, error) { return version.Version, nil }),
	GetLibVersion:   query(func(b *Bridge) (any, error) { return b.engine.LibVersion(), nil }),
	ShowLogMessages: syncCommand(decodeBool, EngineFailure, func(_ context.Context, b *Bridge, a Bool) (any, error) {
		return nil, b.globals.SetLogsEnabled(bool(a))
	}),

	// Capture and UI
	GetLocationLineColorHex:         getColor(scanconfig.LocationLineColor),
	SetLocationLineColor:            setColor(scanconfig.LocationLineColor),
	GetLocationLineWidth:            getField(scanconfig.LocationLineWidth, nil),
	SetLocationLineWidth:            setFloat(scanconfig.LocationLineWidth),
	GetRoiLineColorHex:              getColor(scanconfig.ROILineColor),
	SetRoiLineColor:                 setColor(scanconfig.ROILineColor),
	GetRoiLineWidth:                 getField(scanconfig.ROILineWidth, nil),
	SetRoiLineWidth:                 setFloat(scanconfig.ROILineWidth),
	GetRoiOverlayBackgroundColorHex: getColor(scanconfig.ROIOverlayBackgroundColor),
	SetRoiOverlayBackgroundColor:    setColor(scanconfig.ROIOverlayBackgroundColor),
	IsCloseSessionOnResultEnabled:   getField(scanconfig.CloseSessionOnResult, nil),
	SetCloseSessionOnResultEnabled:  setBool(scanconfig.CloseSessionOnResult),
	IsImageResultEnabled:            getField(scanconfig.ImageResult, nil),
	SetImageResultEnabled:           setBool(scanconfig.ImageResult),
	IsLocationInImageResultEnabled:  getField(scanconfig.LocationInImageResult, nil),
	SetLocationInImageResultEnabled: setBool(scanconfig.LocationInImageResult),
	GetRegionOfInterest:             getField(scanconfig.ROIField, func(r scanconfig.Region) any {
		return []float64{r.Left, r.Top, r.Width, r.Height}
	}),
	SetRegionOfInterest: syncCommand(decodeRegion, RoiNotSet, func(_ context.Context, b *Bridge, a RegionArgs) (any, error) {
		return nil, scanconfig.Set(b.store, scanconfig.ROIField, scanconfig.Region(a))
	}),
	IsRegionOfInterestVisible:          getField(scanconfig.RegionOfInterestVisible, nil),
	SetRegionOfInterestVisible:         setBool(scanconfig.RegionOfInterestVisible),
	IsLocationInPreviewEnabled:         getField(scanconfig.LocationInPreview, nil),
	SetLocationInPreviewEnabled:        setBool(scanconfig.LocationInPreview),
	IsPinchToZoomEnabled:               getField(scanconfig.PinchToZoom, nil),
	SetPinchToZoomEnabled:              setBool(scanconfig.PinchToZoom),
	GetBarkoderResolution:              getEnum(scanconfig.ResolutionField),
	SetBarkoderResolution:              setEnum(scanconfig.ResolutionField, InvalidResolution),
	IsBeepOnSuccessEnabled:             getField(scanconfig.BeepOnSuccess, nil),
	SetBeepOnSuccessEnabled:            setBool(scanconfig.BeepOnSuccess),
	IsVibrateOnSuccessEnabled:          getField(scanconfig.VibrateOnSuccess, nil),
	SetVibrateOnSuccessEnabled:         setBool(scanconfig.VibrateOnSuccess),
	IsBarcodeThumbnailOnResultEnabled:  getField(scanconfig.BarcodeThumbnailOnResult, nil),
	SetBarcodeThumbnailOnResultEnabled: setBool(scanconfig.BarcodeThumbnailOnResult),
	GetThresholdBetweenDuplicatesScans: getField(scanconfig.ThresholdBetweenDuplicateScans, nil),
	SetThresholdBetweenDuplicatesScans: setInt(scanconfig.ThresholdBetweenDuplicateScans, ValueOutOfRange),
	GetShowDuplicatesLocations:         getField(scanconfig.ShowDuplicatesLocations, nil),
	SetShowDuplicatesLocations:         setBool(scanconfig.ShowDuplicatesLocations),
	GetScanningIndicatorColorHex:       getColor(scanconfig.ScanningIndicatorColor),
	SetScanningIndicatorColor:          setColor(scanconfig.ScanningIndicatorColor),
	GetScanningIndicatorWidth:          getField(scanconfig.ScanningIndicatorWidth, nil),
	SetScanningIndicatorWidth:          setFloat(scanconfig.ScanningIndicatorWidth),
	GetScanningIndicatorAnimation:      getEnum(scanconfig.ScanningIndicatorAnimation),
	SetScanningIndicatorAnimation:      setEnum(scanconfig.ScanningIndicatorAnimation, EnumValueNotFound),
	IsScanningIndicatorAlwaysVisible:   getField(scanconfig.ScanningIndicatorAlwaysVisible, nil),
	SetScanningIndicatorAlwaysVisible:  setBool(scanconfig.ScanningIndicatorAlwaysVisible),

	// Process-wide settings
	GetThreadsLimit: query(func(b *Bridge) (any, error) { return b.globals.Load().ThreadsLimit, nil }),
	SetThreadsLimit: syncCommand(decodeInt, ThreadsLimitNotSet, func(_ context.Context, b *Bridge, a Int) (any, error) {
		return nil, b.globals.SetThreadsLimit(int(a))
	}),
	GetMulticodeCachingEnabled: query(func(b *Bridge) (any, error) { return b.globals.Load().MulticodeCachingEnabled, nil }),
	SetMulticodeCachingEnabled: syncCommand(decodeBool, EngineFailure, func(_ context.Context, b *Bridge, a Bool) (any, error) {
		return nil, b.globals.SetMulticodeCachingEnabled(bool(a))
	}),
	GetMulticodeCachingDuration: query(func(b *Bridge) (any, error) {
		return int(b.globals.Load().MulticodeCachingDuration / time.Millisecond), nil
	}),
	SetMulticodeCachingDuration: syncCommand(decodeInt, ValueOutOfRange, func(_ context.Context, b *Bridge, a Int) (any, error) {
		d, err := global.CachingDurationFromMs(int64(a))
		if err != nil {
			return nil, err
		}
		return nil, b.globals.SetMulticodeCachingDuration(d)
	}),

	// Decoder
	IsBarcodeTypeEnabled: syncCommand(decodeType, BarcodeTypeNotFound, func(_ context.Context, b *Bridge, a TypeArg) (any, error) {
		return b.store.Snapshot().TypeEnabled(a.Type)
	}),
	SetBarcodeTypeEnabled: syncCommand(decodeTypeEnabled, BarcodeTypeNotFound, func(_ context.Context, b *Bridge, a TypeEnabledArgs) (any, error) {
		return nil, b.store.Update(func(c *scanconfig.Config) error { return c.SetTypeEnabled(a.Type, a.Enabled) })
	}),
	GetBarcodeTypeLengthRange: syncCommand(decodeType, LengthRangeNotValid, func(_ context.Context, b *Bridge, a TypeArg) (any, error) {
		lo, hi, err := b.store.Snapshot().LengthRange(a.Type)
		if err != nil {
			return nil, err
		}
		return []int{lo, hi}, nil
	}),
	SetBarcodeTypeLengthRange: syncCommand(decodeLengthRange, LengthRangeNotValid, func(_ context.Context, b *Bridge, a LengthRangeArgs) (any, error) {
		return nil, b.store.Update(func(c *scanconfig.Config) error { return c.SetLengthRange(a.Type, a.Min, a.Max) })
	}),
	GetMsiChecksumType:         getChecksum(barcode.Msi),
	SetMsiChecksumType:         setChecksum(barcode.Msi),
	GetCode39ChecksumType:      getChecksum(barcode.Code39),
	SetCode39ChecksumType:      setChecksum(barcode.Code39),
	GetCode11ChecksumType:      getChecksum(barcode.Code11),
	SetCode11ChecksumType:      setChecksum(barcode.Code11),
	GetBarcodeTypeChecksumType: syncCommand(decodeType, ChecksumTypeNotFound, func(_ context.Context, b *Bridge, a TypeArg) (any, error) {
		return b.store.Snapshot().Checksum(a.Type)
	}),
	SetBarcodeTypeChecksumType: syncCommand(decodeChecksum, ChecksumTypeNotFound, func(_ context.Context, b *Bridge, a ChecksumArgs) (any, error) {
		return nil, b.store.Update(func(c *scanconfig.Config) error { return c.SetChecksum(a.Type, a.Checksum) })
	}),
	GetEncodingCharacterSet:            getField(scanconfig.EncodingCharacterSet, nil),
	SetEncodingCharacterSet:            setString(scanconfig.EncodingCharacterSet, ValueOutOfRange),
	GetDecodingSpeed:                   getEnum(scanconfig.DecodingSpeedField),
	SetDecodingSpeed:                   setEnum(scanconfig.DecodingSpeedField, DecodingSpeedNotFound),
	GetFormattingType:                  getEnum(scanconfig.FormattingField),
	SetFormattingType:                  setEnum(scanconfig.FormattingField, FormattingTypeNotFound),
	GetMaximumResultsCount:             getField(scanconfig.MaximumResultsCount, nil),
	SetMaximumResultsCount:             setInt(scanconfig.MaximumResultsCount, MaximumResultsNotValid),
	IsUpcEanDeblurEnabled:              getField(scanconfig.UpcEanDeblur, nil),
	SetUpcEanDeblurEnabled:             setBool(scanconfig.UpcEanDeblur),
	IsMisshaped1DEnabled:               getField(scanconfig.EnableMisshaped1D, nil),
	SetEnableMisshaped1DEnabled:        setBool(scanconfig.EnableMisshaped1D),
	SetMisshaped1DEnabled:              setBool(scanconfig.EnableMisshaped1D),
	IsVINRestrictionsEnabled:           getField(scanconfig.EnableVINRestrictions, nil),
	SetEnableVINRestrictions:           setBool(scanconfig.EnableVINRestrictions),
	IsDatamatrixDpmModeEnabled:         getField(scanconfig.DatamatrixDPMMode, nil),
	SetDatamatrixDpmModeEnabled:        setBool(scanconfig.DatamatrixDPMMode),
	IsQrDpmModeEnabled:                 getField(scanconfig.QRDPMMode, nil),
	SetQrDpmModeEnabled:                setBool(scanconfig.QRDPMMode),
	IsQrMicroDpmModeEnabled:            getField(scanconfig.QRMicroDPMMode, nil),
	SetQrMicroDpmModeEnabled:           setBool(scanconfig.QRMicroDPMMode),
	IsIdDocumentMasterChecksumEnabled:  getField(scanconfig.IDDocumentMasterChecksum, nil),
	SetIdDocumentMasterChecksumEnabled: setBool(scanconfig.IDDocumentMasterChecksum),
	GetUPCEexpandToUPCA:                getField(scanconfig.UPCEExpandToUPCA, nil),
	SetUPCEexpandToUPCA:                setBool(scanconfig.UPCEExpandToUPCA),
	GetUPCE1expandToUPCA:               getField(scanconfig.UPCE1ExpandToUPCA, nil),
	SetUPCE1expandToUPCA:               setBool(scanconfig.UPCE1ExpandToUPCA),
	GetEnableComposite:                 getEnum(scanconfig.CompositeField),
	SetEnableComposite:                 setEnum(scanconfig.CompositeField, EnumValueNotFound),
	SetCustomOption:                    syncCommand(decodeCustomOption, ValueOutOfRange, func(_ context.Context, b *Bridge, a CustomOptionArgs) (any, error) {
		return nil, b.store.Update(func(c *scanconfig.Config) error { return c.SetCustomOption(a.Option, a.Value) })
	}),

	// Augmented reality
	GetARMode: getEnum(scanconfig.ARModeField),
	SetARMode: setEnum(scanconfig.ARModeField, EnumValueNotFound),
	GetARResultDisappearanceDelayMs:      getField(scanconfig.ARResultDisappearanceDelayMs, nil),
	SetARResultDisappearanceDelayMs:      setInt(scanconfig.ARResultDisappearanceDelayMs, ValueOutOfRange),
	GetARLocationTransitionSpeed:         getField(scanconfig.ARLocationTransitionSpeed, nil),
	SetARLocationTransitionSpeed:         setFloat(scanconfig.ARLocationTransitionSpeed),
	GetAROverlayRefresh:                  getEnum(scanconfig.AROverlayRefreshField),
	SetAROverlayRefresh:                  setEnum(scanconfig.AROverlayRefreshField, EnumValueNotFound),
	GetARSelectedLocationColor:           getColor(scanconfig.ARSelectedLocationColor),
	GetARSelectedLocationColorHex:        getColor(scanconfig.ARSelectedLocationColor),
	SetARSelectedLocationColor:           setColor(scanconfig.ARSelectedLocationColor),
	GetARNonSelectedLocationColor:        getColor(scanconfig.ARNonSelectedLocationColor),
	GetARNonSelectedLocationColorHex:     getColor(scanconfig.ARNonSelectedLocationColor),
	SetARNonSelectedLocationColor:        setColor(scanconfig.ARNonSelectedLocationColor),
	GetARSelectedLocationLineWidth:       getField(scanconfig.ARSelectedLocationLineWidth, nil),
	SetARSelectedLocationLineWidth:       setFloat(scanconfig.ARSelectedLocationLineWidth),
	GetARNonSelectedLocationLineWidth:    getField(scanconfig.ARNonSelectedLocationLineWidth, nil),
	SetARNonSelectedLocationLineWidth:    setFloat(scanconfig.ARNonSelectedLocationLineWidth),
	GetARLocationType:                    getEnum(scanconfig.ARLocationTypeField),
	SetARLocationType:                    setEnum(scanconfig.ARLocationTypeField, EnumValueNotFound),
	IsARDoubleTapToFreezeEnabled:         getField(scanconfig.ARDoubleTapToFreeze, nil),
	SetARDoubleTapToFreezeEnabled:        setBool(scanconfig.ARDoubleTapToFreeze),
	IsARImageResultEnabled:               getField(scanconfig.ARImageResult, nil),
	SetARImageResultEnabled:              setBool(scanconfig.ARImageResult),
	IsARBarcodeThumbnailOnResultEnabled:  getField(scanconfig.ARBarcodeThumbnailOnResult, nil),
	SetARBarcodeThumbnailOnResultEnabled: setBool(scanconfig.ARBarcodeThumbnailOnResult),
	GetARResultLimit:                     getField(scanconfig.ARResultLimit, nil),
	SetARResultLimit:                     setInt(scanconfig.ARResultLimit, ValueOutOfRange),
	GetARContinueScanningOnLimit:         getField(scanconfig.ARContinueScanningOnLimit, nil),
	SetARContinueScanningOnLimit:         setBool(scanconfig.ARContinueScanningOnLimit),
	GetAREmitResultsAtSessionEndOnly:     getField(scanconfig.AREmitResultsAtSessionEndOnly, nil),
	SetAREmitResultsAtSessionEndOnly:     setBool(scanconfig.AREmitResultsAtSessionEndOnly),
	GetARHeaderHeight:                    getField(scanconfig.ARHeaderHeight, nil),
	SetARHeaderHeight:                    setFloat(scanconfig.ARHeaderHeight),
	GetARHeaderShowMode:                  getEnum(scanconfig.ARHeaderShowModeField),
	SetARHeaderShowMode:                  setEnum(scanconfig.ARHeaderShowModeField, EnumValueNotFound),
	GetARHeaderMaxTextHeight:             getField(scanconfig.ARHeaderMaxTextHeight, nil),
	SetARHeaderMaxTextHeight:             setFloat(scanconfig.ARHeaderMaxTextHeight),
	GetARHeaderMinTextHeight:             getField(scanconfig.ARHeaderMinTextHeight, nil),
	SetARHeaderMinTextHeight:             setFloat(scanconfig.ARHeaderMinTextHeight),
	GetARHeaderTextColorSelected:         getColor(scanconfig.ARHeaderTextColorSelected),
	GetARHeaderTextColorSelectedHex:      getColor(scanconfig.ARHeaderTextColorSelected),
	SetARHeaderTextColorSelected:         setColor(scanconfig.ARHeaderTextColorSelected),
	GetARHeaderTextColorNonSelected:      getColor(scanconfig.ARHeaderTextColorNonSelected),
	GetARHeaderTextColorNonSelectedHex:   getColor(scanconfig.ARHeaderTextColorNonSelected),
	SetARHeaderTextColorNonSelected:      setColor(scanconfig.ARHeaderTextColorNonSelected),
	GetARHeaderHorizontalTextMargin:      getField(scanconfig.ARHeaderHorizontalTextMargin, nil),
	SetARHeaderHorizontalTextMargin:      setFloat(scanconfig.ARHeaderHorizontalTextMargin),
	GetARHeaderVerticalTextMargin:        getField(scanconfig.ARHeaderVerticalTextMargin, nil),
	SetARHeaderVerticalTextMargin:        setFloat(scanconfig.ARHeaderVerticalTextMargin),
	GetARHeaderTextFormat:                getField(scanconfig.ARHeaderTextFormat, nil),
	SetARHeaderTextFormat:                setString(scanconfig.ARHeaderTextFormat, ValueOutOfRange),

	// Bulk configuration
	ConfigureBarkoder: syncCommand(decodeString, BarkoderConfigIsNotValid, func(_ context.Context, b *Bridge, a String) (any, error) {
		_, err := b.store.ApplyDocument(string(a))
		return nil, err
	}),
	GetConfigDocument: query(func(b *Bridge) (any, error) { return scanconfig.ExportDocument(b.store.Snapshot()) }),
}
