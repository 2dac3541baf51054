package bridge

// Method names a command on the control channel.
type Method string

// Engine control.
const (
	StartCamera                Method = "startCamera"
	StartScanning              Method = "startScanning"
	StopScanning               Method = "stopScanning"
	PauseScanning              Method = "pauseScanning"
	FreezeScanning             Method = "freezeScanning"
	UnfreezeScanning           Method = "unfreezeScanning"
	CaptureImage               Method = "captureImage"
	ScanImage                  Method = "scanImage"
	SetZoomFactor              Method = "setZoomFactor"
	GetCurrentZoomFactor       Method = "getCurrentZoomFactor"
	GetMaxZoomFactor           Method = "getMaxZoomFactor"
	IsFlashAvailable           Method = "isFlashAvailable"
	SetFlashEnabled            Method = "setFlashEnabled"
	SetCamera                  Method = "setCamera"
	SetDynamicExposure         Method = "setDynamicExposure"
	SetCentricFocusAndExposure Method = "setCentricFocusAndExposure"
	SetVideoStabilization      Method = "setVideoStabilization"
)

// Info.
const (
	GetVersion      Method = "getVersion"
	GetLibVersion   Method = "getLibVersion"
	ShowLogMessages Method = "showLogMessages"
)

// Capture and UI.
const (
	GetLocationLineColorHex            Method = "getLocationLineColorHex"
	SetLocationLineColor               Method = "setLocationLineColor"
	GetLocationLineWidth               Method = "getLocationLineWidth"
	SetLocationLineWidth               Method = "setLocationLineWidth"
	GetRoiLineColorHex                 Method = "getRoiLineColorHex"
	SetRoiLineColor                    Method = "setRoiLineColor"
	GetRoiLineWidth                    Method = "getRoiLineWidth"
	SetRoiLineWidth                    Method = "setRoiLineWidth"
	GetRoiOverlayBackgroundColorHex    Method = "getRoiOverlayBackgroundColorHex"
	SetRoiOverlayBackgroundColor       Method = "setRoiOverlayBackgroundColor"
	IsCloseSessionOnResultEnabled      Method = "isCloseSessionOnResultEnabled"
	SetCloseSessionOnResultEnabled     Method = "setCloseSessionOnResultEnabled"
	IsImageResultEnabled               Method = "isImageResultEnabled"
	SetImageResultEnabled              Method = "setImageResultEnabled"
	IsLocationInImageResultEnabled     Method = "isLocationInImageResultEnabled"
	SetLocationInImageResultEnabled    Method = "setLocationInImageResultEnabled"
	GetRegionOfInterest                Method = "getRegionOfInterest"
	SetRegionOfInterest                Method = "setRegionOfInterest"
	IsRegionOfInterestVisible          Method = "isRegionOfInterestVisible"
	SetRegionOfInterestVisible         Method = "setRegionOfInterestVisible"
	IsLocationInPreviewEnabled         Method = "isLocationInPreviewEnabled"
	SetLocationInPreviewEnabled        Method = "setLocationInPreviewEnabled"
	IsPinchToZoomEnabled               Method = "isPinchToZoomEnabled"
	SetPinchToZoomEnabled              Method = "setPinchToZoomEnabled"
	GetBarkoderResolution              Method = "getBarkoderResolution"
	SetBarkoderResolution              Method = "setBarkoderResolution"
	IsBeepOnSuccessEnabled             Method = "isBeepOnSuccessEnabled"
	SetBeepOnSuccessEnabled            Method = "setBeepOnSuccessEnabled"
	IsVibrateOnSuccessEnabled          Method = "isVibrateOnSuccessEnabled"
	SetVibrateOnSuccessEnabled         Method = "setVibrateOnSuccessEnabled"
	IsBarcodeThumbnailOnResultEnabled  Method = "isBarcodeThumbnailOnResultEnabled"
	SetBarcodeThumbnailOnResultEnabled Method = "setBarcodeThumbnailOnResultEnabled"
	GetThresholdBetweenDuplicatesScans Method = "getThresholdBetweenDuplicatesScans"
	SetThresholdBetweenDuplicatesScans Method = "setThresholdBetweenDuplicatesScans"
	GetShowDuplicatesLocations         Method = "getShowDuplicatesLocations"
	SetShowDuplicatesLocations         Method = "setShowDuplicatesLocations"
	GetScanningIndicatorColorHex       Method = "getScanningIndicatorColorHex"
	SetScanningIndicatorColor          Method = "setScanningIndicatorColor"
	GetScanningIndicatorWidth          Method = "getScanningIndicatorWidth"
	SetScanningIndicatorWidth          Method = "setScanningIndicatorWidth"
	GetScanningIndicatorAnimation      Method = "getScanningIndicatorAnimation"
	SetScanningIndicatorAnimation      Method = "setScanningIndicatorAnimation"
	IsScanningIndicatorAlwaysVisible   Method = "isScanningIndicatorAlwaysVisible"
	SetScanningIndicatorAlwaysVisible  Method = "setScanningIndicatorAlwaysVisible"
)

// Process-wide settings.
const (
	GetThreadsLimit             Method = "getThreadsLimit"
	SetThreadsLimit             Method = "setThreadsLimit"
	GetMulticodeCachingEnabled  Method = "getMulticodeCachingEnabled"
	SetMulticodeCachingEnabled  Method = "setMulticodeCachingEnabled"
	GetMulticodeCachingDuration Method = "getMulticodeCachingDuration"
	SetMulticodeCachingDuration Method = "setMulticodeCachingDuration"
)

// Decoder.
const (
	IsBarcodeTypeEnabled               Method = "isBarcodeTypeEnabled"
	SetBarcodeTypeEnabled              Method = "setBarcodeTypeEnabled"
	GetBarcodeTypeLengthRange          Method = "getBarcodeTypeLengthRange"
	SetBarcodeTypeLengthRange          Method = "setBarcodeTypeLengthRange"
	GetMsiChecksumType                 Method = "getMsiChecksumType"
	SetMsiChecksumType                 Method = "setMsiChecksumType"
	GetCode39ChecksumType              Method = "getCode39ChecksumType"
	SetCode39ChecksumType              Method = "setCode39ChecksumType"
	GetCode11ChecksumType              Method = "getCode11ChecksumType"
	SetCode11ChecksumType              Method = "setCode11ChecksumType"
	GetBarcodeTypeChecksumType         Method = "getBarcodeTypeChecksumType"
	SetBarcodeTypeChecksumType         Method = "setBarcodeTypeChecksumType"
	GetEncodingCharacterSet            Method = "getEncodingCharacterSet"
	SetEncodingCharacterSet            Method = "setEncodingCharacterSet"
	GetDecodingSpeed                   Method = "getDecodingSpeed"
	SetDecodingSpeed                   Method = "setDecodingSpeed"
	GetFormattingType                  Method = "getFormattingType"
	SetFormattingType                  Method = "setFormattingType"
	GetMaximumResultsCount             Method = "getMaximumResultsCount"
	SetMaximumResultsCount             Method = "setMaximumResultsCount"
	IsUpcEanDeblurEnabled              Method = "isUpcEanDeblurEnabled"
	SetUpcEanDeblurEnabled             Method = "setUpcEanDeblurEnabled"
	IsMisshaped1DEnabled               Method = "isMisshaped1DEnabled"
	SetEnableMisshaped1DEnabled        Method = "setEnableMisshaped1DEnabled"
	SetMisshaped1DEnabled              Method = "setMisshaped1DEnabled"
	IsVINRestrictionsEnabled           Method = "isVINRestrictionsEnabled"
	SetEnableVINRestrictions           Method = "setEnableVINRestrictions"
	IsDatamatrixDpmModeEnabled         Method = "isDatamatrixDpmModeEnabled"
	SetDatamatrixDpmModeEnabled        Method = "setDatamatrixDpmModeEnabled"
	IsQrDpmModeEnabled                 Method = "isQrDpmModeEnabled"
	SetQrDpmModeEnabled                Method = "setQrDpmModeEnabled"
	IsQrMicroDpmModeEnabled            Method = "isQrMicroDpmModeEnabled"
	SetQrMicroDpmModeEnabled           Method = "setQrMicroDpmModeEnabled"
	IsIdDocumentMasterChecksumEnabled  Method = "isIdDocumentMasterChecksumEnabled"
	SetIdDocumentMasterChecksumEnabled Method = "setIdDocumentMasterChecksumEnabled"
	GetUPCEexpandToUPCA                Method = "getUPCEexpandToUPCA"
	SetUPCEexpandToUPCA                Method = "setUPCEexpandToUPCA"
	GetUPCE1expandToUPCA               Method = "getUPCE1expandToUPCA"
	SetUPCE1expandToUPCA               Method = "setUPCE1expandToUPCA"
	GetEnableComposite                 Method = "getEnableComposite"
	SetEnableComposite                 Method = "setEnableComposite"
	SetCustomOption                    Method = "setCustomOption"
)

// Augmented reality.
const (
	GetARMode                            Method = "getARMode"
	SetARMode                            Method = "setARMode"
	GetARResultDisappearanceDelayMs      Method = "getARResultDisappearanceDelayMs"
	SetARResultDisappearanceDelayMs      Method = "setARResultDisappearanceDelayMs"
	GetARLocationTransitionSpeed         Method = "getARLocationTransitionSpeed"
	SetARLocationTransitionSpeed         Method = "setARLocationTransitionSpeed"
	GetAROverlayRefresh                  Method = "getAROverlayRefresh"
	SetAROverlayRefresh                  Method = "setAROverlayRefresh"
	GetARSelectedLocationColor           Method = "getARSelectedLocationColor"
	GetARSelectedLocationColorHex        Method = "getARSelectedLocationColorHex" // alias
	SetARSelectedLocationColor           Method = "setARSelectedLocationColor"
	GetARNonSelectedLocationColor        Method = "getARNonSelectedLocationColor"
	GetARNonSelectedLocationColorHex     Method = "getARNonSelectedLocationColorHex" // alias
	SetARNonSelectedLocationColor        Method = "setARNonSelectedLocationColor"
	GetARSelectedLocationLineWidth       Method = "getARSelectedLocationLineWidth"
	SetARSelectedLocationLineWidth       Method = "setARSelectedLocationLineWidth"
	GetARNonSelectedLocationLineWidth    Method = "getARNonSelectedLocationLineWidth"
	SetARNonSelectedLocationLineWidth    Method = "setARNonSelectedLocationLineWidth"
	GetARLocationType                    Method = "getARLocationType"
	SetARLocationType                    Method = "setARLocationType"
	IsARDoubleTapToFreezeEnabled         Method = "isARDoubleTapToFreezeEnabled"
	SetARDoubleTapToFreezeEnabled        Method = "setARDoubleTapToFreezeEnabled"
	IsARImageResultEnabled               Method = "isARImageResultEnabled"
	SetARImageResultEnabled              Method = "setARImageResultEnabled"
	IsARBarcodeThumbnailOnResultEnabled  Method = "isARBarcodeThumbnailOnResultEnabled"
	SetARBarcodeThumbnailOnResultEnabled Method = "setARBarcodeThumbnailOnResultEnabled"
	GetARResultLimit                     Method = "getARResultLimit"
	SetARResultLimit                     Method = "setARResultLimit"
	GetARContinueScanningOnLimit         Method = "getARContinueScanningOnLimit"
	SetARContinueScanningOnLimit         Method = "setARContinueScanningOnLimit"
	GetAREmitResultsAtSessionEndOnly     Method = "getAREmitResultsAtSessionEndOnly"
	SetAREmitResultsAtSessionEndOnly     Method = "setAREmitResultsAtSessionEndOnly"
	GetARHeaderHeight                    Method = "getARHeaderHeight"
	SetARHeaderHeight                    Method = "setARHeaderHeight"
	GetARHeaderShowMode                  Method = "getARHeaderShowMode"
	SetARHeaderShowMode                  Method = "setARHeaderShowMode"
	GetARHeaderMaxTextHeight             Method = "getARHeaderMaxTextHeight"
	SetARHeaderMaxTextHeight             Method = "setARHeaderMaxTextHeight"
	GetARHeaderMinTextHeight             Method = "getARHeaderMinTextHeight"
	SetARHeaderMinTextHeight             Method = "setARHeaderMinTextHeight"
	GetARHeaderTextColorSelected         Method = "getARHeaderTextColorSelected"
	GetARHeaderTextColorSelectedHex      Method = "getARHeaderTextColorSelectedHex" // alias
	SetARHeaderTextColorSelected         Method = "setARHeaderTextColorSelected"
	GetARHeaderTextColorNonSelected      Method = "getARHeaderTextColorNonSelected"
	GetARHeaderTextColorNonSelectedHex   Method = "getARHeaderTextColorNonSelectedHex" // alias
	SetARHeaderTextColorNonSelected      Method = "setARHeaderTextColorNonSelected"
	GetARHeaderHorizontalTextMargin      Method = "getARHeaderHorizontalTextMargin"
	SetARHeaderHorizontalTextMargin      Method = "setARHeaderHorizontalTextMargin"
	GetARHeaderVerticalTextMargin        Method = "getARHeaderVerticalTextMargin"
	SetARHeaderVerticalTextMargin        Method = "setARHeaderVerticalTextMargin"
	GetARHeaderTextFormat                Method = "getARHeaderTextFormat"
	SetARHeaderTextFormat                Method = "setARHeaderTextFormat"
)

// Bulk configuration.
const (
	ConfigureBarkoder Method = "configureBarkoder"
	GetConfigDocument Method = "getConfigDocument"
)

var allMethods = []Method{
	StartCamera, StartScanning, StopScanning, PauseScanning, FreezeScanning, UnfreezeScanning,
	CaptureImage, ScanImage, SetZoomFactor, GetCurrentZoomFactor, GetMaxZoomFactor, IsFlashAvailable,
	SetFlashEnabled, SetCamera, SetDynamicExposure, SetCentricFocusAndExposure, SetVideoStabilization,
	GetVersion, GetLibVersion, ShowLogMessages, GetLocationLineColorHex, SetLocationLineColor,
	GetLocationLineWidth, SetLocationLineWidth, GetRoiLineColorHex, SetRoiLineColor, GetRoiLineWidth,
	SetRoiLineWidth, GetRoiOverlayBackgroundColorHex, SetRoiOverlayBackgroundColor,
	IsCloseSessionOnResultEnabled, SetCloseSessionOnResultEnabled, IsImageResultEnabled,
	SetImageResultEnabled, IsLocationInImageResultEnabled, SetLocationInImageResultEnabled,
	GetRegionOfInterest, SetRegionOfInterest, IsRegionOfInterestVisible, SetRegionOfInterestVisible,
	IsLocationInPreviewEnabled, SetLocationInPreviewEnabled, IsPinchToZoomEnabled,
	SetPinchToZoomEnabled, GetBarkoderResolution, SetBarkoderResolution, IsBeepOnSuccessEnabled,
	SetBeepOnSuccessEnabled, IsVibrateOnSuccessEnabled, SetVibrateOnSuccessEnabled,
	IsBarcodeThumbnailOnResultEnabled, SetBarcodeThumbnailOnResultEnabled,
	GetThresholdBetweenDuplicatesScans, SetThresholdBetweenDuplicatesScans,
	GetShowDuplicatesLocations, SetShowDuplicatesLocations, GetScanningIndicatorColorHex,
	SetScanningIndicatorColor, GetScanningIndicatorWidth, SetScanningIndicatorWidth,
	GetScanningIndicatorAnimation, SetScanningIndicatorAnimation, IsScanningIndicatorAlwaysVisible,
	SetScanningIndicatorAlwaysVisible, GetThreadsLimit, SetThreadsLimit, GetMulticodeCachingEnabled,
	SetMulticodeCachingEnabled, GetMulticodeCachingDuration, SetMulticodeCachingDuration,
	IsBarcodeTypeEnabled, SetBarcodeTypeEnabled, GetBarcodeTypeLengthRange, SetBarcodeTypeLengthRange,
	GetMsiChecksumType, SetMsiChecksumType, GetCode39ChecksumType, SetCode39ChecksumType,
	GetCode11ChecksumType, SetCode11ChecksumType, GetBarcodeTypeChecksumType,
	SetBarcodeTypeChecksumType, GetEncodingCharacterSet, SetEncodingCharacterSet, GetDecodingSpeed,
	SetDecodingSpeed, GetFormattingType, SetFormattingType, GetMaximumResultsCount,
	SetMaximumResultsCount, IsUpcEanDeblurEnabled, SetUpcEanDeblurEnabled, IsMisshaped1DEnabled,
	SetEnableMisshaped1DEnabled, SetMisshaped1DEnabled, IsVINRestrictionsEnabled,
	SetEnableVINRestrictions, IsDatamatrixDpmModeEnabled, SetDatamatrixDpmModeEnabled,
	IsQrDpmModeEnabled, SetQrDpmModeEnabled, IsQrMicroDpmModeEnabled, SetQrMicroDpmModeEnabled,
	IsIdDocumentMasterChecksumEnabled, SetIdDocumentMasterChecksumEnabled, GetUPCEexpandToUPCA,
	SetUPCEexpandToUPCA, GetUPCE1expandToUPCA, SetUPCE1expandToUPCA, GetEnableComposite,
	SetEnableComposite, SetCustomOption, GetARMode, SetARMode, GetARResultDisappearanceDelayMs,
	SetARResultDisappearanceDelayMs, GetARLocationTransitionSpeed, SetARLocationTransitionSpeed,
	GetAROverlayRefresh, SetAROverlayRefresh, GetARSelectedLocationColor,
	GetARSelectedLocationColorHex, SetARSelectedLocationColor, GetARNonSelectedLocationColor,
	GetARNonSelectedLocationColorHex, SetARNonSelectedLocationColor,
	GetARSelectedLocationLineWidth, SetARSelectedLocationLineWidth, GetARNonSelectedLocationLineWidth,
	SetARNonSelectedLocationLineWidth, GetARLocationType, SetARLocationType,
	IsARDoubleTapToFreezeEnabled, SetARDoubleTapToFreezeEnabled, IsARImageResultEnabled,
	SetARImageResultEnabled, IsARBarcodeThumbnailOnResultEnabled,
	SetARBarcodeThumbnailOnResultEnabled, GetARResultLimit, SetARResultLimit,
	GetARContinueScanningOnLimit, SetARContinueScanningOnLimit, GetAREmitResultsAtSessionEndOnly,
	SetAREmitResultsAtSessionEndOnly, GetARHeaderHeight, SetARHeaderHeight, GetARHeaderShowMode,
	SetARHeaderShowMode, GetARHeaderMaxTextHeight, SetARHeaderMaxTextHeight, GetARHeaderMinTextHeight,
	SetARHeaderMinTextHeight, GetARHeaderTextColorSelected, GetARHeaderTextColorSelectedHex,
	SetARHeaderTextColorSelected, GetARHeaderTextColorNonSelected,
	GetARHeaderTextColorNonSelectedHex, SetARHeaderTextColorNonSelected,
	GetARHeaderHorizontalTextMargin, SetARHeaderHorizontalTextMargin, GetARHeaderVerticalTextMargin,
	SetARHeaderVerticalTextMargin, GetARHeaderTextFormat, SetARHeaderTextFormat, ConfigureBarkoder,
	GetConfigDocument,
}

// Methods returns every command the dispatcher implements, in declaration order.
func Methods() []Method {
	return append([]Method(nil), allMethods...)
}

// Known reports whether name is an implemented command.
func Known(name string) bool {
	_, ok := commands[Method(name)]
	return ok
}
