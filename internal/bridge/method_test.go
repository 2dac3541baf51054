package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pluginMethods is the command set of the Flutter method channel.
var pluginMethods = []string{
	"captureImage",
	"configureBarkoder",
	"freezeScanning",
	"getARContinueScanningOnLimit",
	"getAREmitResultsAtSessionEndOnly",
	"getARHeaderHeight",
	"getARHeaderHorizontalTextMargin",
	"getARHeaderMaxTextHeight",
	"getARHeaderMinTextHeight",
	"getARHeaderShowMode",
	"getARHeaderTextColorNonSelected",
	"getARHeaderTextColorSelected",
	"getARHeaderTextFormat",
	"getARHeaderVerticalTextMargin",
	"getARLocationTransitionSpeed",
	"getARLocationType",
	"getARMode",
	"getARNonSelectedLocationColor",
	"getARNonSelectedLocationLineWidth",
	"getAROverlayRefresh",
	"getARResultDisappearanceDelayMs",
	"getARResultLimit",
	"getARSelectedLocationColor",
	"getARSelectedLocationLineWidth",
	"getBarcodeTypeLengthRange",
	"getBarkoderResolution",
	"getCurrentZoomFactor",
	"getDecodingSpeed",
	"getEncodingCharacterSet",
	"getFormattingType",
	"getLibVersion",
	"getLocationLineColorHex",
	"getLocationLineWidth",
	"getMaxZoomFactor",
	"getMaximumResultsCount",
	"getMsiChecksumType",
	"getMulticodeCachingDuration",
	"getMulticodeCachingEnabled",
	"getRegionOfInterest",
	"getRoiLineColorHex",
	"getRoiLineWidth",
	"getRoiOverlayBackgroundColorHex",
	"getScanningIndicatorAnimation",
	"getScanningIndicatorColorHex",
	"getScanningIndicatorWidth",
	"getShowDuplicatesLocations",
	"getThreadsLimit",
	"getThresholdBetweenDuplicatesScans",
	"getVersion",
	"isARBarcodeThumbnailOnResultEnabled",
	"isARDoubleTapToFreezeEnabled",
	"isARImageResultEnabled",
	"isBarcodeThumbnailOnResultEnabled",
	"isBarcodeTypeEnabled",
	"isBeepOnSuccessEnabled",
	"isCloseSessionOnResultEnabled",
	"isDatamatrixDpmModeEnabled",
	"isFlashAvailable",
	"isIdDocumentMasterChecksumEnabled",
	"isImageResultEnabled",
	"isLocationInImageResultEnabled",
	"isLocationInPreviewEnabled",
	"isPinchToZoomEnabled",
	"isQrDpmModeEnabled",
	"isQrMicroDpmModeEnabled",
	"isRegionOfInterestVisible",
	"isScanningIndicatorAlwaysVisible",
	"isUpcEanDeblurEnabled",
	"isVINRestrictionsEnabled",
	"isVibrateOnSuccessEnabled",
	"pauseScanning",
	"scanImage",
	"setARBarcodeThumbnailOnResultEnabled",
	"setARContinueScanningOnLimit",
	"setARDoubleTapToFreezeEnabled",
	"setAREmitResultsAtSessionEndOnly",
	"setARHeaderHeight",
	"setARHeaderHorizontalTextMargin",
	"setARHeaderMaxTextHeight",
	"setARHeaderMinTextHeight",
	"setARHeaderShowMode",
	"setARHeaderTextColorNonSelected",
	"setARHeaderTextColorSelected",
	"setARHeaderTextFormat",
	"setARHeaderVerticalTextMargin",
	"setARImageResultEnabled",
	"setARLocationTransitionSpeed",
	"setARLocationType",
	"setARMode",
	"setARNonSelectedLocationColor",
	"setARNonSelectedLocationLineWidth",
	"setAROverlayRefresh",
	"setARResultDisappearanceDelayMs",
	"setARResultLimit",
	"setARSelectedLocationColor",
	"setARSelectedLocationLineWidth",
	"setBarcodeThumbnailOnResultEnabled",
	"setBarcodeTypeEnabled",
	"setBarcodeTypeLengthRange",
	"setBarkoderResolution",
	"setBeepOnSuccessEnabled",
	"setCamera",
	"setCentricFocusAndExposure",
	"setCloseSessionOnResultEnabled",
	"setCustomOption",
	"setDatamatrixDpmModeEnabled",
	"setDecodingSpeed",
	"setDynamicExposure",
	"setEnableComposite",
	"setEnableVINRestrictions",
	"setEncodingCharacterSet",
	"setFlashEnabled",
	"setFormattingType",
	"setIdDocumentMasterChecksumEnabled",
	"setImageResultEnabled",
	"setLocationInImageResultEnabled",
	"setLocationInPreviewEnabled",
	"setLocationLineColor",
	"setLocationLineWidth",
	"setMaximumResultsCount",
	"setMsiChecksumType",
	"setMulticodeCachingDuration",
	"setMulticodeCachingEnabled",
	"setPinchToZoomEnabled",
	"setQrDpmModeEnabled",
	"setQrMicroDpmModeEnabled",
	"setRegionOfInterest",
	"setRegionOfInterestVisible",
	"setRoiLineColor",
	"setRoiLineWidth",
	"setRoiOverlayBackgroundColor",
	"setScanningIndicatorAlwaysVisible",
	"setScanningIndicatorAnimation",
	"setScanningIndicatorColor",
	"setScanningIndicatorWidth",
	"setShowDuplicatesLocations",
	"setThreadsLimit",
	"setThresholdBetweenDuplicatesScans",
	"setUPCEexpandToUPCA",
	"setUpcEanDeblurEnabled",
	"setVibrateOnSuccessEnabled",
	"setVideoStabilization",
	"setZoomFactor",
	"showLogMessages",
	"startCamera",
	"startScanning",
	"stopScanning",
	"unfreezeScanning",
}

func TestPluginMethodsAreKnown(t *testing.T) {
	for _, name := range pluginMethods {
		assert.True(t, Known(name), "%s is not handled", name)
	}
}

func TestARColorGetterAliases(t *testing.T) {
	b := newTestBridge(t, nil)
	_, err := call(t, b, SetARSelectedLocationColor, String("#FF112233"))
	require.NoError(t, err)

	for _, m := range []Method{GetARSelectedLocationColor, GetARSelectedLocationColorHex} {
		resp := dispatch(t, b, string(m), "")
		require.Equal(t, StatusSuccess, resp.Status, "%s", m)
		assert.Equal(t, "#FF112233", resp.Value, "%s", m)
	}

	pairs := map[Method]Method{
		GetARNonSelectedLocationColor:   GetARNonSelectedLocationColorHex,
		GetARHeaderTextColorSelected:    GetARHeaderTextColorSelectedHex,
		GetARHeaderTextColorNonSelected: GetARHeaderTextColorNonSelectedHex,
	}
	for plain, hex := range pairs {
		a, err := call(t, b, plain, NoArgs{})
		require.NoError(t, err, "%s", plain)
		h, err := call(t, b, hex, NoArgs{})
		require.NoError(t, err, "%s", hex)
		assert.Equal(t, a, h, "%s and %s disagree", plain, hex)
	}
}
