package support

import (
	"fmt"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/events"
	"github.com/MeKo-Tech/scanbridge/internal/testutil"
	"github.com/MeKo-Tech/scanbridge/internal/utils"
	"github.com/cucumber/godog"
)

// theEngineReportsABarcode makes every scanned frame contain one symbol.
func (testCtx *TestContext) theEngineReportsABarcode(typeName, text string) error {
	for _, t := range barcode.Types() {
		if t.String() == typeName {
			testCtx.Backend.SetResults(barcode.Result{Type: t, Text: text})
			return nil
		}
	}
	return fmt.Errorf("unknown barcode type %q", typeName)
}

// aBridgeWithTheRealDecoder creates a bridge that decodes with gozxing.
func (testCtx *TestContext) aBridgeWithTheRealDecoder() error {
	testCtx.Decoder = barcode.NewBackend()
	return testCtx.StartBridge("integration-test", "")
}

// iScanAQRImageEncoding renders a QR symbol and submits it through scanImage.
func (testCtx *TestContext) iScanAQRImageEncoding(text string) error {
	return testCtx.scanSymbol(testutil.QRSymbol(text))
}

// iScanACode128ImageEncoding renders a Code 128 symbol and submits it.
func (testCtx *TestContext) iScanACode128ImageEncoding(text string) error {
	return testCtx.scanSymbol(testutil.Code128Symbol(text))
}

func (testCtx *TestContext) scanSymbol(s testutil.Symbol) error {
	img, err := testutil.Render(s)
	if err != nil {
		return fmt.Errorf("failed to render symbol: %w", err)
	}
	encoded, err := utils.EncodePNGBase64(img)
	if err != nil {
		return fmt.Errorf("failed to encode symbol: %w", err)
	}
	return testCtx.Dispatch("scanImage", fmt.Sprintf("%q", encoded))
}

// iSubscribeToScanResults attaches the scenario as the event listener.
func (testCtx *TestContext) iSubscribeToScanResults() error {
	if testCtx.Bridge == nil {
		return fmt.Errorf("no bridge created")
	}
	testCtx.Subscription = testCtx.Bridge.Stream().Subscribe(4)
	return nil
}

// iScanTheWhiteTestImage submits the blank frame through scanImage.
func (testCtx *TestContext) iScanTheWhiteTestImage() error {
	encoded, err := utils.EncodePNGBase64(WhiteFrame())
	if err != nil {
		return fmt.Errorf("failed to encode test image: %w", err)
	}
	return testCtx.Dispatch("scanImage", fmt.Sprintf("%q", encoded))
}

// iShouldReceiveAScanResultWithText waits for the next event.
func (testCtx *TestContext) iShouldReceiveAScanResultWithText(text string) error {
	if testCtx.Subscription == nil {
		return fmt.Errorf("not subscribed")
	}
	select {
	case ev, ok := <-testCtx.Subscription.Events():
		if !ok {
			return fmt.Errorf("subscription closed before a result arrived")
		}
		testCtx.LastEvent = &ev
	case <-time.After(ResponseTimeout):
		return fmt.Errorf("no scan result within %s", ResponseTimeout)
	}
	for _, r := range testCtx.LastEvent.Results {
		if r.TextualData == text {
			return nil
		}
	}
	return fmt.Errorf("event has no result with text %q: %+v", text, testCtx.LastEvent.Results)
}

// iShouldReceiveAnEmptyScanResult waits for an event that decoded nothing.
func (testCtx *TestContext) iShouldReceiveAnEmptyScanResult() error {
	if testCtx.Subscription == nil {
		return fmt.Errorf("not subscribed")
	}
	select {
	case ev, ok := <-testCtx.Subscription.Events():
		if !ok {
			return fmt.Errorf("subscription closed before an event arrived")
		}
		testCtx.LastEvent = &ev
	case <-time.After(ResponseTimeout):
		return fmt.Errorf("no event within %s", ResponseTimeout)
	}
	if n := len(testCtx.LastEvent.Results); n != 0 {
		return fmt.Errorf("expected no results, got %d: %+v", n, testCtx.LastEvent.Results)
	}
	return nil
}

// theResultTypeNameShouldBe checks the first result of the last event.
func (testCtx *TestContext) theResultTypeNameShouldBe(name string) error {
	r, err := testCtx.firstResult()
	if err != nil {
		return err
	}
	if r.BarcodeTypeName != name {
		return fmt.Errorf("expected type name %q, got %q", name, r.BarcodeTypeName)
	}
	return nil
}

// theResultBinaryDataShouldBe checks the base64 payload of the first result.
func (testCtx *TestContext) theResultBinaryDataShouldBe(b64 string) error {
	r, err := testCtx.firstResult()
	if err != nil {
		return err
	}
	if r.BinaryDataAsBase64 != b64 {
		return fmt.Errorf("expected binary data %q, got %q", b64, r.BinaryDataAsBase64)
	}
	return nil
}

// theResultCharacterSetShouldBe checks the charset the result was tagged with.
func (testCtx *TestContext) theResultCharacterSetShouldBe(charset string) error {
	r, err := testCtx.firstResult()
	if err != nil {
		return err
	}
	if r.CharacterSet != charset {
		return fmt.Errorf("expected character set %q, got %q", charset, r.CharacterSet)
	}
	return nil
}

// theEventShouldEndTheSession checks the session-ended marker.
func (testCtx *TestContext) theEventShouldEndTheSession() error {
	if testCtx.LastEvent == nil {
		return fmt.Errorf("no event received")
	}
	if !testCtx.LastEvent.SessionEnded {
		return fmt.Errorf("event does not end the session")
	}
	return nil
}

// theEventShouldIncludeAResultImage checks the full-frame image is attached.
func (testCtx *TestContext) theEventShouldIncludeAResultImage() error {
	if testCtx.LastEvent == nil {
		return fmt.Errorf("no event received")
	}
	if testCtx.LastEvent.ResultImage == "" {
		return fmt.Errorf("event carries no result image")
	}
	return nil
}

// theEventShouldNotIncludeAResultImage checks no full-frame image is attached.
func (testCtx *TestContext) theEventShouldNotIncludeAResultImage() error {
	if testCtx.LastEvent == nil {
		return fmt.Errorf("no event received")
	}
	if testCtx.LastEvent.ResultImage != "" {
		return fmt.Errorf("event unexpectedly carries a result image")
	}
	return nil
}

// anotherListenerSubscribes displaces the scenario's subscription.
func (testCtx *TestContext) anotherListenerSubscribes() error {
	if testCtx.Bridge == nil {
		return fmt.Errorf("no bridge created")
	}
	testCtx.Bridge.Stream().Subscribe(1)
	return nil
}

// mySubscriptionShouldBeClosed verifies the listener channel was closed.
func (testCtx *TestContext) mySubscriptionShouldBeClosed() error {
	if testCtx.Subscription == nil {
		return fmt.Errorf("not subscribed")
	}
	deadline := time.After(ResponseTimeout)
	for {
		select {
		case _, ok := <-testCtx.Subscription.Events():
			if !ok {
				return nil
			}
		case <-deadline:
			return fmt.Errorf("subscription still open after %s", ResponseTimeout)
		}
	}
}

// theStreamShouldHaveDeliveredAtLeast checks the delivery counter.
func (testCtx *TestContext) theStreamShouldHaveDeliveredAtLeast(n int) error {
	stats := testCtx.Bridge.Stream().Stats()
	if stats.Delivered < uint64(n) {
		return fmt.Errorf("expected at least %d delivered events, got %+v", n, stats)
	}
	return nil
}

func (testCtx *TestContext) firstResult() (events.Result, error) {
	if testCtx.LastEvent == nil || len(testCtx.LastEvent.Results) == 0 {
		return events.Result{}, fmt.Errorf("no result received")
	}
	return testCtx.LastEvent.Results[0], nil
}

// RegisterEventSteps registers result stream steps.
func (testCtx *TestContext) RegisterEventSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the engine reports a "([^"]*)" barcode "([^"]*)"$`, testCtx.theEngineReportsABarcode)
	sc.Step(`^a bridge with the real decoder$`, testCtx.aBridgeWithTheRealDecoder)
	sc.Step(`^I scan a QR image encoding "([^"]*)"$`, testCtx.iScanAQRImageEncoding)
	sc.Step(`^I scan a Code 128 image encoding "([^"]*)"$`, testCtx.iScanACode128ImageEncoding)
	sc.Step(`^I subscribe to scan results$`, testCtx.iSubscribeToScanResults)
	sc.Step(`^I scan the white test image$`, testCtx.iScanTheWhiteTestImage)
	sc.Step(`^I should receive a scan result with text "([^"]*)"$`, testCtx.iShouldReceiveAScanResultWithText)
	sc.Step(`^I should receive an empty scan result$`, testCtx.iShouldReceiveAnEmptyScanResult)
	sc.Step(`^the result type name should be "([^"]*)"$`, testCtx.theResultTypeNameShouldBe)
	sc.Step(`^the result binary data should be "([^"]*)"$`, testCtx.theResultBinaryDataShouldBe)
	sc.Step(`^the result character set should be "([^"]*)"$`, testCtx.theResultCharacterSetShouldBe)
	sc.Step(`^the event should end the session$`, testCtx.theEventShouldEndTheSession)
	sc.Step(`^the event should include a result image$`, testCtx.theEventShouldIncludeAResultImage)
	sc.Step(`^the event should not include a result image$`, testCtx.theEventShouldNotIncludeAResultImage)
	sc.Step(`^another listener subscribes$`, testCtx.anotherListenerSubscribes)
	sc.Step(`^my subscription should be closed$`, testCtx.mySubscriptionShouldBeClosed)
	sc.Step(`^the stream should have delivered at least (\d+) events?$`, testCtx.theStreamShouldHaveDeliveredAtLeast)
}
