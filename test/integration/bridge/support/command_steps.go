package support

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/cucumber/godog"
)

// aBridgeWithLicenseKey creates the bridge under test.
func (testCtx *TestContext) aBridgeWithLicenseKey(key string) error {
	return testCtx.StartBridge(key, "")
}

// aBridge creates the bridge under test with a placeholder license key.
func (testCtx *TestContext) aBridge() error {
	return testCtx.StartBridge("integration-test", "")
}

// creatingABridgeWithLicenseKeyFails verifies bridge creation is rejected.
func (testCtx *TestContext) creatingABridgeWithLicenseKeyFails(key string) error {
	err := testCtx.StartBridge(key, "")
	if err == nil {
		return fmt.Errorf("expected bridge creation with key %q to fail", key)
	}
	return nil
}

// iDispatchWithArguments sends a command with a raw JSON argument.
func (testCtx *TestContext) iDispatchWithArguments(method, args string) error {
	return testCtx.Dispatch(method, args)
}

// iDispatchWithDocString sends a command whose argument spans several lines.
func (testCtx *TestContext) iDispatchWithDocString(method string, doc *godog.DocString) error {
	return testCtx.Dispatch(method, doc.Content)
}

// iDispatch sends a command without an argument.
func (testCtx *TestContext) iDispatch(method string) error {
	return testCtx.Dispatch(method, "")
}

// theBridgeIsDisposed disposes the bridge.
func (testCtx *TestContext) theBridgeIsDisposed() error {
	if testCtx.Bridge == nil {
		return fmt.Errorf("no bridge created")
	}
	testCtx.Bridge.Dispose()
	return nil
}

// theResponseStatusShouldBe verifies the outcome class of the last answer.
func (testCtx *TestContext) theResponseStatusShouldBe(status string) error {
	if got := testCtx.LastResponse.Status.String(); got != status {
		return fmt.Errorf("%s: expected status %q, got %q (%s)", testCtx.LastMethod, status, got, testCtx.describeLast())
	}
	return nil
}

// theResponseValueShouldBe compares the last answer's value as JSON.
func (testCtx *TestContext) theResponseValueShouldBe(expected string) error {
	if err := testCtx.theResponseStatusShouldBe("success"); err != nil {
		return err
	}
	return jsonEqual(expected, testCtx.LastResponse.Value)
}

// theFailureCodeShouldBe verifies the wire name of the last failure.
func (testCtx *TestContext) theFailureCodeShouldBe(name string) error {
	f := testCtx.LastResponse.Err
	if f == nil {
		return fmt.Errorf("%s: expected failure %s, got %s", testCtx.LastMethod, name, testCtx.describeLast())
	}
	if got := f.Code.Name(); got != name {
		return fmt.Errorf("%s: expected failure %s, got %s (%s)", testCtx.LastMethod, name, got, f.Message)
	}
	return nil
}

// theFailureKindShouldBe verifies the taxonomy class of the last failure.
func (testCtx *TestContext) theFailureKindShouldBe(kind string) error {
	f := testCtx.LastResponse.Err
	if f == nil {
		return fmt.Errorf("%s: expected a failure, got %s", testCtx.LastMethod, testCtx.describeLast())
	}
	if got := f.Kind().String(); got != kind {
		return fmt.Errorf("%s: expected kind %q, got %q", testCtx.LastMethod, kind, got)
	}
	return nil
}

// theFailureMessageShouldContain verifies the last failure's message.
func (testCtx *TestContext) theFailureMessageShouldContain(text string) error {
	f := testCtx.LastResponse.Err
	if f == nil {
		return fmt.Errorf("%s: expected a failure, got %s", testCtx.LastMethod, testCtx.describeLast())
	}
	if !strings.Contains(f.Message, text) {
		return fmt.Errorf("failure message %q does not contain %q", f.Message, text)
	}
	return nil
}

// everyListedCommandShouldFailWith dispatches each row's method and checks
// the failure code.
func (testCtx *TestContext) everyListedCommandShouldFailWith(name string, table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 || len(row.Cells) == 0 {
			continue
		}
		if err := testCtx.Dispatch(row.Cells[0].Value, ""); err != nil {
			return err
		}
		if err := testCtx.theFailureCodeShouldBe(name); err != nil {
			return err
		}
	}
	return nil
}

// theCommandTableShouldBeAnswered dispatches every row and checks the
// expected status and, for failures, the code.
func (testCtx *TestContext) theCommandTableShouldBeAnswered(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("table needs a header and at least one row")
	}
	for _, row := range table.Rows[1:] {
		if len(row.Cells) < 3 {
			return fmt.Errorf("row needs method, arguments and outcome")
		}
		method, args, outcome := row.Cells[0].Value, row.Cells[1].Value, row.Cells[2].Value
		if err := testCtx.Dispatch(method, args); err != nil {
			return err
		}
		switch outcome {
		case "success", "notImplemented":
			if err := testCtx.theResponseStatusShouldBe(outcome); err != nil {
				return err
			}
		default:
			if err := testCtx.theFailureCodeShouldBe(outcome); err != nil {
				return err
			}
		}
	}
	return nil
}

// theMethodsListShouldContain verifies a command is advertised.
func (testCtx *TestContext) theMethodsListShouldContain(method string) error {
	for _, m := range bridge.Methods() {
		if string(m) == method {
			return nil
		}
	}
	return fmt.Errorf("method %q is not listed", method)
}

// theMethodsListShouldNotContain verifies a command is not advertised.
func (testCtx *TestContext) theMethodsListShouldNotContain(method string) error {
	if bridge.Known(method) {
		return fmt.Errorf("method %q is unexpectedly known", method)
	}
	return nil
}

func (testCtx *TestContext) describeLast() string {
	r := testCtx.LastResponse
	switch r.Status {
	case bridge.StatusError:
		if r.Err != nil {
			return fmt.Sprintf("error %s: %s", r.Err.Code.Name(), r.Err.Message)
		}
		return "error without failure"
	case bridge.StatusSuccess:
		return fmt.Sprintf("success %v", r.Value)
	}
	return r.Status.String()
}

// jsonEqual compares expected JSON text with a value after round-tripping
// it through JSON, so Go numeric and slice types do not matter.
func jsonEqual(expected string, actual any) error {
	var want any
	if err := json.Unmarshal([]byte(expected), &want); err != nil {
		return fmt.Errorf("expected value %q is not JSON: %w", expected, err)
	}
	raw, err := json.Marshal(actual)
	if err != nil {
		return fmt.Errorf("failed to encode actual value: %w", err)
	}
	var got any
	if err := json.Unmarshal(raw, &got); err != nil {
		return fmt.Errorf("failed to decode actual value: %w", err)
	}
	if !reflect.DeepEqual(want, got) {
		return fmt.Errorf("expected value %s, got %s", expected, raw)
	}
	return nil
}

// RegisterCommandSteps registers bridge lifecycle and dispatch steps.
func (testCtx *TestContext) RegisterCommandSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a bridge$`, testCtx.aBridge)
	sc.Step(`^a bridge with license key "([^"]*)"$`, testCtx.aBridgeWithLicenseKey)
	sc.Step(`^creating a bridge with license key "([^"]*)" should fail$`, testCtx.creatingABridgeWithLicenseKeyFails)
	sc.Step(`^the bridge is disposed$`, testCtx.theBridgeIsDisposed)

	sc.Step(`^I dispatch "([^"]*)" with '([^']*)'$`, testCtx.iDispatchWithArguments)
	sc.Step(`^I dispatch "([^"]*)" with:$`, testCtx.iDispatchWithDocString)
	sc.Step(`^I dispatch "([^"]*)"$`, testCtx.iDispatch)

	sc.Step(`^the response status should be "([^"]*)"$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response value should be '([^']*)'$`, testCtx.theResponseValueShouldBe)
	sc.Step(`^the failure code should be "([^"]*)"$`, testCtx.theFailureCodeShouldBe)
	sc.Step(`^the failure kind should be "([^"]*)"$`, testCtx.theFailureKindShouldBe)
	sc.Step(`^the failure message should contain "([^"]*)"$`, testCtx.theFailureMessageShouldContain)
	sc.Step(`^every listed command should fail with "([^"]*)":$`, testCtx.everyListedCommandShouldFailWith)
	sc.Step(`^the commands should be answered as follows:$`, testCtx.theCommandTableShouldBeAnswered)

	sc.Step(`^the methods list should contain "([^"]*)"$`, testCtx.theMethodsListShouldContain)
	sc.Step(`^the methods list should not contain "([^"]*)"$`, testCtx.theMethodsListShouldNotContain)
}
