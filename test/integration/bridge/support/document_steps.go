package support

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/docwatch"
	"github.com/cucumber/godog"
)

// aConfigurationDocumentContaining writes the document file for the scenario.
func (testCtx *TestContext) aConfigurationDocumentContaining(doc *godog.DocString) error {
	testCtx.DocumentPath = filepath.Join(testCtx.TempDir, "barkoder.json")
	if err := os.WriteFile(testCtx.DocumentPath, []byte(doc.Content), 0o600); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// aBridgeCreatedWithTheDocument applies the document at creation time.
func (testCtx *TestContext) aBridgeCreatedWithTheDocument() error {
	data, err := testCtx.readDocument()
	if err != nil {
		return err
	}
	return testCtx.StartBridge("integration-test", string(data))
}

// creatingABridgeWithTheDocumentShouldFail verifies a bad initial document
// rejects creation.
func (testCtx *TestContext) creatingABridgeWithTheDocumentShouldFail() error {
	data, err := testCtx.readDocument()
	if err != nil {
		return err
	}
	if err := testCtx.StartBridge("integration-test", string(data)); err == nil {
		return errors.New("expected bridge creation to fail")
	}
	return nil
}

// theDocumentWatcherIsRunning starts watching the document file.
func (testCtx *TestContext) theDocumentWatcherIsRunning() error {
	if testCtx.Bridge == nil {
		return errors.New("no bridge created")
	}
	if testCtx.DocumentPath == "" {
		return errors.New("no document written")
	}
	applied := make(chan error, 8)
	w, err := docwatch.New(testCtx.DocumentPath, testCtx.Bridge,
		docwatch.WithDebounce(50*time.Millisecond),
		docwatch.WithApplyHook(func(err error) {
			select {
			case applied <- err:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to start document watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	testCtx.cancelWatch, testCtx.watchDone, testCtx.watchApplied = cancel, done, applied
	return nil
}

// iRewriteTheConfigurationDocumentWith replaces the file contents.
func (testCtx *TestContext) iRewriteTheConfigurationDocumentWith(doc *godog.DocString) error {
	if testCtx.DocumentPath == "" {
		return errors.New("no document written")
	}
	if err := os.WriteFile(testCtx.DocumentPath, []byte(doc.Content), 0o600); err != nil {
		return fmt.Errorf("failed to rewrite document: %w", err)
	}
	return nil
}

// theWatcherShouldApplyTheDocument waits until an apply succeeds.
func (testCtx *TestContext) theWatcherShouldApplyTheDocument() error {
	return testCtx.waitForApply(true)
}

// theWatcherShouldRejectTheDocument waits until an apply fails.
func (testCtx *TestContext) theWatcherShouldRejectTheDocument() error {
	return testCtx.waitForApply(false)
}

func (testCtx *TestContext) waitForApply(wantOK bool) error {
	if testCtx.watchApplied == nil {
		return errors.New("document watcher not running")
	}
	deadline := time.After(ResponseTimeout)
	for {
		select {
		case err := <-testCtx.watchApplied:
			if (err == nil) == wantOK {
				return nil
			}
		case <-deadline:
			return fmt.Errorf("watcher did not report the expected outcome within %s", ResponseTimeout)
		}
	}
}

func (testCtx *TestContext) readDocument() ([]byte, error) {
	if testCtx.DocumentPath == "" {
		return nil, errors.New("no document written")
	}
	data, err := os.ReadFile(testCtx.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

// RegisterDocumentSteps registers bulk configuration document steps.
func (testCtx *TestContext) RegisterDocumentSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a configuration document containing:$`, testCtx.aConfigurationDocumentContaining)
	sc.Step(`^a bridge created with the document$`, testCtx.aBridgeCreatedWithTheDocument)
	sc.Step(`^creating a bridge with the document should fail$`, testCtx.creatingABridgeWithTheDocumentShouldFail)
	sc.Step(`^the document watcher is running$`, testCtx.theDocumentWatcherIsRunning)
	sc.Step(`^I rewrite the configuration document with:$`, testCtx.iRewriteTheConfigurationDocumentWith)
	sc.Step(`^the watcher should apply the document$`, testCtx.theWatcherShouldApplyTheDocument)
	sc.Step(`^the watcher should reject the document$`, testCtx.theWatcherShouldRejectTheDocument)
}
