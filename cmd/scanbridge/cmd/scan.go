package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/MeKo-Tech/scanbridge/internal/events"
	"github.com/MeKo-Tech/scanbridge/internal/utils"
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [files or directories...]",
	Short: "Decode barcodes in still images",
	Long: `Decode barcodes in image files through the same bridge the server uses.

Each image is sent as a scanImage command and the resulting event is printed.
Directories are expanded to the images they contain.

Examples:
  scanbridge scan label.png
  scanbridge scan ./photos --format json
  scanbridge scan label.png --document config.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cmd.Flags().Changed("document") {
			cfg.Document.Path, _ = cmd.Flags().GetString("document")
		}
		if cfg.LicenseKey == "" {
			// Offline decoding does not need a real key.
			cfg.LicenseKey = "offline"
		}
		format, _ := cmd.Flags().GetString("format")
		if format != "text" && format != "json" {
			return fmt.Errorf("invalid format: %s (must be text or json)", format)
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")

		files, err := expandImages(args)
		if err != nil {
			return err
		}

		b, settings, err := newBridge(cfg, bridge.Options{})
		if err != nil {
			return err
		}
		defer settings.Teardown()
		defer b.Dispose()

		sub := b.Stream().Subscribe(1)
		out := cmd.OutOrStdout()
		for _, file := range files {
			ev, err := scanFile(cmd.Context(), b, sub, file, timeout)
			if err != nil {
				slog.Error("Scan failed", "file", file, "error", err)
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", file, err)
				continue
			}
			if err := printEvent(out, format, file, ev); err != nil {
				return err
			}
		}
		return nil
	},
}

func expandImages(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		imgs, err := utils.ListImages(arg)
		if err != nil {
			return nil, fmt.Errorf("list images in %s: %w", arg, err)
		}
		files = append(files, imgs...)
	}
	return files, nil
}

func scanFile(ctx context.Context, b *bridge.Bridge, sub *events.Subscription, file string, timeout time.Duration) (events.Event, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	img, _, err := utils.LoadImage(file)
	if err != nil {
		return events.Event{}, err
	}
	payload, err := utils.EncodePNGBase64(img)
	if err != nil {
		return events.Event{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := b.Call(ctx, bridge.ScanImage, bridge.String(payload)); err != nil {
		return events.Event{}, err
	}
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			return events.Event{}, fmt.Errorf("event stream closed")
		}
		return ev, nil
	case <-ctx.Done():
		return events.Event{}, fmt.Errorf("waiting for result: %w", ctx.Err())
	}
}

func printEvent(w io.Writer, format, file string, ev events.Event) error {
	if format == "json" {
		data, err := json.Marshal(struct {
			File string `json:"file"`
			events.Event
		}{file, ev})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if len(ev.Results) == 0 {
		_, err := fmt.Fprintf(w, "%s: no barcode found\n", file)
		return err
	}
	var sb strings.Builder
	for _, r := range ev.Results {
		fmt.Fprintf(&sb, "%s: [%s] %s\n", file, r.BarcodeTypeName, r.TextualData)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("format", "f", "text", "output format: text or json")
	scanCmd.Flags().String("document", "", "configuration document applied before scanning")
	scanCmd.Flags().Duration("timeout", 10*time.Second, "per-image decode timeout")
}
