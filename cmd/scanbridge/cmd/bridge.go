package cmd

import (
	"fmt"
	"os"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/MeKo-Tech/scanbridge/internal/config"
	"github.com/MeKo-Tech/scanbridge/internal/engine"
	"github.com/MeKo-Tech/scanbridge/internal/global"
)

// newBridge builds the global settings, software engine and bridge described
// by cfg. The caller disposes the bridge and then tears down the settings.
func newBridge(cfg *config.Config, opts bridge.Options) (*bridge.Bridge, *global.Settings, error) {
	g, err := global.Init(cfg.ToGlobalValues())
	if err != nil {
		return nil, nil, fmt.Errorf("initialize global settings: %w", err)
	}

	eo := cfg.ToEngineOptions(g)
	if cfg.Engine.FramesDir != "" {
		eo.Source = engine.NewDirSource(cfg.Engine.FramesDir)
	} else {
		eo.Source = engine.NewStaticSource()
	}
	eng := engine.NewSoftware(eo)

	params := bridge.CreationParams{LicenseKey: cfg.LicenseKey}
	if cfg.Document.Path != "" {
		data, err := os.ReadFile(cfg.Document.Path)
		if err != nil {
			_ = eng.Close()
			g.Teardown()
			return nil, nil, fmt.Errorf("read configuration document: %w", err)
		}
		params.Document = string(data)
	}

	opts.Globals = g
	b, err := bridge.New(eng, params, opts)
	if err != nil {
		_ = eng.Close()
		g.Teardown()
		return nil, nil, fmt.Errorf("create bridge: %w", err)
	}
	return b, g, nil
}
