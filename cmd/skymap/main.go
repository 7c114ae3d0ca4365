// Command skymap is a terminal viewer for DSA-110 continuum imaging sky
// coverage: an interactive all-sky map of pipeline pointings with overlay
// curves, timeline playback and headless export modes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"golang.org/x/term"

	"github.com/dsa110/dsa110-contimg-sub002/internal/config"
	"github.com/dsa110/dsa110-contimg-sub002/internal/logging"
	"github.com/dsa110/dsa110-contimg-sub002/internal/overlay"
	"github.com/dsa110/dsa110-contimg-sub002/internal/pointing"
	"github.com/dsa110/dsa110-contimg-sub002/internal/projection"
	"github.com/dsa110/dsa110-contimg-sub002/internal/render"
	"github.com/dsa110/dsa110-contimg-sub002/internal/state"
	"github.com/dsa110/dsa110-contimg-sub002/internal/ui"
)

// CLI flags for headless mode
var (
	tableMode     bool
	watchInterval time.Duration
	csvPath       string
	svgPath       string
	jsonPath      string
	inputPath     string
	projName      string
	schemeName    string
	svgWidth      int
	svgHeight     int
)

const (
	minRefresh = 5 * time.Second
	maxRefresh = 10 * time.Minute
)

func main() {
	refresh := flag.Duration("refresh", 0, "Data refresh interval (e.g., 30s, 2m); 0 uses the config value")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	apiURL := flag.String("api", "", "Pipeline API base URL (overrides config)")
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.StringVar(&inputPath, "input", "", "Read pointings from a local JSON file instead of the API")
	flag.BoolVar(&tableMode, "table", false, "Print a pointing summary table instead of the TUI")
	flag.StringVar(&csvPath, "export-csv", "", "Export pointings as CSV to file (use - for stdout)")
	flag.StringVar(&svgPath, "export-svg", "", "Export the sky map as SVG to file (use - for stdout)")
	flag.StringVar(&jsonPath, "export-json", "", "Export a JSON snapshot to file (use - for stdout)")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 30s)")
	flag.StringVar(&projName, "projection", "", "Projection for SVG export (aitoff, mollweide, hammer, mercator)")
	flag.StringVar(&schemeName, "scheme", "", "Color scheme for SVG export (status, epoch, uniform)")
	flag.IntVar(&svgWidth, "svg-width", 1200, "SVG export width in pixels")
	flag.IntVar(&svgHeight, "svg-height", 600, "SVG export height in pixels")
	flag.Parse()

	logger := logging.New(logging.ParseLevel(*logLevel))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if projName != "" {
		cfg.Map.Projection = projName
	}
	if schemeName != "" {
		cfg.Map.ColorScheme = schemeName
	}

	interval := cfg.API.RefreshInterval()
	if *refresh > 0 {
		interval = *refresh
	}
	if interval < minRefresh {
		interval = minRefresh
	} else if interval > maxRefresh {
		interval = maxRefresh
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = interval
	stateMgr := state.NewManager(stateCfg)

	fetcher := pointing.NewFetcher(
		pointing.WithBaseURL(cfg.API.BaseURL),
		pointing.WithTimeout(cfg.API.Timeout()),
	)

	headless := tableMode || csvPath != "" || svgPath != "" || jsonPath != ""
	if !headless && !term.IsTerminal(int(os.Stdout.Fd())) {
		// No TTY: degrade to the summary table rather than a broken TUI.
		tableMode = true
		headless = true
	}

	if headless {
		runHeadless(ctx, fetcher, stateMgr, cfg, logger)
		return
	}

	player := render.NewPlayer(clockwork.NewRealClock(), nil)
	if cfg.Playback.Speed > 0 {
		player.SetSpeed(cfg.Playback.Speed)
	}

	model := ui.New(stateMgr, cfg, player)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Playback timer: epoch advances redraw via program messages.
	go player.Run(ctx, func(st render.PlaybackStatus) {
		p.Send(ui.PlaybackMsg{Status: st})
	})

	// Background raster: fire-and-forget, the map stays rasterless on
	// failure.
	if cfg.Map.BackgroundURL != "" {
		loader := render.NewBackgroundLoader(cfg.Map.BackgroundURL, nil)
		loader.LoadAsync(ctx,
			func(r *render.Raster) { p.Send(ui.BackgroundMsg{Raster: r}) },
			func(err error) {
				logger.Warn("background raster unavailable: %v", err)
				p.Send(ui.BackgroundMsg{})
			})
	}

	go runFetchLoop(ctx, fetcher, stateMgr, p, logger)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runFetchLoop(ctx context.Context, fetcher *pointing.Fetcher, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	doFetch(ctx, fetcher, stateMgr, p, logger)

	ticker := time.NewTicker(stateMgr.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Fetch loop shutting down")
			return
		case <-ticker.C:
			doFetch(ctx, fetcher, stateMgr, p, logger)
		}
	}
}

func doFetch(ctx context.Context, fetcher *pointing.Fetcher, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	logger.Debug("Fetching pointings from %s...", fetcher.BaseURL())

	result := fetch(ctx, fetcher)
	stateMgr.Update(result)

	if result.Error != nil {
		logger.Error("Fetch failed: %v", result.Error)
		p.Send(ui.ErrorMsg{Error: result.Error})
		return
	}

	logger.Debug("Fetch complete: %d pointings (%d dropped) in %v",
		len(result.Pointings), result.Dropped, result.Duration)
	p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
}

// fetch loads pointings from the API, or from the -input file when set.
func fetch(ctx context.Context, fetcher *pointing.Fetcher) pointing.FetchResult {
	if inputPath == "" {
		return fetcher.Fetch(ctx)
	}

	start := time.Now()
	result := pointing.FetchResult{FetchedAt: start}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		result.Error = fmt.Errorf("read input file: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	pts, dropped, err := pointing.Parse(raw)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = fmt.Errorf("parse input file: %w", err)
		return result
	}
	result.Pointings = pts
	result.Dropped = dropped
	return result
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, fetcher *pointing.Fetcher, stateMgr *state.Manager, cfg config.Config, logger *logging.Logger) {
	outputOnce := func() error {
		result := fetch(ctx, fetcher)
		if result.Error != nil {
			return result.Error
		}
		stateMgr.Update(result)
		snap := stateMgr.Snapshot()

		if csvPath != "" {
			if err := writeTo(csvPath, func(f *os.File) error {
				return pointing.WriteCSV(f, snap.Pointings)
			}); err != nil {
				return fmt.Errorf("export CSV: %w", err)
			}
		}

		if jsonPath != "" {
			export := pointing.ExportSnapshot(snap.Pointings, snap.LastFetch)
			if err := writeTo(jsonPath, func(f *os.File) error {
				return export.WriteJSON(f)
			}); err != nil {
				return fmt.Errorf("export JSON: %w", err)
			}
		}

		if svgPath != "" {
			if err := writeTo(svgPath, func(f *os.File) error {
				writeSceneSVG(ctx, f, snap.Pointings, cfg, logger)
				return nil
			}); err != nil {
				return fmt.Errorf("export SVG: %w", err)
			}
		}

		if tableMode {
			pointing.WriteSummaryTable(os.Stdout, snap.Pointings, snap.LastFetch)
		}

		return nil
	}

	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: repeat at interval.
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if tableMode {
				fmt.Println()
			}
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// writeSceneSVG renders the full scene, including overlays and the
// background raster when one is reachable, into an SVG document.
func writeSceneSVG(ctx context.Context, f *os.File, pts []pointing.Pointing, cfg config.Config, logger *logging.Logger) {
	var background *render.Raster
	if cfg.Map.BackgroundURL != "" {
		loader := render.NewBackgroundLoader(cfg.Map.BackgroundURL, nil)
		r, err := loader.Load(ctx)
		if err != nil {
			logger.Warn("background raster unavailable: %v", err)
		} else {
			background = r
		}
	}

	proj := projection.New(projection.ParseKind(cfg.Map.Projection), svgWidth, svgHeight)
	scene := render.BuildScene(proj, render.Params{
		Pointings: pts,
		Overlays:  render.Overlays{
			Graticule:       cfg.Overlays.Graticule,
			GalacticPlane:   cfg.Overlays.GalacticPlane,
			Ecliptic:        cfg.Overlays.Ecliptic,
			Horizon:         cfg.Overlays.Horizon,
			HorizonDecLimit: cfg.Overlays.HorizonDecLimitDeg,
			Footprints:      footprintsIfEnabled(cfg),
		},
		Scheme:           render.ParseScheme(cfg.Map.ColorScheme),
		ShowLabels:       false,
		DefaultRadiusDeg: cfg.Map.DefaultRadiusDeg,
		Palette:          cfg.Map.EpochPalette,
		Background:       background,
	})
	render.WriteSVG(f, scene)
}

func footprintsIfEnabled(cfg config.Config) []overlay.Footprint {
	if !cfg.Overlays.Surveys {
		return nil
	}
	return cfg.SurveyFootprints()
}

// writeTo opens path for writing ("-" means stdout) and runs the writer.
func writeTo(path string, write func(*os.File) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
