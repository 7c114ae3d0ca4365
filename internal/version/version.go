// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Timeline playback, epoch color scheme, SVG export with background raster
// 0.2.0 - Survey footprint overlays, visibility horizon shading, event tracking
// 0.1.0 - Initial release: TUI sky map, Aitoff/Mollweide/Hammer/Mercator, headless modes
