// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Scheduled headless readings, distribution report, msgpack export
// 0.2.0 - Shooting stars, drifting planets, theme cycling, moon phase and sun sign
// 0.1.0 - Initial release: constellation sky, tarot market readings, headless modes
