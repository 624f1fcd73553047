// Package camera owns the imaging sensor. A single Manager serializes every
// hardware call behind one mutex and drives the device through its lifecycle
// (closed, opened, configured, previewing). It is structured into small files
// by concern:
//
//   - manager.go: Manager type, constructor, simple getters and Snapshot.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - types.go: collaborator interfaces (Opener, Device, ConfigProvider, ...).
//   - state.go: lifecycle state machine.
//   - lifecycle.go: OpenDriver/CloseDriver and the parameter fallback chain.
//   - preview.go: preview start/stop, torch, one-shot frame requests.
//   - framing.go: framing rectangles in display and preview coordinates.
//   - parameters.go: flattened camera parameter sets.
//   - configuration.go: default ConfigProvider (preview size, focus, torch).
//   - autofocus.go: periodic auto-focus driver.
//   - errors.go, events.go, metrics.go: error helpers, events, Prometheus.
//
// The device handle never leaves the Manager; collaborators receive it only
// while the Manager's lock is held.
package camera
