package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// TorchRequest is the body of POST /torch.
type TorchRequest struct {
	// Desired torch state.
	// example: true
	On bool `json:"on" example:"true"`
}

// TorchResponse reports the torch state after a change.
type TorchResponse struct {
	// example: true
	On bool `json:"on" example:"true"`
}

// FramingRequest is the body of POST /framing. The rectangle is clamped to
// the screen and centered.
type FramingRequest struct {
	// example: 600
	Width int `json:"width" example:"600"`
	// example: 400
	Height int `json:"height" example:"400"`
}

// FramingResponse is returned by GET /framing. Both rectangles are omitted
// while the camera is not configured.
type FramingResponse struct {
	// Scan region in screen coordinates.
	Screen *Rect `json:"screen,omitempty"`
	// Scan region in raw frame coordinates.
	Preview *Rect `json:"preview,omitempty"`
}

// ScanResult is the last decoded barcode.
type ScanResult struct {
	// example: https://example.com
	Text string `json:"text" example:"https://example.com"`
	// example: QR_CODE
	Format string `json:"format" example:"QR_CODE"`
	// Frame request tag the result came from.
	// example: 12
	Tag int `json:"tag" example:"12"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Camera lifecycle state: closed, opened, configured or previewing.
	// example: previewing
	State string `json:"state" example:"previewing"`
	// True while a device handle is owned.
	// example: true
	Open bool `json:"open" example:"true"`
	// example: true
	Previewing bool `json:"previewing" example:"true"`
	// example: false
	Torch bool `json:"torch" example:"false"`
	// Outcome of the last parameter application: none, desired, safe or unconfigured.
	// example: desired
	ParamMode string `json:"param_mode" example:"desired"`
	// Identifier of the current open session.
	// example: 7d3f1c2e-9a51-4d7e-8f0b-2a6c1e4b9d10
	SessionID string `json:"session_id,omitempty" example:"7d3f1c2e-9a51-4d7e-8f0b-2a6c1e4b9d10"`
	// True while a one-shot frame request is armed.
	// example: true
	FramePending bool `json:"frame_pending" example:"true"`
	// Scan region in screen coordinates.
	Framing *Rect `json:"framing,omitempty"`
	// Scan region in raw frame coordinates.
	PreviewFraming *Rect `json:"preview_framing,omitempty"`
	// Ambient light controller state: inactive or subscribed.
	// example: subscribed
	Ambient string `json:"ambient,omitempty" example:"subscribed"`
	// Scan loop state: idle, preview, success or done.
	// example: preview
	Scan string `json:"scan,omitempty" example:"preview"`
	// Last decoded barcode, if any.
	LastResult *ScanResult `json:"last_result,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
