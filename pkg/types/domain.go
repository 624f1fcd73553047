package types

// Device is a discoverable capture device node.
type Device struct {
	// Node name.
	// example: video0
	ID string `json:"id" example:"video0"`
	// Absolute path to the device node.
	// example: /dev/video0
	Path string `json:"path" example:"/dev/video0"`
	// True when the path is a character device rather than a plain file.
	// example: true
	CharDevice bool `json:"char_device" example:"true"`
}

// Rect is an axis-aligned rectangle; Right and Bottom are exclusive.
type Rect struct {
	// example: 180
	Left int `json:"left" example:"180"`
	// example: 600
	Top int `json:"top" example:"600"`
	// example: 900
	Right int `json:"right" example:"900"`
	// example: 1320
	Bottom int `json:"bottom" example:"1320"`
}

// Width of the rectangle.
func (r Rect) Width() int { return r.Right - r.Left }

// Height of the rectangle.
func (r Rect) Height() int { return r.Bottom - r.Top }
