package decode

import "scancam/internal/camera"

// MessageKind identifies a worker message.
type MessageKind int

const (
	MsgDecode MessageKind = iota + 1
	MsgQuit
)

// Message is posted to the decode loop. Frame data is owned by the loop once
// sent.
type Message struct {
	What  MessageKind
	Tag   int
	Frame camera.Frame
}

// Handler is the input side of a running decode loop. It implements
// camera.FrameHandler so it can be passed to RequestPreviewFrame directly.
type Handler struct {
	msgs chan Message
	done chan struct{}
}

// Send posts m. It blocks while the queue is full and returns false once the
// loop has exited.
func (h *Handler) Send(m Message) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.msgs <- m:
		return true
	case <-h.done:
		return false
	}
}

// HandleFrame posts a decode message for f.
func (h *Handler) HandleFrame(tag int, f camera.Frame) {
	h.Send(Message{What: MsgDecode, Tag: tag, Frame: f})
}

// Quit asks the loop to stop. Messages queued before it are still handled.
func (h *Handler) Quit() { h.Send(Message{What: MsgQuit}) }

// Done is closed when the loop has exited.
func (h *Handler) Done() <-chan struct{} { return h.done }

var _ camera.FrameHandler = (*Handler)(nil)
