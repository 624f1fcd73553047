package decode

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scancam/internal/camera"
	"scancam/internal/luminance"
)

// ErrNotFound is returned by a Decoder when the frame holds no barcode.
var ErrNotFound = errors.New("no barcode found")

// Result is a decoded barcode.
type Result struct {
	Text   string
	Format Format
	Points []ResultPoint
	Tag    int
}

// Decoder decodes one luminance source.
type Decoder interface {
	Decode(src *luminance.PlanarYUV, hints Hints) (Result, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(src *luminance.PlanarYUV, hints Hints) (Result, error)

func (fn DecoderFunc) Decode(src *luminance.PlanarYUV, hints Hints) (Result, error) {
	return fn(src, hints)
}

// SourceBuilder crops a raw frame to the scan region. *camera.Manager
// satisfies it.
type SourceBuilder interface {
	BuildLuminanceSource(data []byte, width, height int) (*luminance.PlanarYUV, error)
}

// ResultSink receives the outcome of every decode message.
type ResultSink interface {
	DecodeSucceeded(r Result)
	DecodeFailed()
}

type nopSink struct{}

func (nopSink) DecodeSucceeded(Result) {}
func (nopSink) DecodeFailed()          {}

// Config configures a Worker.
type Config struct {
	// Formats, when non-empty, overrides Preferences.
	Formats      FormatSet
	Preferences  Preferences
	BaseHints    Hints
	CharacterSet string
	ResultPoints ResultPointCallback

	Decoder Decoder
	Source  SourceBuilder
	Sink    ResultSink

	// RotatePortrait turns landscape frames upright before cropping. Set it
	// whenever the Source projects into the portrait-normalized frame, as
	// *camera.Manager does for both screen orientations.
	RotatePortrait bool

	// QueueSize bounds the number of pending messages. Defaults to 4.
	QueueSize int

	Logger *zerolog.Logger
}

// Worker runs a decode loop on its own goroutine. Its Handler becomes
// available once Run has set the loop up.
type Worker struct {
	hints   Hints
	decoder Decoder
	source  SourceBuilder
	sink    ResultSink
	rotate  bool
	queue   int
	log     zerolog.Logger

	runOnce   sync.Once
	readyOnce sync.Once
	ready     chan struct{}
	handler   *Handler
}

// NewWorker computes the effective hints once. Preferences are not read
// again while the worker runs.
func NewWorker(cfg Config) *Worker {
	w := &Worker{
		hints:   buildHints(cfg.BaseHints, cfg.Formats, cfg.Preferences, cfg.CharacterSet, cfg.ResultPoints),
		decoder: cfg.Decoder,
		source:  cfg.Source,
		sink:    cfg.Sink,
		rotate:  cfg.RotatePortrait,
		queue:   cfg.QueueSize,
		log:     zerolog.Nop(),
		ready:   make(chan struct{}),
	}
	if cfg.Logger != nil {
		w.log = cfg.Logger.With().Str("component", "decode").Logger()
	}
	if w.sink == nil {
		w.sink = nopSink{}
	}
	if w.queue <= 0 {
		w.queue = 4
	}
	w.log.Info().Str("hints", w.hints.String()).Msg("decode hints")
	return w
}

// Hints returns the effective decoder hints.
func (w *Worker) Hints() Hints { return w.hints }

// Run builds the handler, publishes it and processes messages until a quit
// message arrives. Only the first call runs the loop.
func (w *Worker) Run() {
	w.runOnce.Do(func() {
		h := &Handler{msgs: make(chan Message, w.queue), done: make(chan struct{})}
		w.handler = h
		w.readyOnce.Do(func() { close(w.ready) })
		w.loop(h)
	})
}

// Handler blocks until Run has published the handler and returns it. Every
// caller gets the same handler. There is no timeout.
func (w *Worker) Handler() *Handler {
	<-w.ready
	return w.handler
}

// Ready is closed once the handler is available.
func (w *Worker) Ready() <-chan struct{} { return w.ready }

func (w *Worker) loop(h *Handler) {
	defer close(h.done)
	for m := range h.msgs {
		switch m.What {
		case MsgDecode:
			w.decode(m.Tag, m.Frame)
		case MsgQuit:
			w.log.Debug().Msg("decode loop quit")
			return
		}
	}
}

func (w *Worker) decode(tag int, f camera.Frame) {
	start := time.Now()
	data, width, height := f.Data, f.Width, f.Height
	if w.rotate && width > height && len(data) >= width*height {
		data = luminance.RotateY90(data, width, height)
		width, height = height, width
	}
	if w.source == nil || w.decoder == nil {
		w.fail("unconfigured", start)
		return
	}
	src, err := w.source.BuildLuminanceSource(data, width, height)
	if err != nil {
		w.log.Warn().Err(err).Int("width", width).Int("height", height).Msg("cannot build luminance source")
	}
	if src == nil {
		w.fail("no_source", start)
		return
	}
	res, err := w.decoder.Decode(src, w.hints)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			w.log.Debug().Err(err).Msg("decode error")
		}
		w.fail("not_found", start)
		return
	}
	res.Tag = tag
	decodesTotal.WithLabelValues("found").Inc()
	decodeSeconds.Observe(time.Since(start).Seconds())
	w.log.Info().Str("format", res.Format.String()).Dur("took", time.Since(start)).Msg("found barcode")
	w.sink.DecodeSucceeded(res)
}

func (w *Worker) fail(reason string, start time.Time) {
	decodesTotal.WithLabelValues(reason).Inc()
	decodeSeconds.Observe(time.Since(start).Seconds())
	w.sink.DecodeFailed()
}
