package main

import (
	"encoding/json"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scancam/internal/geometry"
	"scancam/pkg/types"
)

func newFramingCmd(opts *options) *cobra.Command {
	var (
		preview string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "framing",
		Short: "Print the scan region for the configured screen and a preview size",
		Example: "  scancam framing --preview 1920x1080\n" +
			"  scancam framing --config scancam.yaml --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			cam, err := parseSize(preview)
			if err != nil {
				return err
			}
			screen := geometry.NewSize(cfg.Screen.Width, cfg.Screen.Height)
			resp := computeFraming(screen, cam, cfg.Camera.FramingFraction, cfg.Camera.ManualFramingWidth, cfg.Camera.ManualFramingHeight)
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(resp)
			}
			fmt.Fprintf(out, "screen   %s\n", screen)
			fmt.Fprintf(out, "preview  %s\n", cam)
			fmt.Fprintf(out, "framing  %s\n", rectString(resp.Screen))
			fmt.Fprintf(out, "in frame %s\n", rectString(resp.Preview))
			return nil
		},
	}
	cmd.Flags().StringVar(&preview, "preview", "1920x1080", "Camera preview size WxH")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// computeFraming mirrors the camera manager's rectangle math without a device.
func computeFraming(screen, cam geometry.Size, fraction float64, manualW, manualH int) types.FramingResponse {
	var r image.Rectangle
	if manualW > 0 && manualH > 0 {
		r = geometry.ClampedRect(screen, manualW, manualH)
	} else {
		r = geometry.FramingRect(screen, fraction)
	}
	p := geometry.ProjectToPreview(r, cam, screen.Portrait())
	return types.FramingResponse{
		Screen:  &types.Rect{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y},
		Preview: &types.Rect{Left: p.Min.X, Top: p.Min.Y, Right: p.Max.X, Bottom: p.Max.Y},
	}
}

func parseSize(v string) (geometry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("invalid size %q, want WxH", v)
	}
	wi, err1 := strconv.Atoi(w)
	hi, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || wi <= 0 || hi <= 0 {
		return geometry.Size{}, fmt.Errorf("invalid size %q, want WxH", v)
	}
	return geometry.NewSize(wi, hi), nil
}

func rectString(r *types.Rect) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("(%d,%d)-(%d,%d) %dx%d", r.Left, r.Top, r.Right, r.Bottom, r.Width(), r.Height())
}
