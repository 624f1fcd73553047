package v4l2dev

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"scancam/internal/common/fsutil"
	"scancam/pkg/types"
)

// Discover lists video capture nodes (video0, video1, ...) in dir, ordered by
// index. The ID is the node name; Path is absolute. Regular files are listed
// too, with CharDevice false.
func Discover(dir string) ([]types.Device, error) {
	abs, err := fsutil.Resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	type node struct {
		idx int
		dev types.Device
	}
	var nodes []node
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		idx, ok := videoIndex(name)
		if !ok {
			continue
		}
		p := filepath.Join(abs, name)
		nodes = append(nodes, node{idx: idx, dev: types.Device{ID: name, Path: p, CharDevice: fsutil.IsCharDevice(p)}})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].idx < nodes[j].idx })
	devices := make([]types.Device, 0, len(nodes))
	for _, n := range nodes {
		devices = append(devices, n.dev)
	}
	return devices, nil
}

func videoIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "video")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
