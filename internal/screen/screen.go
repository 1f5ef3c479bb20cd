package screen

import (
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nbenliogludev/go-gui-agent/internal/actions"
)

// geometryRe matches xrandr geometry strings like "1920x1080+1920+0".
var geometryRe = regexp.MustCompile(`(\d+)x(\d+)\+(-?\d+)\+(-?\d+)`)

// Bounds returns the absolute bbox of the selected monitor, with monitors
// ordered left to right as the model perceives them.
func Bounds(selectedScreen int) (actions.Rect, error) {
	out, err := exec.Command("xrandr", "--query").CombinedOutput()
	if err != nil {
		return actions.Rect{}, fmt.Errorf("xrandr failed: %w", err)
	}
	monitors, err := parseXrandrMonitors(string(out))
	if err != nil {
		return actions.Rect{}, err
	}
	if selectedScreen < 0 || selectedScreen >= len(monitors) {
		return actions.Rect{}, fmt.Errorf("invalid screen index %d (found %d monitors)", selectedScreen, len(monitors))
	}
	return monitors[selectedScreen], nil
}

// parseXrandrMonitors extracts connected-monitor rectangles from xrandr
// output, sorted by x position.
func parseXrandrMonitors(output string) ([]actions.Rect, error) {
	var monitors []actions.Rect
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, " connected") {
			continue
		}
		m := geometryRe.FindStringSubmatch(line)
		if m == nil {
			continue // connected but inactive output, no geometry
		}
		width, _ := strconv.Atoi(m[1])
		height, _ := strconv.Atoi(m[2])
		x, _ := strconv.Atoi(m[3])
		y, _ := strconv.Atoi(m[4])
		monitors = append(monitors, actions.Rect{X0: x, Y0: y, X1: x + width, Y1: y + height})
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no connected monitors found in xrandr output")
	}
	sort.Slice(monitors, func(i, j int) bool { return monitors[i].X0 < monitors[j].X0 })
	return monitors, nil
}

// ApplyCrop nests a crop box (relative to the screen origin) inside the
// screen bbox, yielding the absolute viewport of a sub-region presentation.
func ApplyCrop(bbox, crop actions.Rect) actions.Rect {
	return actions.Rect{
		X0: bbox.X0 + crop.X0,
		Y0: bbox.Y0 + crop.Y0,
		X1: bbox.X0 + crop.X1,
		Y1: bbox.Y0 + crop.Y1,
	}
}

// PhoneCrop returns a centered 9:16 strip of the screen, the sub-region used
// by the phone presentation mode. Screens narrower than the strip are
// returned whole.
func PhoneCrop(bbox actions.Rect) actions.Rect {
	width := bbox.Width()
	height := bbox.Height()
	stripWidth := height * 9 / 16
	if stripWidth >= width {
		return actions.Rect{X0: 0, Y0: 0, X1: width, Y1: height}
	}
	left := (width - stripWidth) / 2
	return actions.Rect{X0: left, Y0: 0, X1: left + stripWidth, Y1: height}
}

// Viewport assembles the resolution context for one decode call: the active
// bbox (optionally narrowed to a crop) plus the size of the image the model
// observed. imageWidth/imageHeight of zero means size unknown.
func Viewport(bbox actions.Rect, crop *actions.Rect, imageWidth, imageHeight int) actions.Viewport {
	if crop != nil {
		bbox = ApplyCrop(bbox, *crop)
	}
	return actions.Viewport{BBox: bbox, ImageWidth: imageWidth, ImageHeight: imageHeight}
}
