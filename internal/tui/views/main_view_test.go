package views

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"imgview/internal/navigator"
	"imgview/internal/render"
	"imgview/pkg/testutils"

	"github.com/stretchr/testify/assert"
)

// Mock model for testing
type mockModel struct {
	frame     navigator.Frame
	root      string
	status    string
	prompting bool
}

func (m *mockModel) Frame() navigator.Frame { return m.frame }
func (m *mockModel) Root() string           { return m.root }
func (m *mockModel) Status() string         { return m.status }
func (m *mockModel) Prompting() bool        { return m.prompting }
func (m *mockModel) PromptView() string     { return "Directory: /pics" }
func (m *mockModel) HelpView() string       { return "← prev • → next" }

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

func TestRenderMainView(t *testing.T) {
	tests := []struct {
		name     string
		model    *mockModel
		contains []string // Strings that should be present in the output
		excludes []string // Strings that should not be present in the output
	}{
		{
			name:     "nothing loaded",
			model:    &mockModel{frame: navigator.Frame{Path: navigator.NoImage}},
			contains: []string{"Image Viewer", NoDirectoryText, "← prev"},
			excludes: []string{NoImagesText, "Image Viewer - "},
		},
		{
			name:     "empty directory",
			model:    &mockModel{frame: navigator.Frame{Path: navigator.NoImage}, root: "/pics"},
			contains: []string{NoImagesText, "/pics"},
			excludes: []string{NoDirectoryText, " / "},
		},
		{
			name: "picture",
			model: &mockModel{
				root: "/pics",
				frame: navigator.Frame{
					Path:    "/pics/b.png",
					Index:   1,
					Total:   3,
					Picture: &render.Picture{Path: "/pics/b.png", Image: solid(4, 4)},
				},
			},
			contains: []string{"Image Viewer - b.png", "2 / 3", "/pics/b.png", "▀▀▀▀"},
			excludes: []string{NoImagesText, "Unable to display"},
		},
		{
			name: "broken picture",
			model: &mockModel{
				root:  "/pics",
				frame: navigator.Frame{Path: "/pics/c.jpg", Index: 2, Total: 3, Err: errors.New("bad data")},
			},
			contains: []string{"Unable to display c.jpg", "3 / 3"},
			excludes: []string{"▀"},
		},
		{
			name: "status and prompt",
			model: &mockModel{
				frame:     navigator.Frame{Path: navigator.NoImage},
				root:      "/pics",
				status:    "Copied: /pics/a.png",
				prompting: true,
			},
			contains: []string{"Directory: /pics"},
			excludes: []string{"Copied:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := testutils.StripANSI(RenderMainView(tt.model))
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestRenderPicture(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		lines int
	}{
		{"even height", 3, 4, 2},
		{"odd height", 3, 5, 3},
		{"single row", 5, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testutils.StripANSI(RenderPicture(solid(tt.w, tt.h)))
			lines := strings.Split(out, "\n")
			assert.Len(t, lines, tt.lines)
			for _, l := range lines {
				assert.Equal(t, strings.Repeat("▀", tt.w), l)
			}
		})
	}

	assert.Empty(t, RenderPicture(nil))
}

func TestRenderTitle(t *testing.T) {
	assert.Equal(t, "Image Viewer", RenderTitle(navigator.Frame{Path: navigator.NoImage}))
	assert.Equal(t, "Image Viewer - a.png", RenderTitle(navigator.Frame{Path: "/x/a.png", Total: 1}))
}
