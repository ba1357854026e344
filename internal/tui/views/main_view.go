package views

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"imgview/internal/navigator"
	"imgview/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Texts shown in place of a picture.
const (
	Title           = "Image Viewer"
	NoDirectoryText = "Press o to open a directory"
	NoImagesText    = "No images found in the directory"
	UnableTextFmt   = "Unable to display %s"
)

// ChromeLines is the number of terminal lines the view uses around the
// picture.
const ChromeLines = 4

// ModelReader is what the main view needs from the model.
type ModelReader interface {
	Frame() navigator.Frame
	Root() string
	Status() string
	Prompting() bool
	PromptView() string
	HelpView() string
}

func RenderMainView(m ModelReader) string {
	var sb strings.Builder
	f := m.Frame()

	sb.WriteString(styles.Theme.Title.Render(RenderTitle(f)))
	sb.WriteString("\n")

	switch {
	case f.Empty() && m.Root() == "":
		sb.WriteString(styles.Theme.Muted.Render(NoDirectoryText))
	case f.Empty():
		sb.WriteString(styles.Theme.Muted.Render(NoImagesText))
	case f.Err != nil:
		sb.WriteString(styles.Theme.Error.Render(fmt.Sprintf(UnableTextFmt, filepath.Base(f.Path))))
	default:
		sb.WriteString(RenderPicture(f.Picture.Image))
	}
	sb.WriteString("\n")

	sb.WriteString(renderLocation(m.Root(), f))
	sb.WriteString("\n")

	switch {
	case m.Prompting():
		sb.WriteString(m.PromptView())
	case m.Status() != "":
		sb.WriteString(styles.Theme.Success.Render(m.Status()))
	}
	sb.WriteString("\n")
	sb.WriteString(m.HelpView())

	return styles.Theme.App.Render(sb.String())
}

// RenderTitle mirrors the window title of the desktop viewer.
func RenderTitle(f navigator.Frame) string {
	if f.Empty() {
		return Title
	}
	return Title + " - " + filepath.Base(f.Path)
}

func renderLocation(root string, f navigator.Frame) string {
	if f.Empty() {
		return styles.Theme.Path.Render(root)
	}
	counter := styles.Theme.Counter.Render(fmt.Sprintf("%d / %d", f.Index+1, f.Total))
	return counter + " " + styles.Theme.Path.Render(f.Path)
}

// RenderPicture draws img with one upper half block per pair of pixel rows:
// the foreground colours the top pixel and the background the bottom one.
func RenderPicture(img image.Image) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteString("\n")
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			cell := lipgloss.NewStyle().Foreground(hex(img.At(x, y)))
			if y+1 < b.Max.Y {
				cell = cell.Background(hex(img.At(x, y+1)))
			}
			sb.WriteString(cell.Render("▀"))
		}
	}
	return sb.String()
}

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
