// Package navigator holds the image set of the loaded directory and the
// cursor into it. It is driven by a single UI thread and needs no locking.
package navigator

import (
	"imgview/internal/log"
	"imgview/internal/render"
	"imgview/internal/scan"
)

// NoImage is reported as the current path when the image set is empty.
const NoImage = "none"

// Frame is what a display is asked to show.
type Frame struct {
	Path    string
	Index   int // zero based, meaningless when Total is 0
	Total   int
	Picture *render.Picture
	Err     error // set when the image could not be decoded
}

// Empty reports whether the frame is the "no images found" state.
func (f Frame) Empty() bool {
	return f.Total == 0
}

// Display renders frames. It owns the picture it is given until the next
// call replaces it.
type Display interface {
	Show(Frame)
}

// Picker asks the user for a directory. done receives "" on cancel.
type Picker interface {
	PickDirectory(done func(path string))
}

// Clipboard stores text system wide.
type Clipboard interface {
	SetContent(content string)
}

// Controller owns the image set and cursor.
type Controller struct {
	root   string
	images []string
	pos    int
	bounds render.Bounds

	display   Display
	picker    Picker
	clipboard Clipboard

	scanDir func(string) ([]string, error)
	load    func(string, render.Bounds) (*render.Picture, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithPicker sets the directory picker used by ActionOpen.
func WithPicker(p Picker) Option {
	return func(c *Controller) { c.picker = p }
}

// WithClipboard sets the clipboard used by ActionCopyPath.
func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) { c.clipboard = cb }
}

// WithBounds sets the display bound pictures are fitted into.
func WithBounds(b render.Bounds) Option {
	return func(c *Controller) { c.bounds = b }
}

// New creates a controller with an empty image set.
func New(display Display, opts ...Option) *Controller {
	c := &Controller{
		images:  []string{},
		bounds:  render.DefaultBounds,
		display: display,
		scanDir: scan.Directory,
		load:    render.Load,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadDirectory replaces the image set with the images found beneath path
// and moves the cursor to the first one. A missing or unreadable directory
// simply yields an empty set.
func (c *Controller) LoadDirectory(path string) {
	c.images, c.pos = []string{}, 0

	images, err := c.scanDir(path)
	if err != nil {
		log.LogWithError(err).Warn("Directory scan failed, showing empty set")
	}
	c.root = path
	c.images = images
	if c.images == nil {
		c.images = []string{}
	}

	log.LogWithFields(log.F("root", path), log.F("images", len(c.images))).Info("Loaded directory")
	c.Render()
}

// Rescan reloads the current root. The cursor stays on the same file when it
// is still present, otherwise it is clamped to the new set.
func (c *Controller) Rescan() {
	if c.root == "" {
		return
	}
	current := c.CurrentPath()
	oldPos := c.pos

	images, err := c.scanDir(c.root)
	if err != nil {
		log.LogWithError(err).Warn("Rescan failed")
	}
	if images == nil {
		images = []string{}
	}
	c.images, c.pos = images, 0

	found := false
	for i, p := range c.images {
		if p == current {
			c.pos, found = i, true
			break
		}
	}
	if !found && len(c.images) > 0 {
		c.pos = min(oldPos, len(c.images)-1)
	}

	log.LogWithFields(log.F("root", c.root), log.F("images", len(c.images))).Debug("Rescanned directory")
	c.Render()
}

// Next advances the cursor. At the last image it does nothing.
func (c *Controller) Next() bool {
	if c.pos+1 >= len(c.images) {
		return false
	}
	c.pos++
	c.Render()
	return true
}

// Previous moves the cursor back. At the first image it does nothing.
func (c *Controller) Previous() bool {
	if c.pos <= 0 {
		return false
	}
	c.pos--
	c.Render()
	return true
}

// CurrentPath returns the path under the cursor or NoImage.
func (c *Controller) CurrentPath() string {
	if len(c.images) == 0 {
		return NoImage
	}
	return c.images[c.pos]
}

// Position returns the cursor index.
func (c *Controller) Position() int { return c.pos }

// Len returns the size of the image set.
func (c *Controller) Len() int { return len(c.images) }

// Root returns the last directory loaded.
func (c *Controller) Root() string { return c.root }

// Images returns a copy of the image set.
func (c *Controller) Images() []string {
	out := make([]string, len(c.images))
	copy(out, c.images)
	return out
}

// Bounds returns the current display bound.
func (c *Controller) Bounds() render.Bounds { return c.bounds }

// SetBounds changes the display bound and redraws the current image.
func (c *Controller) SetBounds(b render.Bounds) {
	if b == c.bounds {
		return
	}
	c.bounds = b
	if len(c.images) > 0 {
		c.Render()
	}
}

// Render asks the display to show the image under the cursor. Decode
// failures are handed to the display as a frame error so navigation can
// carry on past a broken file.
func (c *Controller) Render() {
	if c.display == nil {
		return
	}
	if len(c.images) == 0 {
		c.display.Show(Frame{Path: NoImage})
		return
	}

	frame := Frame{Path: c.images[c.pos], Index: c.pos, Total: len(c.images)}
	pic, err := c.load(frame.Path, c.bounds)
	if err != nil {
		log.LogWithError(err).Warn("Unable to display image")
		frame.Err = err
	} else {
		frame.Picture = pic
	}
	c.display.Show(frame)
}

// CopyPath puts the current path on the clipboard. Nothing is copied when
// the set is empty or no clipboard is attached.
func (c *Controller) CopyPath() bool {
	if c.clipboard == nil || len(c.images) == 0 {
		return false
	}
	c.clipboard.SetContent(c.CurrentPath())
	log.LogWithFields(log.F("path", c.CurrentPath())).Debug("Copied path to clipboard")
	return true
}

// Open asks the picker for a directory and loads it. A cancelled pick
// leaves the current set untouched.
func (c *Controller) Open() bool {
	if c.picker == nil {
		return false
	}
	c.picker.PickDirectory(func(path string) {
		if path == "" {
			return
		}
		c.LoadDirectory(path)
	})
	return true
}
