//go:build !nogui
// +build !nogui

package gui

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"time"

	"imgview/internal/config"
	"imgview/internal/log"
	"imgview/internal/navigator"
	"imgview/internal/render"
	"imgview/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const appID = "io.github.imgview"

// Messages shown in place of an image.
const (
	noImagesText   = "No images found in the directory"
	noDirText      = "Open a directory to start browsing"
	unableTextFmt  = "Unable to display %s"
	positionFmt    = "%d / %d"
	titleSeparator = " - "
)

// keys maps fyne key names to navigation actions.
var keys = navigator.Keymap{
	string(fyne.KeyLeft):   navigator.ActionPrevious,
	string(fyne.KeyRight):  navigator.ActionNext,
	string(fyne.KeyO):      navigator.ActionOpen,
	string(fyne.KeyC):      navigator.ActionCopyPath,
	string(fyne.KeyEscape): navigator.ActionQuit,
}

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	controller *navigator.Controller

	openButton *widget.Button
	prevButton *widget.Button
	nextButton *widget.Button
	copyButton *widget.Button
	pathLabel  *widget.Label
	posLabel   *widget.Label
	message    *widget.Label

	// picture holds the bitmap on screen at its own pixel size; the next
	// frame replaces it.
	picture  *canvas.Image
	imageBox *fyne.Container

	watcher     *watch.Watcher
	watchedRoot string
}

// NewApp creates the GUI application on a fresh fyne app.
func NewApp(cfg *config.Config) *App {
	return newApp(app.NewWithID(appID), cfg)
}

// newApp builds the window on fyneApp. Extra controller options are applied
// after the defaults so tests can replace the picker.
func newApp(fyneApp fyne.App, cfg *config.Config, opts ...navigator.Option) *App {
	if cfg == nil {
		cfg = config.New()
	}
	a := &App{
		fyneApp: fyneApp,
		cfg:     cfg,
	}

	a.mainWindow = fyneApp.NewWindow(cfg.Window.Title)
	defaults := []navigator.Option{
		navigator.WithBounds(boundsOf(cfg)),
		navigator.WithPicker(a),
		navigator.WithClipboard(a.mainWindow.Clipboard()),
	}
	a.controller = navigator.New(a, append(defaults, opts...)...)

	a.setupMainWindow()
	return a
}

func boundsOf(cfg *config.Config) render.Bounds {
	return render.Bounds{Width: cfg.Display.MaxWidth, Height: cfg.Display.MaxHeight}
}

// Controller exposes the navigation controller driving this window.
func (a *App) Controller() *navigator.Controller {
	return a.controller
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Run loads initialDir when it is set, shows the window and blocks in the
// fyne event loop until the window closes.
func (a *App) Run(initialDir string) {
	if initialDir != "" {
		a.controller.LoadDirectory(initialDir)
	}
	a.mainWindow.ShowAndRun()
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(float32(a.cfg.Window.Width), float32(a.cfg.Window.Height)))
	a.mainWindow.SetFixedSize(true)

	a.openButton = widget.NewButtonWithIcon("Open Directory", theme.FolderOpenIcon(), func() {
		a.controller.Dispatch(navigator.ActionOpen)
	})
	a.prevButton = widget.NewButton("<<Prev", func() {
		a.controller.Dispatch(navigator.ActionPrevious)
	})
	a.nextButton = widget.NewButton("Next>>", func() {
		a.controller.Dispatch(navigator.ActionNext)
	})
	a.copyButton = widget.NewButtonWithIcon("Copy Path", theme.ContentCopyIcon(), func() {
		if a.controller.Dispatch(navigator.ActionCopyPath) {
			a.pathLabel.SetText("Copied: " + a.controller.CurrentPath())
		}
	})

	toolbar := container.NewHBox(
		a.openButton,
		a.copyButton,
		layout.NewSpacer(),
		a.prevButton,
		a.nextButton,
	)

	a.picture = canvas.NewImageFromImage(nil)
	a.picture.FillMode = canvas.ImageFillOriginal
	a.picture.ScaleMode = canvas.ImageScaleSmooth
	a.imageBox = container.NewCenter(a.picture)

	a.message = widget.NewLabelWithStyle(noDirText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	a.pathLabel = widget.NewLabel("")
	a.pathLabel.Truncation = fyne.TextTruncateEllipsis
	a.posLabel = widget.NewLabel("")

	statusBar := container.NewBorder(nil, nil, nil, a.posLabel, a.pathLabel)

	background := canvas.NewRectangle(color.NRGBA{R: 16, G: 16, B: 16, A: 255})
	center := container.NewStack(background, a.imageBox, container.NewCenter(a.message))

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		statusBar,
		nil,
		nil,
		center,
	)
	a.mainWindow.SetContent(content)
	a.mainWindow.Canvas().SetOnTypedKey(a.typedKey)
	a.mainWindow.SetOnClosed(a.stopWatching)

	a.updateButtons()
}

// typedKey routes key presses through the dispatch table.
func (a *App) typedKey(ev *fyne.KeyEvent) {
	action := keys.Lookup(string(ev.Name))
	switch action {
	case navigator.ActionNone:
		return
	case navigator.ActionQuit:
		a.mainWindow.Close()
	case navigator.ActionCopyPath:
		a.copyButton.OnTapped()
	default:
		a.controller.Dispatch(action)
	}
}

// PickDirectory shows the folder dialog. Cancelling reports "".
func (a *App) PickDirectory(done func(path string)) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			a.ShowError("Open Directory", err)
			done("")
			return
		}
		if uri == nil {
			done("")
			return
		}
		done(uri.Path())
	}, a.mainWindow)
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	if err == nil {
		return
	}
	log.LogWithError(err).Error(title)
	dialog.ShowError(err, a.mainWindow)
}

// Show implements navigator.Display.
func (a *App) Show(f navigator.Frame) {
	a.syncWatcher()

	title := a.cfg.Window.Title
	switch {
	case f.Empty():
		a.setImage(nil)
		if a.controller.Root() == "" {
			a.message.SetText(noDirText)
		} else {
			a.message.SetText(noImagesText)
		}
		a.message.Show()
		a.pathLabel.SetText(a.controller.Root())
		a.posLabel.SetText("")
	case f.Err != nil:
		a.setImage(nil)
		a.message.SetText(fmt.Sprintf(unableTextFmt, filepath.Base(f.Path)))
		a.message.Show()
		a.pathLabel.SetText(f.Path)
		a.posLabel.SetText(fmt.Sprintf(positionFmt, f.Index+1, f.Total))
		title += titleSeparator + filepath.Base(f.Path)
	default:
		a.setImage(f.Picture.Image)
		a.message.Hide()
		a.pathLabel.SetText(f.Path)
		a.posLabel.SetText(fmt.Sprintf(positionFmt, f.Index+1, f.Total))
		title += titleSeparator + filepath.Base(f.Path)
	}

	a.mainWindow.SetTitle(title)
	a.updateButtons()
}

// setImage shows img at its own size. The controller has already fitted it
// to the display bound, so it is never stretched here.
func (a *App) setImage(img image.Image) {
	size := fyne.NewSize(0, 0)
	if img != nil {
		px := img.Bounds().Size()
		size = fyne.NewSize(float32(px.X), float32(px.Y))
	}
	a.picture.Image = img
	a.picture.SetMinSize(size)
	a.picture.Resize(size)
	a.picture.Refresh()
	a.imageBox.Refresh()
}

func (a *App) updateButtons() {
	n, pos := a.controller.Len(), a.controller.Position()
	setEnabled(a.prevButton, n > 0 && pos > 0)
	setEnabled(a.nextButton, pos+1 < n)
	setEnabled(a.copyButton, n > 0)
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// syncWatcher moves the watcher to the controller's root when watch mode is
// on and the root changed.
func (a *App) syncWatcher() {
	if !a.cfg.Watch.Enabled || a.controller.Root() == a.watchedRoot {
		return
	}
	a.stopWatching()
	a.watchedRoot = a.controller.Root()

	w, err := watch.New(time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond)
	if err != nil {
		log.LogWithFields(log.F("error", err.Error())).Warn("Watch mode unavailable")
		return
	}
	if err := w.AddTree(a.watchedRoot); err != nil {
		log.LogWithFields(log.F("root", a.watchedRoot), log.F("error", err.Error())).Debug("Not watching root")
		w.Stop()
		return
	}
	if err := w.Start(); err != nil {
		log.LogWithFields(log.F("error", err.Error())).Warn("Watch mode unavailable")
		w.Stop()
		return
	}
	a.watcher = w

	go func(changes <-chan watch.Change) {
		for range changes {
			fyne.Do(a.controller.Rescan)
		}
	}(w.Changes())
}

func (a *App) stopWatching() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	a.watchedRoot = ""
}

// StartGUI opens the viewer window on initialDir and blocks until it closes.
func StartGUI(cfg *config.Config, initialDir string) error {
	NewApp(cfg).Run(initialDir)
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
