package controller

import (
	"time"

	"gocv.io/x/gocv"
)

// WindowDisplay shows images in HighGUI windows, created on first use.
type WindowDisplay struct {
	windows map[string]*gocv.Window
	last    *gocv.Window
}

// NewWindowDisplay returns a display with no windows open yet.
func NewWindowDisplay() *WindowDisplay {
	return &WindowDisplay{windows: make(map[string]*gocv.Window)}
}

// Show implements Display.
func (d *WindowDisplay) Show(name string, img gocv.Mat) {
	w, ok := d.windows[name]
	if !ok {
		w = gocv.NewWindow(name)
		d.windows[name] = w
	}
	w.IMShow(img)
	d.last = w
}

// Hide closes the named window if it is open.
func (d *WindowDisplay) Hide(name string) {
	w, ok := d.windows[name]
	if !ok {
		return
	}
	delete(d.windows, name)
	if d.last == w {
		d.last = nil
		for _, other := range d.windows {
			d.last = other
			break
		}
	}
	w.Close()
}

// WaitKey implements Display. Without an open window there is no event loop
// to poll, so it only sleeps.
func (d *WindowDisplay) WaitKey(delay int) int {
	if d.last == nil {
		time.Sleep(time.Duration(delay) * time.Millisecond)
		return -1
	}
	return d.last.WaitKey(delay)
}

// Close closes every open window.
func (d *WindowDisplay) Close() error {
	for name, w := range d.windows {
		w.Close()
		delete(d.windows, name)
	}
	d.last = nil
	return nil
}

// HeadlessDisplay discards images and never reports a key press.
type HeadlessDisplay struct{}

// Show implements Display.
func (HeadlessDisplay) Show(string, gocv.Mat) {}

// Hide implements Display.
func (HeadlessDisplay) Hide(string) {}

// WaitKey implements Display.
func (HeadlessDisplay) WaitKey(int) int { return -1 }

// Close implements Display.
func (HeadlessDisplay) Close() error { return nil }
