package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/chzchzchz/rxscope/config"
	"github.com/chzchzchz/rxscope/display"
	"github.com/chzchzchz/rxscope/scope"
)

// scopeWindow draws the controller's current view into an RGBA surface and
// streams it to the screen through one texture.
type scopeWindow struct {
	win  *sdl.Window
	r    *sdl.Renderer
	tex  *sdl.Texture
	surf *display.Surface
	w    int
	h    int
	fps  float64

	ctl      *scope.Controller
	debounce scope.Debouncer
	log      *slog.Logger
}

func newScopeWindow(ctl *scope.Controller, d config.Display, logger *slog.Logger) (sw *scopeWindow, err error) {
	winFlags := uint32(sdl.WINDOW_SHOWN)
	if d.Fullscreen {
		winFlags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	win, e := sdl.CreateWindow(
		"rxscope",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(d.Width),
		int32(d.Height),
		winFlags)
	if e != nil {
		return nil, e
	}
	defer func() {
		if err != nil {
			win.Destroy()
		}
	}()

	// Disable letterboxing.
	sdl.SetHint(sdl.HINT_RENDER_LOGICAL_SIZE_MODE, "1")
	// Touches are handled as finger events; no synthetic mouse clicks.
	sdl.SetHint(sdl.HINT_TOUCH_MOUSE_EVENTS, "0")

	r, e := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if e != nil {
		return nil, e
	}
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()

	info, err := r.GetInfo()
	if err != nil {
		return nil, err
	}
	if (info.Flags & sdl.RENDERER_ACCELERATED) == 0 {
		logger.Info("no hw acceleration")
	}
	if err := r.SetLogicalSize(int32(d.Width), int32(d.Height)); err != nil {
		return nil, err
	}

	// ABGR8888 is R, G, B, A in memory on little endian, matching image.RGBA.
	tex, e := r.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(d.Width), int32(d.Height))
	if e != nil {
		return nil, fmt.Errorf("creating texture: %w", e)
	}
	if d.Fullscreen {
		sdl.ShowCursor(sdl.DISABLE)
	}

	return &scopeWindow{
		win:      win,
		r:        r,
		tex:      tex,
		surf:     display.NewSurface(d.Width, d.Height),
		w:        d.Width,
		h:        d.Height,
		fps:      d.FPS,
		ctl:      ctl,
		debounce: scope.Debouncer{Interval: d.ClickDebounce},
		log:      logger,
	}, nil
}

func (sw *scopeWindow) Close() {
	sw.tex.Destroy()
	sw.r.Destroy()
	sw.win.Destroy()
}

func (sw *scopeWindow) redraw(ctx context.Context) error {
	sw.ctl.Render(ctx, sw.surf)
	img := sw.surf.Image()
	if err := sw.tex.Update(nil, img.Pix, img.Stride); err != nil {
		return err
	}
	if err := sw.r.Copy(sw.tex, nil, nil); err != nil {
		return err
	}
	sw.r.Present()
	return nil
}

// Run renders a frame per tick until quit is confirmed, the window is
// closed or ctx is done.
func (sw *scopeWindow) Run(ctx context.Context) error {
	fpsDur := time.Duration(float64(time.Second) / sw.fps)
	ticker := time.NewTicker(fpsDur)
	defer ticker.Stop()

	for sw.processEvents() && !sw.ctl.Done() {
		if err := sw.redraw(ctx); err != nil {
			return err
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			sw.log.Info("interrupted")
			return nil
		}
	}
	sw.log.Info("quit")
	return nil
}

func (sw *scopeWindow) click(p image.Point) {
	if !sw.debounce.Allow(time.Now()) {
		sw.log.Debug("dropped click", "x", p.X, "y", p.Y)
		return
	}
	sw.ctl.Click(p)
}

func (sw *scopeWindow) handleEvent(event sdl.Event) bool {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		return false
	case *sdl.MouseButtonEvent:
		if ev.Type != sdl.MOUSEBUTTONDOWN || ev.Button != sdl.BUTTON_LEFT {
			break
		}
		sw.click(image.Pt(int(ev.X), int(ev.Y)))
	case *sdl.TouchFingerEvent:
		if ev.Type != sdl.FINGERDOWN {
			break
		}
		// Finger positions are normalized to [0, 1].
		sw.click(image.Pt(int(ev.X*float32(sw.w)), int(ev.Y*float32(sw.h))))
	case *sdl.KeyboardEvent:
		if ev.Type == sdl.KEYUP && ev.Keysym.Sym == sdl.K_ESCAPE {
			sw.ctl.Quit()
		}
	}
	return true
}

func (sw *scopeWindow) processEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if !sw.handleEvent(event) {
			return false
		}
	}
	return true
}
