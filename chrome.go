package svg2png

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-svg2png/internal/fileutil"
)

// Browsers render at 96 CSS pixels per inch; the DPI parameter maps onto the
// device scale factor relative to that baseline.
const baseScreenDPI = 96.0

// defaultRenderTimeout bounds a single page load + capture.
const defaultRenderTimeout = 30 * time.Second

// ChromeRasterizer renders SVG files in headless Chrome via go-rod and
// captures the result as PNG. It needs no external rasterization tool:
// rod downloads a managed Chromium on first run if none is found.
type ChromeRasterizer struct {
	browser *rod.Browser
	timeout time.Duration
}

// Compile-time interface check.
var _ Rasterizer = (*ChromeRasterizer)(nil)

// NewChromeRasterizer creates a ChromeRasterizer with the default timeout.
// The browser is launched lazily on first use.
func NewChromeRasterizer() *ChromeRasterizer {
	return &ChromeRasterizer{timeout: defaultRenderTimeout}
}

// Available reports whether a Chrome/Chromium binary can be located.
// Honors ROD_BROWSER_BIN for pre-installed browsers (containers, CI).
func (c *ChromeRasterizer) Available() error {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		if _, err := os.Stat(bin); err != nil {
			return fmt.Errorf("%w: ROD_BROWSER_BIN=%s: %v", ErrToolNotFound, bin, err)
		}
		return nil
	}
	if _, found := launcher.LookPath(); !found {
		return fmt.Errorf("%w: no Chrome/Chromium binary (set ROD_BROWSER_BIN or install Chrome)", ErrToolNotFound)
	}
	return nil
}

// ensureBrowser lazily connects to the browser.
func (c *ChromeRasterizer) ensureBrowser() error {
	if c.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.browser = rod.New().ControlURL(u)
	if err := c.browser.Connect(); err != nil {
		c.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (c *ChromeRasterizer) Close() error {
	if c.browser != nil {
		err := c.browser.Close()
		c.browser = nil
		return err
	}
	return nil
}

// Rasterize loads the SVG over file://, scales the viewport by dpi/96 and
// captures a PNG screenshot of the full content box.
func (c *ChromeRasterizer) Rasterize(ctx context.Context, source, dest string, dpi int) error {
	if source == "" {
		return ErrEmptySource
	}
	if !fileutil.FileExists(source) {
		return fmt.Errorf("%w: %s", ErrEmptySource, source)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.ensureBrowser(); err != nil {
		return err
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", source, err)
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "file://" + abs})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	metrics, err := proto.PageGetLayoutMetrics{}.Call(page)
	if err != nil {
		return fmt.Errorf("%w: reading layout metrics: %v", ErrRasterization, err)
	}

	scale := float64(dpi) / baseScreenDPI
	width := int(math.Ceil(metrics.CSSContentSize.Width))
	height := int(math.Ceil(metrics.CSSContentSize.Height))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: scale,
	}); err != nil {
		return fmt.Errorf("%w: setting viewport: %v", ErrRasterization, err)
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("%w: capturing screenshot: %v", ErrRasterization, err)
	}

	// #nosec G306 -- rendered images are meant to be readable
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrRasterization, dest, err)
	}
	return nil
}
