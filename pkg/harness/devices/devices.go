// Package devices holds the emulated device profiles used by mobile test
// variants and applies them to a go-rod page.
package devices

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Viewport is a CSS pixel size.
type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Portrait reports whether the viewport is taller than it is wide.
func (v Viewport) Portrait() bool {
	return v.Width < v.Height
}

// Profile is a named bundle of emulated hardware and browser characteristics.
type Profile struct {
	Name              string   `json:"name" yaml:"name"`
	UserAgent         string   `json:"user_agent" yaml:"user_agent"`
	Viewport          Viewport `json:"viewport" yaml:"viewport"`
	DeviceScaleFactor float64  `json:"device_scale_factor" yaml:"device_scale_factor"`
	IsMobile          bool     `json:"is_mobile" yaml:"is_mobile"`
	HasTouch          bool     `json:"has_touch" yaml:"has_touch"`
}

// Device names.
const (
	IPhone12 = "iPhone_12"
	Pixel5   = "Pixel_5"
	IPadPro  = "iPad_Pro"
)

var profiles = map[string]Profile{
	IPhone12: {
		Name:              IPhone12,
		UserAgent:         "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1",
		Viewport:          Viewport{Width: 390, Height: 844},
		DeviceScaleFactor: 3,
		IsMobile:          true,
		HasTouch:          true,
	},
	Pixel5: {
		Name:              Pixel5,
		UserAgent:         "Mozilla/5.0 (Linux; Android 11; Pixel 5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/89.0.4389.105 Mobile Safari/537.36",
		Viewport:          Viewport{Width: 393, Height: 851},
		DeviceScaleFactor: 2.75,
		IsMobile:          true,
		HasTouch:          true,
	},
	// The tablet is held in landscape.
	IPadPro: {
		Name:              IPadPro,
		UserAgent:         "Mozilla/5.0 (iPad; CPU OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1",
		Viewport:          Viewport{Width: 1366, Height: 1024},
		DeviceScaleFactor: 2,
		IsMobile:          true,
		HasTouch:          true,
	},
}

// Lookup returns the profile registered under name.
func Lookup(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown device %q (known: %v)", name, Names())
	}
	return p, nil
}

// Names returns every registered device name, sorted case-insensitively.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// All returns every profile ordered by name.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, name := range Names() {
		out = append(out, profiles[name])
	}
	return out
}

// Validate checks that the profile fields are internally consistent.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("device profile has no name")
	}
	if p.UserAgent == "" {
		return fmt.Errorf("device %s: empty user agent", p.Name)
	}
	if p.Viewport.Width <= 0 || p.Viewport.Height <= 0 {
		return fmt.Errorf("device %s: invalid viewport %dx%d", p.Name, p.Viewport.Width, p.Viewport.Height)
	}
	if p.DeviceScaleFactor <= 0 {
		return fmt.Errorf("device %s: scale factor must be positive", p.Name)
	}
	if p.IsMobile && !p.HasTouch {
		return fmt.Errorf("device %s: mobile devices must support touch", p.Name)
	}
	return nil
}

// Metrics returns the device-metrics override for this profile.
func (p Profile) Metrics() *proto.EmulationSetDeviceMetricsOverride {
	return &proto.EmulationSetDeviceMetricsOverride{
		Width:             p.Viewport.Width,
		Height:            p.Viewport.Height,
		DeviceScaleFactor: p.DeviceScaleFactor,
		Mobile:            p.IsMobile,
	}
}

// Emulate applies the user agent, viewport, scale and touch settings to page.
// Call it before navigating so the first request carries the user agent.
func (p Profile) Emulate(page *rod.Page) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: p.UserAgent}); err != nil {
		return fmt.Errorf("device %s: set user agent: %w", p.Name, err)
	}
	if err := page.SetViewport(p.Metrics()); err != nil {
		return fmt.Errorf("device %s: set viewport: %w", p.Name, err)
	}
	if err := (proto.EmulationSetTouchEmulationEnabled{Enabled: p.HasTouch}).Call(page); err != nil {
		return fmt.Errorf("device %s: set touch emulation: %w", p.Name, err)
	}
	return nil
}
