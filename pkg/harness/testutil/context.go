package testutil

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/haloqa/pkg/harness/devices"
)

// DesktopUserAgent is a current desktop Chrome user agent.
const DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Geolocation is an emulated position.
type Geolocation struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters
}

// Madrid is the position used by the live search tests.
var Madrid = Geolocation{Latitude: 40.4168, Longitude: -3.7038, Accuracy: 100}

// ContextOptions shape a Session's page before it loads anything.
type ContextOptions struct {
	// Viewport sets the window size. Zero leaves Chrome's default.
	Viewport devices.Viewport
	// Device emulates a device profile; it overrides Viewport and UserAgent.
	Device *devices.Profile
	// UserAgent overrides the browser user agent.
	UserAgent string
	// Headers are sent with every request.
	Headers map[string]string
	// Geolocation grants the geolocation permission and fixes the position.
	Geolocation *Geolocation
}

// StealthHeaders returns request headers a Spanish-locale desktop Chrome sends.
func StealthHeaders() map[string]string {
	return map[string]string{
		"Accept-Language":    "es-ES,es;q=0.9,en;q=0.8",
		"Accept":             "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		"sec-ch-ua":          `"Not A(Brand";v="99", "Google Chrome";v="122", "Chromium";v="122"`,
		"sec-ch-ua-mobile":   "?0",
		"sec-ch-ua-platform": `"Windows"`,
	}
}

// RandomDesktopViewport picks a common desktop window size.
func RandomDesktopViewport(rng *rand.Rand) devices.Viewport {
	return devices.Viewport{
		Width:  1024 + rng.Intn(1920-1024+1),
		Height: 768 + rng.Intn(1080-768+1),
	}
}

func protoBlankTarget() proto.TargetCreateTarget {
	return proto.TargetCreateTarget{URL: "about:blank"}
}

// headerPairs flattens headers into the key, value list Rod expects, sorted
// by key for a stable request order.
func headerPairs(h map[string]string) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, h[k])
	}
	return pairs
}

func (o ContextOptions) apply(browser *rod.Browser, page *rod.Page) error {
	switch {
	case o.Device != nil:
		if err := o.Device.Emulate(page); err != nil {
			return err
		}
	default:
		if o.Viewport.Width > 0 && o.Viewport.Height > 0 {
			if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
				Width:  o.Viewport.Width,
				Height: o.Viewport.Height,
			}); err != nil {
				return fmt.Errorf("set viewport: %w", err)
			}
		}
		if o.UserAgent != "" {
			if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: o.UserAgent}); err != nil {
				return fmt.Errorf("set user agent: %w", err)
			}
		}
	}

	if len(o.Headers) > 0 {
		if _, err := page.SetExtraHeaders(headerPairs(o.Headers)); err != nil {
			return fmt.Errorf("set extra headers: %w", err)
		}
	}

	if g := o.Geolocation; g != nil {
		err := proto.BrowserGrantPermissions{
			Permissions:      []proto.BrowserPermissionType{proto.BrowserPermissionTypeGeolocation},
			BrowserContextID: browser.BrowserContextID,
		}.Call(browser)
		if err != nil {
			return fmt.Errorf("grant geolocation: %w", err)
		}
		lat, lng, acc := g.Latitude, g.Longitude, g.Accuracy
		err = proto.EmulationSetGeolocationOverride{
			Latitude:  &lat,
			Longitude: &lng,
			Accuracy:  &acc,
		}.Call(page)
		if err != nil {
			return fmt.Errorf("set geolocation: %w", err)
		}
	}
	return nil
}
