//go:build e2e

// Package e2e provides end-to-end tests for the demo page and the search harness.
//
// These tests are isolated from the standard test suite via build tags.
// They require a Chrome browser (auto-downloaded by Rod if not present)
// and are intended for CI pipelines or explicit local testing.
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// E2E tests use:
//   - Rod for browser automation (Chrome DevTools Protocol)
//   - the demo server from cmd/haloqa/server for the contact page
//   - MockSearchSite from pkg/harness/testutil for offline search runs
//   - godog for the Gherkin scenarios under features/
//
// Tests against the live search engine only run when HALOQA_LIVE=1. A
// CAPTCHA challenge skips them instead of failing.
//
// Test isolation:
// Tests share one Chrome process, but each test opens its own incognito
// browser context and starts its own server on a random port.
package e2e
