package testutil

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultIdleWindow is how long the network must stay quiet to count as idle.
const DefaultIdleWindow = 500 * time.Millisecond

// WaitNetworkIdle blocks until page has had no in-flight requests for
// DefaultIdleWindow, or until timeout.
func WaitNetworkIdle(page *rod.Page, timeout time.Duration) {
	p := page.Timeout(timeout)
	defer p.CancelTimeout()
	p.WaitRequestIdle(DefaultIdleWindow, nil, nil, nil)()
}

// Response is a recorded network response.
type Response struct {
	URL      string
	Status   int
	MIMEType string
	Body     []byte
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// ResponseRecorder captures the responses whose URL contains a pattern.
type ResponseRecorder struct {
	pattern string
	cancel  context.CancelFunc
	done    chan struct{}

	mu        sync.Mutex
	pending   map[proto.NetworkRequestID]Response
	responses []Response
	errs      []error
	notify    chan struct{}
}

// RecordResponses starts recording responses on page whose URL contains
// pattern. Call Stop when done.
func RecordResponses(page *rod.Page, pattern string) *ResponseRecorder {
	ctx, cancel := context.WithCancel(context.Background())
	r := &ResponseRecorder{
		pattern: pattern,
		cancel:  cancel,
		done:    make(chan struct{}),
		pending: make(map[proto.NetworkRequestID]Response),
		notify:  make(chan struct{}, 1),
	}

	wait := page.Context(ctx).EachEvent(
		func(ev *proto.NetworkResponseReceived) {
			if !strings.Contains(ev.Response.URL, r.pattern) {
				return
			}
			r.mu.Lock()
			r.pending[ev.RequestID] = Response{
				URL:      ev.Response.URL,
				Status:   ev.Response.Status,
				MIMEType: ev.Response.MIMEType,
			}
			r.mu.Unlock()
		},
		func(ev *proto.NetworkLoadingFinished) {
			r.mu.Lock()
			resp, ok := r.pending[ev.RequestID]
			delete(r.pending, ev.RequestID)
			r.mu.Unlock()
			if !ok {
				return
			}

			body, err := responseBody(page, ev.RequestID)
			r.mu.Lock()
			if err != nil {
				r.errs = append(r.errs, fmt.Errorf("body of %s: %w", resp.URL, err))
			}
			resp.Body = body
			r.responses = append(r.responses, resp)
			r.mu.Unlock()

			select {
			case r.notify <- struct{}{}:
			default:
			}
		},
	)
	go func() {
		defer close(r.done)
		wait()
	}()
	return r
}

func responseBody(page *rod.Page, id proto.NetworkRequestID) ([]byte, error) {
	res, err := proto.NetworkGetResponseBody{RequestID: id}.Call(page)
	if err != nil {
		return nil, err
	}
	if res.Base64Encoded {
		return base64.StdEncoding.DecodeString(res.Body)
	}
	return []byte(res.Body), nil
}

// Responses returns the responses recorded so far, in completion order.
func (r *ResponseRecorder) Responses() []Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Response, len(r.responses))
	copy(out, r.responses)
	return out
}

// Err returns the body read failures seen so far.
func (r *ResponseRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.errs...)
}

// Wait blocks until at least n responses are recorded or ctx is done.
func (r *ResponseRecorder) Wait(ctx context.Context, n int) error {
	for {
		r.mu.Lock()
		got := len(r.responses)
		r.mu.Unlock()
		if got >= n {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("recorded %d of %d responses matching %q: %w", got, n, r.pattern, ctx.Err())
		case <-r.notify:
		}
	}
}

// DecodeLast decodes the JSON body of the most recent successful response into v.
func (r *ResponseRecorder) DecodeLast(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.responses) - 1; i >= 0; i-- {
		if resp := r.responses[i]; resp.OK() {
			if err := json.Unmarshal(resp.Body, v); err != nil {
				return fmt.Errorf("decode %s: %w", resp.URL, err)
			}
			return nil
		}
	}
	return fmt.Errorf("no successful response matching %q", r.pattern)
}

// Stop ends recording and waits for the event loop to exit.
func (r *ResponseRecorder) Stop() {
	r.cancel()
	<-r.done
}
