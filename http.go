package beaverlog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout    = 10 * time.Second
	defaultHTTPMaxPending = 1000
)

// remoteEntry is the JSON object posted for each log line.
type remoteEntry struct {
	Timestamp float64     `json:"timestamp"`
	Level     int         `json:"level"`
	Message   string      `json:"message"`
	Thread    string      `json:"thread"`
	FileName  string      `json:"fileName"`
	Function  string      `json:"function"`
	Line      int         `json:"line"`
	Context   interface{} `json:"context,omitempty"`
}

// HTTPDestination posts entries as a JSON array to a remote endpoint once
// Threshold entries are pending. Any 2xx status is success; on failure the
// batch is kept and retried with the next post.
type HTTPDestination struct {
	*Base

	url    string
	client *http.Client

	pendMu     sync.Mutex
	pending    [][]byte
	threshold  int
	maxPending int
	postRate   *rate.Limiter
	onComplete func(ok bool, status int)
}

// NewHTTPDestination posts every entry to url as soon as it is sent.
func NewHTTPDestination(url string) *HTTPDestination {
	return &HTTPDestination{
		Base:       NewBase(),
		url:        url,
		client:     &http.Client{Timeout: defaultHTTPTimeout},
		threshold:  1,
		maxPending: defaultHTTPMaxPending,
	}
}

// SetThreshold sets how many entries are collected before a post.
func (h *HTTPDestination) SetThreshold(n int) {
	if n < 1 {
		n = 1
	}
	h.pendMu.Lock()
	h.threshold = n
	h.pendMu.Unlock()
}

// SetMaxPending bounds the entries kept across failed posts; the oldest
// are dropped first.
func (h *HTTPDestination) SetMaxPending(n int) {
	h.pendMu.Lock()
	h.maxPending = n
	h.pendMu.Unlock()
}

// SetPostRate limits posts per second. Pending entries wait for the next
// allowed post. Zero disables the limit.
func (h *HTTPDestination) SetPostRate(perSecond float64) {
	h.pendMu.Lock()
	defer h.pendMu.Unlock()
	if perSecond <= 0 {
		h.postRate = nil
		return
	}
	h.postRate = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// SetHTTPClient replaces the client used for posts.
func (h *HTTPDestination) SetHTTPClient(client *http.Client) {
	if client == nil {
		return
	}
	h.pendMu.Lock()
	h.client = client
	h.pendMu.Unlock()
}

// OnComplete registers a callback run after every post attempt.
func (h *HTTPDestination) OnComplete(fn func(ok bool, status int)) {
	h.pendMu.Lock()
	h.onComplete = fn
	h.pendMu.Unlock()
}

// Pending returns the number of entries not yet delivered.
func (h *HTTPDestination) Pending() int {
	h.pendMu.Lock()
	defer h.pendMu.Unlock()
	return len(h.pending)
}

// Send queues e for delivery and posts once the threshold is reached.
// It returns the entry's JSON.
func (h *HTTPDestination) Send(e *Entry) (string, bool) {
	data, err := json.Marshal(remoteEntry{
		Timestamp: float64(e.Time.UnixNano()) / float64(time.Second),
		Level:     int(e.Level),
		Message:   e.Message,
		Thread:    e.Thread,
		FileName:  e.File,
		Function:  e.Function,
		Line:      e.Line,
		Context:   e.Context,
	})
	if err != nil {
		h.handleError(errors.Wrap(err, "failed to marshal remote entry"))
		return "", false
	}

	h.pendMu.Lock()
	h.pending = append(h.pending, data)
	ready := len(h.pending) >= h.threshold
	h.pendMu.Unlock()

	if ready {
		h.post(context.Background())
	}
	return string(data), true
}

// post delivers every pending entry in one request.
func (h *HTTPDestination) post(ctx context.Context) {
	h.pendMu.Lock()
	if len(h.pending) == 0 || (h.postRate != nil && !h.postRate.Allow()) {
		h.pendMu.Unlock()
		return
	}
	batch := h.pending
	h.pending = nil
	client, onComplete := h.client, h.onComplete
	h.pendMu.Unlock()

	status, err := h.do(ctx, client, batch)
	ok := err == nil && status >= 200 && status < 300
	if !ok {
		if err == nil {
			err = errors.Errorf("remote log endpoint %s returned status %d", h.url, status)
		}
		h.handleError(err)
		h.requeue(batch)
	}
	if onComplete != nil {
		onComplete(ok, status)
	}
}

func (h *HTTPDestination) do(ctx context.Context, client *http.Client, batch [][]byte) (int, error) {
	body := bytes.NewBuffer(make([]byte, 0, 256*len(batch)))
	body.WriteByte('[')
	for i, entry := range batch {
		if i > 0 {
			body.WriteByte(',')
		}
		body.Write(entry)
	}
	body.WriteByte(']')

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, body)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build remote log request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to post logs to %s", h.url)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// requeue puts a failed batch back in front of entries sent meanwhile.
func (h *HTTPDestination) requeue(batch [][]byte) {
	h.pendMu.Lock()
	defer h.pendMu.Unlock()
	h.pending = append(batch, h.pending...)
	if h.maxPending > 0 && len(h.pending) > h.maxPending {
		h.pending = h.pending[len(h.pending)-h.maxPending:]
	}
}

// Flush posts whatever is pending after the sends queued before it.
func (h *HTTPDestination) Flush(ctx context.Context) error {
	if _, err := h.queue.submit(ctx, func() { h.post(ctx) }); err != nil {
		return err
	}
	if err := h.Base.Flush(ctx); err != nil {
		return err
	}
	if n := h.Pending(); n > 0 {
		return errors.Errorf("%d log entries not delivered to %s", n, h.url)
	}
	return nil
}

// Close flushes pending entries and stops the queue.
func (h *HTTPDestination) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultHTTPTimeout)
	defer cancel()
	err := h.Flush(ctx)
	h.Base.Close()
	return err
}
