package loki

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	pushPath      = "/loki/api/v1/push"
	flushEvery    = 1 * time.Second
	flushAtLines  = 20
	clientTimeout = 5 * time.Second
)

// Writer batches log lines in memory and ships them to Loki's push API.
// It implements io.Writer so it can sit behind a zap core.
type Writer struct {
	url    string
	labels map[string]string
	client *http.Client

	mu      sync.Mutex
	entries [][]string
	// sendMu keeps pushes ordered and lets Close wait for an in-flight push.
	sendMu sync.Mutex

	ticker *time.Ticker
	done   chan struct{}
	closed sync.Once
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewWriter returns nil when baseURL is empty so callers can skip Loki entirely.
// service becomes the "job" label of every pushed line.
func NewWriter(baseURL, service string) *Writer {
	if baseURL == "" || service == "" {
		return nil
	}
	w := &Writer{
		url:    strings.TrimSuffix(baseURL, "/") + pushPath,
		labels: map[string]string{"job": service},
		client: &http.Client{Timeout: clientTimeout},
		ticker: time.NewTicker(flushEvery),
		done:   make(chan struct{}),
	}
	go w.flushLoop()
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	now := strconv.FormatInt(time.Now().UnixNano(), 10)
	var full bool

	w.mu.Lock()
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.entries = append(w.entries, []string{now, string(line)})
	}
	full = len(w.entries) >= flushAtLines
	w.mu.Unlock()

	if full {
		w.flush()
	}
	return len(p), nil
}

// Sync flushes buffered lines; zap calls it through zapcore.AddSync.
func (w *Writer) Sync() error {
	w.flush()
	return nil
}

func (w *Writer) flushLoop() {
	for {
		select {
		case <-w.done:
			return
		case <-w.ticker.C:
			w.flush()
		}
	}
}

func (w *Writer) flush() {
	w.sendMu.Lock()
	defer w.sendMu.Unlock()

	w.mu.Lock()
	if len(w.entries) == 0 {
		w.mu.Unlock()
		return
	}
	values := w.entries
	w.entries = nil
	w.mu.Unlock()

	raw, err := json.Marshal(pushRequest{Streams: []stream{{Stream: w.labels, Values: values}}})
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(raw))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

// Close stops the background flusher and pushes whatever is left.
func (w *Writer) Close() error {
	w.closed.Do(func() {
		w.ticker.Stop()
		close(w.done)
		w.flush()
	})
	return nil
}
