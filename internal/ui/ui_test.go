package ui

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brogergvhs/scansdl/internal/downloader"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(false, &buf).With("run", "abc123")
	log.Debugf("hidden %d", 1)
	log.Infof("chapter %s done", "12")
	log.Errorf("chapter %s failed", "13")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `msg="chapter 12 done"`)
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "run=abc123")
	assert.NotContains(t, out, "time=")

	buf.Reset()
	NewLogger(true, &buf).Debugf("visible")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestLogger_Redirect(t *testing.T) {
	var first, second bytes.Buffer

	root := NewLogger(false, &first)
	child := root.With("run", "r1")

	child.Infof("before")
	root.Redirect(&second)
	child.Infof("after")

	assert.Contains(t, first.String(), "before")
	assert.NotContains(t, first.String(), "after")
	assert.Contains(t, second.String(), "after")
	assert.Contains(t, second.String(), "run=r1")
}

func TestProgressManager_FinalizesAllBars(t *testing.T) {
	pm := NewProgressManager(io.Discard, "One Piece")

	ok := pm.Track(1045)
	ok.SetTotal(3)
	ok.Advance(1)
	ok.Advance(2)
	ok.MarkSucceeded()
	ok.MarkFailed("ignored after success")

	bad := pm.Track(1046)
	bad.MarkFailed("status code: 404")

	done := make(chan struct{})
	go func() {
		pm.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("progress manager did not finish")
	}

	n, err := pm.Write([]byte("after close\n"))
	assert.NoError(t, err)
	assert.Equal(t, len("after close\n"), n)
}

func TestStats(t *testing.T) {
	var s Stats
	s.Collect(
		downloader.Result{Chapter: 10, OK: true, Pages: 18, Bytes: 2048},
		downloader.Result{Chapter: 11, Err: errors.New("boom")},
		downloader.Result{Chapter: 12, OK: true, Pages: 20, Bytes: 1024},
		downloader.Result{Chapter: 13, Err: errors.New("boom")},
	)

	var buf bytes.Buffer
	s.Print(&buf, 3*time.Second)

	assert.Equal(t, 2, s.Chapters)
	assert.Equal(t, 38, s.Pages)
	out := buf.String()
	assert.Contains(t, out, "Data:     3.00 KB")
	assert.Contains(t, out, "Failed:   11,13")
	assert.True(t, strings.HasPrefix(out, "\nDownload Summary:"))
}
