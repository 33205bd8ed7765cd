package hub

import (
	"io"
	"time"
)

const mib = 1024 * 1024

// reportEvery throttles byte-level progress callbacks.
const reportEvery = 8 * mib

// ProgressFunc receives download progress. complete fires once, when the
// stream closes.
type ProgressFunc func(file string, currentSize, totalSize int64, mibPerSec float64, complete bool)

// progressReader adapts ProgressFunc to go-getter's progress listener
// contract. go-getter hands us the response stream; we count bytes through
// Read and report on an interval so huge files do not flood the callback.
type progressReader struct {
	file         string
	currentSize  int64
	totalSize    int64
	lastReported int64
	startTime    time.Time
	reader       io.ReadCloser
	progress     ProgressFunc
}

// TrackProgress is called by go-getter once per download to wrap the stream.
func (pr *progressReader) TrackProgress(src string, currentSize, totalSize int64, stream io.ReadCloser) io.ReadCloser {
	pr.file = src
	pr.currentSize = currentSize
	pr.totalSize = totalSize
	pr.startTime = time.Now()
	pr.reader = stream
	return pr
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.currentSize += int64(n)
	if pr.progress != nil && pr.currentSize-pr.lastReported >= reportEvery {
		pr.lastReported = pr.currentSize
		pr.progress(pr.file, pr.currentSize, pr.totalSize, pr.mibPerSec(), false)
	}
	return n, err
}

func (pr *progressReader) Close() error {
	if pr.progress != nil {
		pr.progress(pr.file, pr.currentSize, pr.totalSize, pr.mibPerSec(), true)
	}
	return pr.reader.Close()
}

func (pr *progressReader) mibPerSec() float64 {
	elapsed := time.Since(pr.startTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(pr.currentSize) / mib / elapsed
}
