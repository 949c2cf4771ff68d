package api

import (
	"io"
)

// ProgressFunc receives the bytes sent so far and the total request size
type ProgressFunc func(sent, total int64)

// progressReader wraps an io.Reader and reports how much has been read
type progressReader struct {
	reader   io.Reader
	total    int64
	current  int64
	progress ProgressFunc
}

func newProgressReader(reader io.Reader, total int64, progress ProgressFunc) *progressReader {
	return &progressReader{
		reader:   reader,
		total:    total,
		progress: progress,
	}
}

// Read implements io.Reader and reports progress after each chunk
func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.current += int64(n)
		if pr.progress != nil {
			pr.progress(pr.current, pr.total)
		}
	}

	return n, err
}
