package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter forwards command output to a destination and flushes buffered
// destinations, such as a bufio.Writer, after every write. Writes are serialized.
type FlushingWriter struct {
	mutex       sync.Mutex
	destination io.Writer
	flusher     flusher
}

// NewFlushingWriter wraps destination. A nil destination yields nil and an
// existing FlushingWriter is returned unchanged.
func NewFlushingWriter(destination io.Writer) io.Writer {
	switch typedDestination := destination.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return typedDestination
	}

	bufferedDestination, _ := destination.(flusher)
	return &FlushingWriter{destination: destination, flusher: bufferedDestination}
}

// Write writes data and then flushes when the destination is buffered.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil || writer.flusher == nil {
		return bytesWritten, writeError
	}
	return bytesWritten, writer.flusher.Flush()
}
