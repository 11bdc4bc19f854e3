package utils

import (
	"io"
	"sync"
)

type bufferedWriter interface {
	io.Writer
	Flush() error
}

// FlushingWriter flushes a buffered writer after every write so prompt text is visible before input is read.
type FlushingWriter struct {
	target bufferedWriter
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writers that buffer output, such as *bufio.Writer. Other writers, including nil,
// are returned unchanged.
func NewFlushingWriter(writer io.Writer) io.Writer {
	buffered, buffersOutput := writer.(bufferedWriter)
	if !buffersOutput {
		return writer
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}
	return &FlushingWriter{target: buffered}
}

// Write writes data and then flushes the wrapped writer.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.target.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	return bytesWritten, flushingWriter.target.Flush()
}

// Flush flushes the wrapped writer.
func (flushingWriter *FlushingWriter) Flush() error {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()
	return flushingWriter.target.Flush()
}
