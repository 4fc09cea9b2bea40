// Package tail reads newly appended bytes from transcript files. Reads are
// bounded by the file size observed up front, so content a writer is still
// appending never bleeds into a read.
package tail

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// maxLineSize caps a single transcript line. Base64-encoded image content
// can push individual lines past a megabyte.
const maxLineSize = 10 * 1024 * 1024

// ReadNew returns the complete lines appended to path since offset from,
// along with the new offset. A file that has not grown, has shrunk, or does
// not exist yet is a no-op: no lines, offset unchanged. On read errors the
// returned offset is also unchanged, so the caller retries the same byte
// range on the next change event.
func ReadNew(path string, from int64) ([]string, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, from, nil
		}
		return nil, from, err
	}

	size := info.Size()
	if size <= from {
		return nil, from, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, from, err
	}
	defer file.Close()

	if _, err := file.Seek(from, io.SeekStart); err != nil {
		return nil, from, err
	}

	// Read only the byte range observed at stat time.
	scanner := bufio.NewScanner(io.LimitReader(file, size-from))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, from, err
	}

	return lines, size, nil
}
