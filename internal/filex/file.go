// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
)

// MaxAttachmentSize caps how much the uploader is willing to read from a
// single local file.
const MaxAttachmentSize = 32 << 20 // 32 MiB

// ReadAttachment reads a local file destined for upload, rejecting files
// larger than MaxAttachmentSize before reading them into memory.
func ReadAttachment(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxAttachmentSize {
		return nil, fmt.Errorf("file %s exceeds %d bytes", path, int64(MaxAttachmentSize))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
