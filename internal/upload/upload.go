// Package upload turns local files into attachment references. The batch
// contract is all-or-nothing: if any file fails, no references are returned
// and the caller must not proceed with a record mutation.
package upload

import "context"

// Uploader is the file-upload collaborator of the journal coordinator.
//
// UploadBatch uploads the given local files and returns one attachment
// reference per file, in the same order. A failure of any single file aborts
// the whole batch.
type Uploader interface {
	UploadBatch(ctx context.Context, paths []string) ([]string, error)
}
