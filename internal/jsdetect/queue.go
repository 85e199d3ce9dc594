package jsdetect

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/failure"
	"github.com/scholartriage/pipeline/pkg/fileutil"
)

// Queue is an append-only, URL-deduplicated writer for BrowserQueueEntry
// records, mirroring the teacher asset resolver's writtenAssets map: a seen
// set guards against re-appending the same key, and only a genuinely new
// entry triggers a write.
type Queue struct {
	path string
	seen map[string]struct{}
}

// NewQueue opens (or creates) the queue file at path and preloads its
// existing keys so duplicates are suppressed across process restarts too.
func NewQueue(path string) (*Queue, failure.ClassifiedError) {
	q := &Queue{path: path, seen: make(map[string]struct{})}
	if err := q.preload(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Queue) preload() failure.ClassifiedError {
	f, err := os.Open(q.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &fileutil.FileError{Message: err.Error(), Retryable: false, Cause: fileutil.ErrCausePathError}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry leadmodel.BrowserQueueEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		q.seen[entry.URL] = struct{}{}
	}
	return nil
}

// Enqueue appends entry if its URL has not been seen before. Returns false
// (no-op) for a duplicate URL.
func (q *Queue) Enqueue(entry leadmodel.BrowserQueueEntry) (bool, failure.ClassifiedError) {
	if _, ok := q.seen[entry.URL]; ok {
		return false, nil
	}

	f, err := os.OpenFile(q.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, &fileutil.FileError{Message: err.Error(), Retryable: false, Cause: fileutil.ErrCausePathError}
	}
	defer f.Close()

	line, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		return false, &fileutil.FileError{Message: marshalErr.Error(), Retryable: false, Cause: fileutil.ErrCausePathError}
	}
	if _, writeErr := f.Write(append(line, '\n')); writeErr != nil {
		return false, &fileutil.FileError{Message: writeErr.Error(), Retryable: true, Cause: fileutil.ErrCausePathError}
	}

	q.seen[entry.URL] = struct{}{}
	return true, nil
}
