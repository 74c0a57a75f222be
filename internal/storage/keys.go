// Package storage provides the durable object store behind the translation
// platform: deterministic key derivation, an S3-backed implementation, and
// an in-memory double for tests.
package storage

import (
	"fmt"
	"time"
)

// Key prefixes for the two document categories.
const (
	requestsPrefix     = "requests"
	translationsPrefix = "translations"
)

// datePath is the time-partitioned segment of every storage key.
func datePath(t time.Time) string {
	return t.UTC().Format("2006/01/02")
}

// AuditKey derives the input-audit document key for a job submitted at t.
func AuditKey(jobID string, t time.Time) string {
	return fmt.Sprintf("%s/%s/%s_request.json", requestsPrefix, datePath(t), jobID)
}

// ResultKey derives the result document key for a job submitted at t. Both
// the server (to write) and the client (to poll) compute the same key from
// the job id and submission date.
func ResultKey(jobID string, t time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", translationsPrefix, datePath(t), jobID)
}

// URL renders the canonical s3:// address for a stored object.
func URL(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
