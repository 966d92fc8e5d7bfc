// Package exporter serializes pipeline output as CSV and Excel files,
// either streamed to an HTTP response or written under the configured
// export directory. Filenames encode the active filter selection so a
// downloaded file identifies the slice it contains.
package exporter
