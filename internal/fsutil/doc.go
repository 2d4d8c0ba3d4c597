package fsutil

// Package fsutil provides durable file write helpers for the portal's data
// directory. Writes to the same path are serialized behind a per-path mutex
// and committed with a temp-file rename.
