// Package log provides the structured logger of trustscan, built on slog.
//
// The SecureHandler wraps any slog.Handler and rewrites attributes before
// they are written:
//   - values of credential-like keys (cookie, authorization, token, ...) and
//     values that look like bearer tokens or JWTs are replaced by MaskValue
//   - page payloads (content, markup, html) are cut to MaxPayloadLength so a
//     debug log never contains a full document
//
// NewFileWriter returns a size-rotated log file for use instead of stderr.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
