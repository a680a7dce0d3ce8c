// Package log provides the console logging of image-augmentor, built on top
// of the standard slog package.
//
// StatusHandler renders per-image records as one colored line each:
//
//	photos/cat.jpg OK 3
//	photos/dog.png SKIPPED image too small
//	photos/dup.jpg DUPLICATE
//
// Records without a status attribute are printed as the message followed by
// key=value pairs.
//
// # Usage
//
//	logger := log.New(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
