// Package log provides the structured logging abstraction used throughout
// bbobridge, with a zerolog-backed adapter for console and rotating-file
// output and a no-op implementation as the library default.
package log
