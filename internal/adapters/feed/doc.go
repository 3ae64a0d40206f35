// Package feed implements the upstream record sources: a websocket BBO feed
// with reconnect, a capture-file replay source, and a synthetic random-walk
// generator.
package feed
