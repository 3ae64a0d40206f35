// Package bbobridge provides an embeddable BBO record bridge.
//
// A Bridge pulls best-bid-and-offer records from a quote source, carries
// them through a fixed-depth crossing queue between its ingress and egress
// loops, serializes each record into six 8-byte frames and writes the frames
// to a byte sink. Runtime control registers gate which records are accepted,
// and a status snapshot is persisted periodically.
//
// Basic usage:
//
//	cfg := bbobridge.Config{
//		Source:   bbobridge.SourceWS,
//		FeedURL:  "wss://feed.example.com/bbo",
//		SinkAddr: "collector:9100",
//		Symbols:  []string{"AAPL", "MSFT"},
//		Enabled:  true,
//	}
//
//	b, err := bbobridge.New(cfg, bbobridge.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	if err := b.Start(ctx); err != nil {
//		return err
//	}
//	defer b.Stop()
//
// Custom sources and sinks can be injected with WithRecordSource and
// WithFrameSink; plugins registered with WithPlugin run for the lifetime of
// the bridge and may adjust the control registers while it runs.
package bbobridge
