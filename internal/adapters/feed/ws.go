package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bft-labs/bbobridge/internal/domain"
	"github.com/bft-labs/bbobridge/internal/ports"
)

const (
	defaultDialTimeout = 10 * time.Second
	defaultReadTimeout = 60 * time.Second

	reconnectInitial = 1 * time.Second
	reconnectMax     = 60 * time.Second
)

// wsUpdate is the JSON BBO update delivered by the feed.
type wsUpdate struct {
	Symbol   string `json:"symbol"`
	BidPrice uint32 `json:"bid_price"`
	BidSize  uint32 `json:"bid_size"`
	AskPrice uint32 `json:"ask_price"`
	AskSize  uint32 `json:"ask_size"`
}

// wsSubscribe is the subscription request sent after connecting.
type wsSubscribe struct {
	Op      string   `json:"op"`
	Symbols []string `json:"symbols,omitempty"`
}

// WSConfig configures a websocket record source.
type WSConfig struct {
	// URL is the websocket endpoint.
	URL string

	// Symbols to subscribe to. Empty subscribes to the full feed.
	Symbols []string

	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// WSSource implements ports.RecordSource over a websocket BBO feed. It
// maintains the connection in the background, reconnecting with exponential
// backoff, and stamps T1 at parse time.
type WSSource struct {
	cfg    WSConfig
	clock  Clock
	logger ports.Logger

	recs   chan domain.Record
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWSSource creates the source and starts its connection loop.
func NewWSSource(cfg WSConfig, clock Clock, logger ports.Logger) *WSSource {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &WSSource{
		cfg:    cfg,
		clock:  clock,
		logger: logger,
		recs:   make(chan domain.Record, 1),
		cancel: cancel,
	}
	s.wg.Add(1)
	go s.connectionLoop(ctx)
	return s
}

// Next returns the next parsed record, blocking until one arrives or ctx is
// canceled.
func (s *WSSource) Next(ctx context.Context) (domain.Record, error) {
	select {
	case <-ctx.Done():
		return domain.Record{}, ctx.Err()
	case rec := <-s.recs:
		return rec, nil
	}
}

// Close stops the connection loop and waits for it to exit.
func (s *WSSource) Close() error {
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *WSSource) connectionLoop(ctx context.Context) {
	defer s.wg.Done()

	back := newBackoff(reconnectInitial, reconnectMax)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.readSession(ctx, back); err != nil && ctx.Err() == nil {
			s.logger.Warn("feed connection lost",
				ports.String("url", s.cfg.URL),
				ports.Err(err))
			back.Wait(ctx)
			continue
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// readSession dials, subscribes, and pumps updates until the connection
// breaks or ctx is canceled. A successful subscribe resets the reconnect
// backoff.
func (s *WSSource) readSession(ctx context.Context, back *backoff) error {
	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// The watcher must die with the session, not with the source.
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-sctx.Done()
		conn.Close()
	}()

	sub := wsSubscribe{Op: "subscribe", Symbols: s.cfg.Symbols}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}
	back.Reset()
	s.logger.Info("feed connected",
		ports.String("url", s.cfg.URL),
		ports.Int("symbols", len(s.cfg.Symbols)))

	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return err
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var upd wsUpdate
		if err := json.Unmarshal(msg, &upd); err != nil {
			s.logger.Debug("unparseable feed message", ports.Err(err))
			continue
		}
		if upd.Symbol == "" {
			continue
		}

		rec := recordFromUpdate(upd, s.clock())
		select {
		case <-ctx.Done():
			return nil
		case s.recs <- rec:
		}
	}
}

// recordFromUpdate builds a record from a feed update, deriving the spread
// and stamping T1 with the parse-time cycle count.
func recordFromUpdate(upd wsUpdate, t1 uint32) domain.Record {
	var spread uint32
	if upd.AskPrice > upd.BidPrice {
		spread = upd.AskPrice - upd.BidPrice
	}
	return domain.Record{
		Symbol:   domain.NewSymbol(upd.Symbol),
		BidPrice: upd.BidPrice,
		BidSize:  upd.BidSize,
		AskPrice: upd.AskPrice,
		AskSize:  upd.AskSize,
		Spread:   spread,
		T1:       t1,
	}
}
