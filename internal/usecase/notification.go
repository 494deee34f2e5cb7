package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"squeeze-scanner/internal/domain"
)

// AlertSender publishes a push notification to a topic.
type AlertSender interface {
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

// Notifier pushes bullish fire alerts, with a per-symbol cooldown so a symbol
// that keeps showing up across consecutive scans alerts only once per window.
type Notifier struct {
	sender   AlertSender
	topic    string
	minScore float64
	cooldown time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewNotifier(sender AlertSender, topic string, minScore float64, cooldown time.Duration, log zerolog.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		topic:    topic,
		minScore: minScore,
		cooldown: cooldown,
		log:      log,
		lastSent: make(map[string]time.Time),
	}
}

// NotifyBullishFires alerts on every bullish fire at or above the score
// floor. Send failures are logged and do not affect the scan result.
func (n *Notifier) NotifyBullishFires(ctx context.Context, signals []domain.RankedSignal) {
	now := time.Now()
	for _, sig := range signals {
		if sig.Score < n.minScore {
			continue
		}
		if !n.shouldNotify(sig.Symbol, now) {
			continue
		}

		title := fmt.Sprintf("Squeeze fired: %s", sig.Symbol)
		body := fmt.Sprintf("%s fired GREEN, score %.1f, momentum %+.2f after %d bars in squeeze",
			sig.Symbol, sig.Score, sig.Momentum, sig.BarsInCompression)
		data := map[string]string{
			"symbol": sig.Symbol,
			"score":  fmt.Sprintf("%.1f", sig.Score),
			"status": string(domain.StatusFiredGreen),
		}

		if err := n.sender.SendToTopic(ctx, n.topic, title, body, data); err != nil {
			n.log.Warn().Str("symbol", sig.Symbol).Err(err).Msg("alert send failed")
			n.clear(sig.Symbol)
			continue
		}
		n.log.Info().Str("symbol", sig.Symbol).Float64("score", sig.Score).Msg("alert sent")
	}
}

// shouldNotify records the send time and reports whether the symbol is
// outside its cooldown window. Stale entries are pruned on the way through.
func (n *Notifier) shouldNotify(symbol string, now time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for sym, at := range n.lastSent {
		if now.Sub(at) > n.cooldown {
			delete(n.lastSent, sym)
		}
	}

	if at, ok := n.lastSent[symbol]; ok && now.Sub(at) <= n.cooldown {
		return false
	}
	n.lastSent[symbol] = now
	return true
}

func (n *Notifier) clear(symbol string) {
	n.mu.Lock()
	delete(n.lastSent, symbol)
	n.mu.Unlock()
}
