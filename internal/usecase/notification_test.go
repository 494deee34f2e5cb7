package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squeeze-scanner/internal/domain"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendToTopic(_ context.Context, _, _, _ string, data map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data["symbol"])
	return nil
}

func bullish(symbol string, score float64) domain.RankedSignal {
	return domain.RankedSignal{
		Verdict: domain.Verdict{Symbol: symbol, Fired: true, FireDirection: domain.FireGreen},
		Score:   score,
	}
}

func TestNotifierFiltersByScore(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, "squeeze-fires", 50, time.Hour, zerolog.Nop())

	n.NotifyBullishFires(context.Background(), []domain.RankedSignal{
		bullish("HIGH", 80),
		bullish("LOW", 20),
	})

	assert.Equal(t, []string{"HIGH"}, sender.sent)
}

func TestNotifierCooldownSuppressesRepeats(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, "squeeze-fires", 0, time.Hour, zerolog.Nop())

	signals := []domain.RankedSignal{bullish("NVDA", 90)}
	n.NotifyBullishFires(context.Background(), signals)
	n.NotifyBullishFires(context.Background(), signals)

	require.Len(t, sender.sent, 1)
}

func TestNotifierRetriesAfterSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("fcm unavailable")}
	n := NewNotifier(sender, "squeeze-fires", 0, time.Hour, zerolog.Nop())

	signals := []domain.RankedSignal{bullish("NVDA", 90)}
	n.NotifyBullishFires(context.Background(), signals)
	assert.Empty(t, sender.sent)

	// A failed send must not burn the cooldown slot.
	sender.err = nil
	n.NotifyBullishFires(context.Background(), signals)
	assert.Equal(t, []string{"NVDA"}, sender.sent)
}
