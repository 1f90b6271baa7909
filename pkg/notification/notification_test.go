package notification

import (
	"net/smtp"
	"testing"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	messages []string
}

func (r *recorder) Notify(text string) {
	r.messages = append(r.messages, text)
}

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func closeAt(hour int, close float64) core.Record {
	return core.Bar(base.Add(time.Duration(hour)*time.Hour), close, close, close, close)
}

func TestAlerts_Crosses(t *testing.T) {
	rec := &recorder{}
	alerts := NewAlerts("BTCUSDT", []float64{110, 100}, WithNotifier(rec))
	require.Equal(t, []float64{100, 110}, alerts.Levels())

	// reference only
	require.NoError(t, alerts.Push(closeAt(0, 95)))
	require.Empty(t, rec.messages)

	// through both levels at once
	require.NoError(t, alerts.Push(closeAt(1, 111)))
	require.Len(t, rec.messages, 2)
	require.Equal(t, "BTCUSDT closed above $100.00 at $111.00 (2024-01-01 01:00)", rec.messages[0])
	require.Contains(t, rec.messages[1], "above $110.00")

	// same close, and staying above, notify nothing
	require.NoError(t, alerts.Push(closeAt(2, 111)))
	require.NoError(t, alerts.Push(closeAt(3, 115)))
	require.Len(t, rec.messages, 2)

	require.NoError(t, alerts.Push(closeAt(4, 105)))
	require.Len(t, rec.messages, 3)
	require.Contains(t, rec.messages[2], "below $110.00")
}

func TestAlerts_TouchCountsOnce(t *testing.T) {
	rec := &recorder{}
	alerts := NewAlerts("ETH", []float64{100}, WithNotifier(rec))

	require.NoError(t, alerts.Push(core.Point(base, 99)))
	require.NoError(t, alerts.Push(core.Point(base.Add(time.Hour), 100)))
	require.NoError(t, alerts.Push(core.Point(base.Add(2*time.Hour), 101)))
	require.Len(t, rec.messages, 1)
}

func TestAlerts_InvalidRecord(t *testing.T) {
	alerts := NewAlerts("ETH", []float64{100})
	err := alerts.Push(core.Record{Time: base, Fields: core.FieldTime | core.FieldVolume})
	require.ErrorIs(t, err, core.ErrInvalidRecord)
}

func TestLevelsMessage(t *testing.T) {
	require.Equal(t, "No levels watched.", levelsMessage(nil))
	require.Equal(t, "*LEVELS BTC*\n$1.50K\n$2.00K\n", levelsMessage(NewAlerts("BTC", []float64{2000, 1500})))
}

func TestMail_Notify(t *testing.T) {
	m := NewMail(nil, MailParams{SMTPServerPort: 587, SMTPServerAddress: "smtp.example.com", To: "me@example.com", From: "bot@example.com"})

	var addr string
	var body []byte
	m.send = func(a string, _ smtp.Auth, from string, to []string, msg []byte) error {
		addr, body = a, msg
		require.Equal(t, "bot@example.com", from)
		require.Equal(t, []string{"me@example.com"}, to)
		return nil
	}

	m.Notify("crossed")
	require.Equal(t, "smtp.example.com:587", addr)
	require.Contains(t, string(body), "Subject: Price alert\r\n\r\ncrossed\r\n")
}
