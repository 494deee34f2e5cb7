package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"squeeze-scanner/internal/domain"
)

// Config holds SMTP settings for the fire report email. DryRun renders the
// report and logs it without connecting to the server.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	DryRun   bool
}

// Mailer sends the weekly bullish fire report as an HTML email.
type Mailer struct {
	cfg Config
	log zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

var reportTmpl = template.Must(template.New("report").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
<h2>Squeeze fires for week ending {{.WeekEnding}}</h2>
<p>{{len .Signals}} bullish squeeze fire(s) detected on the {{.Timeframe}} timeframe.</p>
<table border="1" cellpadding="6" cellspacing="0">
<tr>
  <th>Ticker</th><th>Sector</th><th>Score</th><th>Momentum</th>
  <th>Weeks in squeeze</th><th>Price</th><th>Change</th>
</tr>
{{range .Signals}}
<tr>
  <td><b>{{.Symbol}}</b></td>
  <td>{{.Sector}}</td>
  <td>{{printf "%.1f" .Score}}</td>
  <td>{{printf "%+.2f" .Momentum}}</td>
  <td>{{.BarsInCompression}}</td>
  <td>{{printf "%.2f" .CurrentPrice}}</td>
  <td>{{printf "%+.2f%%" .PeriodChangePct}}</td>
</tr>
{{end}}
</table>
<p style="color: #888; font-size: 12px;">Generated {{.GeneratedAt}}. Not investment advice.</p>
</body>
</html>`))

type reportData struct {
	WeekEnding  string
	Timeframe   string
	GeneratedAt string
	Signals     []domain.RankedSignal
}

// SendFireReport emails the bullish fires ranked by score. Nothing is sent
// when the bucket is empty.
func (m *Mailer) SendFireReport(result *domain.ScanResult) error {
	if len(result.FiredBullish) == 0 {
		m.log.Info().Msg("no bullish fires, skipping email")
		return nil
	}

	signals := make([]domain.RankedSignal, len(result.FiredBullish))
	copy(signals, result.FiredBullish)
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].Score != signals[j].Score {
			return signals[i].Score > signals[j].Score
		}
		return signals[i].Symbol < signals[j].Symbol
	})

	var body bytes.Buffer
	err := reportTmpl.Execute(&body, reportData{
		WeekEnding:  result.ScannedAt.Format("2006-01-02"),
		Timeframe:   result.Timeframe,
		GeneratedAt: result.ScannedAt.Format("2006-01-02 15:04 MST"),
		Signals:     signals,
	})
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	subject := fmt.Sprintf("Squeeze scanner: %d bullish fire(s) - %s",
		len(signals), result.ScannedAt.Format("Jan 2, 2006"))

	if m.cfg.DryRun {
		m.log.Info().Str("subject", subject).Int("signals", len(signals)).Msg("dry run, email not sent")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	m.log.Info().Int("signals", len(signals)).Strs("to", m.cfg.To).Msg("fire report sent")
	return nil
}
