package monitoring

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"

	"regcheck/pkg/email"
)

const timestampLayout = "2006-01-02 15:04:05 UTC"

var textDigest = template.Must(template.New("digest.txt").Funcs(template.FuncMap{
	"ts":   formatTime,
	"last": formatLast,
}).Parse(`{{.TotalStale}} register check(s) have been pending for longer than {{.Threshold}}.

Jurisdiction  Stale  Oldest pending           Last response
{{range .Rows}}{{printf "%-12s" .JurisdictionCode}}  {{printf "%5d" .StaleCount}}  {{ts .OldestPendingAt}}  {{last .LastResponseAt}}
{{end}}
Generated {{ts .GeneratedAt}}.
`))

var htmlDigest = htmltemplate.Must(htmltemplate.New("digest.html").Funcs(htmltemplate.FuncMap{
	"ts":   formatTime,
	"last": formatLast,
}).Parse(`<p>{{.TotalStale}} register check(s) have been pending for longer than {{.Threshold}}.</p>
<table>
<tr><th>Jurisdiction</th><th>Stale</th><th>Oldest pending</th><th>Last response</th></tr>
{{range .Rows}}<tr><td>{{.JurisdictionCode}}</td><td>{{.StaleCount}}</td><td>{{ts .OldestPendingAt}}</td><td>{{last .LastResponseAt}}</td></tr>
{{end}}</table>
<p>Generated {{ts .GeneratedAt}}.</p>
`))

// RenderDigest builds the digest email body for report. Rows keep the
// report's order.
func RenderDigest(report Report) (email.Message, error) {
	var text, html bytes.Buffer
	if err := textDigest.Execute(&text, report); err != nil {
		return email.Message{}, err
	}
	if err := htmlDigest.Execute(&html, report); err != nil {
		return email.Message{}, err
	}
	return email.Message{
		Subject: subject(report),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func subject(report Report) string {
	return fmt.Sprintf("Pending register checks: %d stale across %d jurisdiction(s)", report.TotalStale(), len(report.Rows))
}

func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timestampLayout)
}

func formatLast(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return formatTime(*t)
}
