package notify

import (
	"fmt"
	"html/template"
	"sitepulse/internals/modules/report"
	"strings"
	"time"
)

const (
	colorPass  = "#2eb886"
	colorFail  = "#d00000"
	colorError = "#8b0000"
)

func statusColor(status report.Status) string {
	switch status {
	case report.StatusPass:
		return colorPass
	case report.StatusError:
		return colorError
	default:
		return colorFail
	}
}

// outcomeLine is one check formatted for the plain-text body and the chat
// field values. Example: "HTTP 200, 134ms - Website is accessible".
func outcomeLine(o report.Outcome) string {
	var parts []string

	if o.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", o.StatusCode))
	}
	if o.ResponseTime != 0 {
		parts = append(parts, fmt.Sprintf("%dms", o.ResponseTime.Milliseconds()))
	}

	line := strings.Join(parts, ", ")
	if o.Details != "" {
		if line != "" {
			line += " - "
		}
		line += o.Details
	}
	if o.Err != "" {
		line += " [" + o.Err + "]"
	}
	if line == "" {
		line = "no result"
	}
	return line
}

func renderText(rep *report.CycleReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Site monitoring report - %s\n", rep.OverallStatus)
	fmt.Fprintf(&sb, "Time: %s\n\n", rep.Timestamp.Format(time.RFC1123))

	for _, o := range rep.Outcomes {
		icon := "FAIL"
		if o.Passed {
			icon = "OK"
		}
		fmt.Fprintf(&sb, "[%s] %s: %s\n", icon, o.Name.Title(), outcomeLine(o))
		if o.FinalURL != "" && o.FinalURL != o.TestedURL {
			fmt.Fprintf(&sb, "      %s -> %s\n", o.TestedURL, o.FinalURL)
		}
	}

	if rep.Err != "" {
		fmt.Fprintf(&sb, "\nCycle error: %s\n", rep.Err)
	}
	fmt.Fprintf(&sb, "\nFailed checks: %d\n", rep.FailureCount())

	return sb.String()
}

var emailTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2 style="color: {{.Color}};">Site monitoring report: {{.Status}}</h2>
  <p>{{.Timestamp}}</p>
  <table cellpadding="6" cellspacing="0" border="0">
    {{range .Rows}}
    <tr>
      <td>{{.Icon}}</td>
      <td><b>{{.Title}}</b></td>
      <td>{{.Line}}</td>
    </tr>
    {{if .Redirect}}
    <tr><td></td><td></td><td style="color:#777;">{{.Redirect}}</td></tr>
    {{end}}
    {{end}}
  </table>
  {{if .Err}}<p style="color: #d00000;">Cycle error: {{.Err}}</p>{{end}}
  <p>Failed checks: {{.Failures}}</p>
</body>
</html>
`))

type emailRow struct {
	Icon     string
	Title    string
	Line     string
	Redirect string
}

type emailData struct {
	Status    string
	Color     string
	Timestamp string
	Rows      []emailRow
	Err       string
	Failures  int
}

func renderHTML(rep *report.CycleReport) (string, error) {
	data := emailData{
		Status:    string(rep.OverallStatus),
		Color:     statusColor(rep.OverallStatus),
		Timestamp: rep.Timestamp.Format(time.RFC1123),
		Err:       rep.Err,
		Failures:  rep.FailureCount(),
	}

	for _, o := range rep.Outcomes {
		row := emailRow{
			Icon:  "❌",
			Title: o.Name.Title(),
			Line:  outcomeLine(o),
		}
		if o.Passed {
			row.Icon = "✅"
		}
		if o.FinalURL != "" && o.FinalURL != o.TestedURL {
			row.Redirect = fmt.Sprintf("%s -> %s", o.TestedURL, o.FinalURL)
		}
		data.Rows = append(data.Rows, row)
	}

	var sb strings.Builder
	if err := emailTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
