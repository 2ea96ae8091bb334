package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/starter-interlock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"onOff": func(on bool) string {
		if on {
			return "ON"
		}
		return "OFF"
	},
	"yesNo": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
	"volts": func(v float64) string {
		return fmt.Sprintf("%.2fV", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Starter Interlock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Starter Interlock</h1>

<h2>Latch</h2>
<table>
<tr><th>State</th><td class="{{if eq (printf "%s" .Latch) "ACTIVE"}}on{{else}}off{{end}}">{{.Latch}}</td></tr>
<tr><th>Quiet period</th><td>{{yesNo .QuietPeriod}}</td></tr>
</table>

<h2>Interlocks</h2>
<table>
<tr><th>Charging</th><td>{{yesNo .Safety.Charging}} ({{volts .Sample.ChargeVolts}})</td></tr>
<tr><th>Neutral</th><td>{{yesNo .Safety.Neutral}} ({{volts .Sample.NeutralVolts}})</td></tr>
<tr><th>Brake pressed</th><td>{{yesNo .Safety.BrakePressed}} ({{volts .Sample.BrakeVolts}})</td></tr>
</table>

<h2>Outputs</h2>
<table>
<tr><th>Indicator</th><td class="{{if .Commands.Indicator}}on{{else}}off{{end}}">{{onOff .Commands.Indicator}}</td></tr>
<tr><th>Power enable</th><td class="{{if .Commands.PowerEnable}}on{{else}}off{{end}}">{{onOff .Commands.PowerEnable}}</td></tr>
<tr><th>Buzzer</th><td class="{{if .Commands.Buzzer}}on{{else}}off{{end}}">{{onOff .Commands.Buzzer}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} / {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Activations</th><td>{{.Counts.Activations}}</td></tr>
<tr><th>De-latches</th><td>{{.Counts.Delatches}}</td></tr>
<tr><th>Dropped edges</th><td>{{.Counts.DroppedEdges}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Quiet period</th><td>{{.Config.QuietMs}}ms</td></tr>
<tr><th>Buzzer</th><td>{{.Config.BuzzerMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
{{if .Config.Diag}}<tr><th>Diag</th><td>{{.Config.Diag}}</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
