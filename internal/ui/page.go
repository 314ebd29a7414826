package ui

import (
	"html/template"

	"infant-care-log/internal/engine"
)

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="{{.AutoRefresh}}">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/purecss@3.0.0/build/pure-min.css">
<style>
.right { text-align: right; }
.center { text-align: center; margin: 1em 0; }
.buttons div { margin: .5em 0; }
.highlights { width: 100%; }
</style>
</head>
<body>
<form method="post" action="/controls">
<input type="hidden" name="controls" value="1">
{{if .Loading}}
<p class="center">Loading…</p>
{{else}}
<h3 class="right">
<span>Refreshed at {{.RefreshedAt}}</span>
<button class="refresh pure-button" formaction="/refresh">↻</button>
</h3>
<table class="highlights pure-table pure-table-horizontal">
{{range .Highlights}}
<tr>
<th>{{.Label}}</th>
<td>
<div>{{.Last}}</div>
{{if .Next}}<small>{{.Next}}</small>{{end}}
</td>
</tr>
{{end}}
</table>
{{end}}
<div class="center">
<span>{{.Shift}} min</span>
<input class="timeshift" name="timeshift" type="range" step="{{.ShiftStep}}" min="{{.ShiftMin}}" max="{{.ShiftMax}}" value="{{.Shift}}">
<button class="pure-button" type="submit">Set</button>
</div>
<div class="buttons right">
{{range .Actions}}
<div>
{{range .Toggles}}
<label><input class="{{.Name}}" name="{{.Name}}" type="checkbox" value="on"{{if .On}} checked{{end}}> {{.Name}}</label>
{{end}}
<button class="{{.Action}} pure-button pure-button-primary" formaction="/actions/{{.Action}}">{{.Label}}</button>
</div>
{{end}}
</div>
</form>
</body>
</html>
`))

type toggleView struct {
	Name string
	On   bool
}

type actionView struct {
	Action  string
	Label   string
	Toggles []toggleView
}

type pageData struct {
	Title       string
	AutoRefresh int

	Loading     bool
	RefreshedAt string
	Highlights  []engine.Highlight

	Shift     int
	ShiftMin  int
	ShiftMax  int
	ShiftStep int

	Actions []actionView
}
