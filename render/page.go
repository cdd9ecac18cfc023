package render

import (
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Weather Dashboard</title>
</head>
<body>
<header>
  <h1>Weather Dashboard</h1>
  <form method="get" action="/">
    <input name="city" placeholder="Search city" value="{{.Query.City}}">
  </form>
  <p>Units: {{.Query.Unit}}</p>
</header>

<section id="current-weather">
{{with .Current}}{{if .Error}}<div class="error">{{.Error}}</div>{{else if .View}}{{with .View}}
  <h2>{{.Title}} {{if .IsFavorite}}&#9733;{{else}}&#9734;{{end}}</h2>
  <img src="{{.IconURL}}" alt="{{.Description}}">
  <div class="temperature">{{.Temperature}}</div>
  <div class="description">{{.Description}}</div>
  <div>H: {{.High}} L: {{.Low}}</div>
  <dl>
    <dt>Feels Like</dt><dd>{{.FeelsLike}}</dd>
    <dt>Humidity</dt><dd>{{.Humidity}}</dd>
    <dt>Wind</dt><dd>{{.Wind}}</dd>
    <dt>Visibility</dt><dd>{{.Visibility}}</dd>
  </dl>
{{end}}{{end}}{{end}}
</section>

<section id="forecast">
{{with .Forecast}}{{if .Error}}<div class="error">{{.Error}}</div>{{else}}{{range .View}}
  <div class="card">
    <div>{{.Day}}</div><div>{{.Date}}</div>
    <img src="{{.IconURL}}" alt="{{.Description}}">
    <div>{{.Temperature}}</div><div>{{.Description}}</div>
    <div>H: {{.High}} L: {{.Low}}</div>
  </div>
{{end}}{{end}}{{end}}
</section>

<section id="hourly">
{{with .Hourly.View}}
  <table>
    <caption>{{.SeriesLabel}}</caption>
    <tr>{{range .Labels}}<th>{{.}}</th>{{end}}</tr>
    <tr>{{range .Temperatures}}<td>{{.}}</td>{{end}}</tr>
  </table>
{{end}}
</section>

<section id="air-quality">
{{with .AirQuality}}{{if .Error}}<div class="error">{{.Error}}</div>{{else if .View}}{{with .View}}
  <div class="{{.Color}}">{{.Level}}</div>
  <p>{{.Description}}</p>
  <dl>{{range .Pollutants}}<dt>{{.Label}}</dt><dd>{{.Value}}</dd>{{end}}</dl>
{{end}}{{end}}{{end}}
</section>

<section id="favorites">
  <ul>{{range .Favorites.View}}<li><a href="/?city={{.}}">{{.}}</a></li>{{end}}</ul>
</section>
</body>
</html>
`))

// Page writes the HTML dashboard for the snapshot
func Page(w io.Writer, snap Snapshot) error {
	return pageTemplate.Execute(w, snap)
}
