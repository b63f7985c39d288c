package assemble

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

// renderData is the shape exposed to both templates, per spec §4.6 step 4's
// template variables: groups, date (in user tz), generated_at.
type renderData struct {
	Groups      []groupView
	Date        string
	GeneratedAt string
}

// groupView flattens an entity.ArticleGroup into template-friendly fields.
type groupView struct {
	PrimaryTitle     string
	PrimaryURL       string
	PrimaryAuthor    string
	PrimarySummary   string
	PrimaryPublished string
	AggregatedTopics []string
	RelatedCount     int
	RelatedTitles    []string
}

const htmlDigestTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your digest — {{.Date}}</title>
<style type="text/css">
  body { margin:0; padding:0; background-color:#f8fafc; font-family: system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif; color:#1e293b; line-height:1.6; }
  .container { max-width:640px; margin:0 auto; background-color:#ffffff; border:1px solid #e2e8f0; border-radius:8px; overflow:hidden; }
  .header { background-color:#2563eb; color:#ffffff; padding:24px; text-align:center; }
  .header h1 { margin:0; font-size:22px; font-weight:600; }
  .header .date { margin:8px 0 0 0; font-size:14px; opacity:0.9; }
  .content { padding:24px; }
  .article-card { background-color:#f8fafc; border:1px solid #e2e8f0; border-radius:6px; padding:18px; margin:14px 0; }
  .article-title { font-size:17px; font-weight:600; margin:0 0 8px 0; }
  .article-title a { color:#1e293b; text-decoration:none; }
  .article-summary { font-size:15px; margin:0 0 10px 0; }
  .article-meta { font-size:12px; color:#64748b; }
  .topics { margin-top:8px; }
  .topic-pill { display:inline-block; background-color:#e0f2fe; color:#0369a1; border-radius:999px; padding:2px 10px; font-size:12px; margin:2px 4px 2px 0; }
  .related { font-size:13px; color:#64748b; margin-top:8px; }
  .footer { background-color:#f1f5f9; padding:16px 24px; text-align:center; font-size:13px; color:#64748b; }
</style>
</head>
<body>
<table role="presentation" cellspacing="0" cellpadding="0" border="0" width="100%">
<tr><td align="center">
<div class="container">
  <div class="header">
    <h1>Your digest</h1>
    <p class="date">{{.Date}}</p>
  </div>
  <div class="content">
    {{if .Groups}}
      {{range .Groups}}
      <div class="article-card">
        <h3 class="article-title"><a href="{{.PrimaryURL}}">{{.PrimaryTitle}}</a></h3>
        {{if .PrimarySummary}}<div class="article-summary">{{.PrimarySummary}}</div>{{end}}
        <div class="article-meta">{{if .PrimaryAuthor}}{{.PrimaryAuthor}} · {{end}}{{.PrimaryPublished}}</div>
        {{if .AggregatedTopics}}
        <div class="topics">{{range .AggregatedTopics}}<span class="topic-pill">{{.}}</span>{{end}}</div>
        {{end}}
        {{if .RelatedCount}}
        <div class="related">+ {{.RelatedCount}} related: {{range $i, $t := .RelatedTitles}}{{if $i}}, {{end}}{{$t}}{{end}}</div>
        {{end}}
      </div>
      {{end}}
    {{else}}
      <p>No new articles matched your interests today.</p>
    {{end}}
  </div>
  <div class="footer">Generated {{.GeneratedAt}}</div>
</div>
</td></tr>
</table>
</body>
</html>`

const textDigestTemplate = `Your digest — {{.Date}}
{{if .Groups}}
{{range .Groups}}---
{{.PrimaryTitle}}
{{.PrimaryURL}}
{{if .PrimarySummary}}{{.PrimarySummary}}
{{end}}{{if .PrimaryAuthor}}By {{.PrimaryAuthor}} · {{end}}{{.PrimaryPublished}}
{{if .AggregatedTopics}}Topics: {{range $i, $t := .AggregatedTopics}}{{if $i}}, {{end}}{{$t}}{{end}}
{{end}}{{if .RelatedCount}}+ {{.RelatedCount}} related: {{range $i, $t := .RelatedTitles}}{{if $i}}, {{end}}{{$t}}{{end}}
{{end}}
{{end}}{{else}}
No new articles matched your interests today.
{{end}}
Generated {{.GeneratedAt}}
`

var htmlDigest = htmltemplate.Must(htmltemplate.New("digest-html").Parse(htmlDigestTemplate))
var textDigest = texttemplate.Must(texttemplate.New("digest-text").Parse(textDigestTemplate))
