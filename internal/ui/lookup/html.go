package lookup

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const listboxHTML = `<ul id="{{.ID}}" role="listbox" class="rc-location-lookup__dropdown{{if .Visible}} rc-location-lookup__dropdown-visible{{end}}">
{{- range .Rows}}
<li id="{{.ID}}" role="option" tabindex="-1" aria-selected="{{.AriaSelected}}" class="rc-location-lookup__dropdown-item{{if .Focused}} rc-location-lookup__dropdown-item-focused{{end}}">
{{- if .Indicator}}<div class="rc-location-lookup__place rc-location-lookup__place-{{lower .Indicator}}">{{.Indicator}}</div>{{end -}}
<div class="rc-location-lookup__description-container"><div>{{.Title.Prefix}}{{if .Title.Match}}<mark>{{.Title.Match}}</mark>{{end}}{{.Title.Suffix}}</div><div class="rc-location-lookup__location-line">{{.Location}}</div></div></li>
{{- end}}
</ul>
`

var listboxTemplate = template.Must(template.New("listbox").
	Funcs(template.FuncMap{"lower": strings.ToLower}).
	Parse(listboxHTML))

// RenderHTML emits the listbox markup for rows. Text is HTML-escaped; the
// matched part of each title is wrapped in <mark>.
func RenderHTML(listboxID string, rows []Row, visible bool) (string, error) {
	var buf bytes.Buffer
	err := listboxTemplate.Execute(&buf, struct {
		ID      string
		Visible bool
		Rows    []Row
	}{listboxID, visible, rows})
	if err != nil {
		return "", fmt.Errorf("render listbox: %w", err)
	}
	return buf.String(), nil
}
