// Package render builds the results-area markup from a computed
// TimeBreakdown. The quote line is rendered separately so a quote failure
// can never blank an already-rendered results block.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"precioustime/internal/models"
)

const resultsTemplateText = `
<p>Based on the latest data, average life expectancy for {{.CountryName}} ({{.SexLabel}}) is around <strong>{{fmt1 .Breakdown.LifeExpectancy}} years</strong>.</p>
<p>At age {{.Breakdown.CurrentAge}}, you have approximately <strong>{{fmt1 .Breakdown.YearsRemaining}} years</strong> remaining based on this average.</p>
{{if .Breakdown.Surpassed}}
<p>According to the averages, you have reached or surpassed the average life expectancy for your selection. Every day is a bonus!</p>
{{else}}
<p>That is about <strong>{{whole .Breakdown.TotalDays}} days</strong>, or <strong>{{whole .Breakdown.TotalHours}} hours</strong>.</p>
<p>Spending <strong>{{trim .Breakdown.DailyWorryHours}} hours</strong> worrying daily could accumulate to roughly <strong>{{whole .Breakdown.TotalWorryHours}} hours</strong> ({{fmt1 .Breakdown.TotalWorryYears}} years) over that remaining time.</p>
<p>That worry time represents approximately <strong>{{fmt1 .Breakdown.WorryPercentage}}%</strong> of your potential remaining <em>waking</em> hours.</p>
<p>Your potential effective time remaining (total minus worry time) is estimated at <strong>{{whole .Breakdown.EffectiveHours}} hours</strong> ({{fmt1 .Breakdown.EffectiveYears}} years).</p>
{{if ge .Breakdown.TotalWorryYears 1.0}}
<p>With {{fmt1 .Breakdown.TotalWorryYears}} years of worry time you could instead:</p>
<ul>
	<li>Learn several new languages</li>
	<li>Walk the length of a continent</li>
	<li>Read a few hundred books</li>
	<li>Master a musical instrument</li>
</ul>
{{end}}
{{end}}
`

// ResultsData is everything the results fragment needs
type ResultsData struct {
	Breakdown   models.TimeBreakdown
	CountryName string
	SexLabel    string
}

var resultsTemplate = template.Must(
	template.New("results").Funcs(template.FuncMap{
		"fmt1":  formatOneDecimal,
		"whole": formatGrouped,
		"trim":  formatTrimmed,
	}).Parse(resultsTemplateText))

// Results renders the results block for a breakdown. sexCode is the wire
// code; it is mapped to its display label here.
func Results(b models.TimeBreakdown, countryName, sexCode string) (template.HTML, error) {
	data := ResultsData{
		Breakdown:   b,
		CountryName: countryName,
		SexLabel:    models.SexLabel(sexCode),
	}

	var buf bytes.Buffer
	if err := resultsTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render results: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ErrorMessage renders a failure message into the results area
func ErrorMessage(message string) template.HTML {
	return template.HTML(`<p class="error">` + template.HTMLEscapeString(message) + `</p>`)
}

// QuoteUnavailableText is shown in the quote area when the fetch fails
const QuoteUnavailableText = "Could not fetch a quote at this time."

// QuoteLine formats a fetched quote for the quote area
func QuoteLine(q models.Quote) template.HTML {
	text := template.HTMLEscapeString(q.Text)
	author := template.HTMLEscapeString(q.Author)
	return template.HTML(fmt.Sprintf(`<blockquote>&ldquo;%s&rdquo; &mdash; %s</blockquote>`, text, author))
}

// formatOneDecimal renders a float with exactly one decimal place
func formatOneDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// formatTrimmed renders a float with trailing zeros removed (2 not 2.0)
func formatTrimmed(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatGrouped rounds to a whole number and inserts thousands separators,
// matching how the hour figures read on the page.
func formatGrouped(f float64) string {
	n := int64(math.Round(f))
	negative := n < 0
	if negative {
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var buf bytes.Buffer
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			buf.WriteByte(',')
		}
		buf.WriteRune(d)
	}
	if negative {
		return "-" + buf.String()
	}
	return buf.String()
}
