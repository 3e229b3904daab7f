package answer

import (
	"regexp"
	"strings"
)

// The converter is an ordered list of transformation rules applied in a
// fixed sequence. Each rule consumes the syntax it matches, so running the
// whole list over already-converted output changes nothing.
type rule struct {
	name  string
	apply func(string) string
}

func regexRule(name, pattern, repl string) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, apply: func(s string) string {
		return re.ReplaceAllString(s, repl)
	}}
}

const (
	h1Style    = `font-size:20px;font-weight:bold;margin:14px 0 8px;`
	h2Style    = `font-size:18px;font-weight:bold;margin:12px 0 6px;`
	h3Style    = `font-size:16px;font-weight:bold;margin:10px 0 4px;`
	preStyle   = `background:#1f2937;color:#f9fafb;padding:12px;border-radius:6px;overflow-x:auto;`
	codeStyle  = `background:#f3f4f6;padding:2px 4px;border-radius:4px;font-family:monospace;`
	listStyle  = `margin:8px 0;padding-left:24px;`
	itemStyle  = `margin:4px 0;`
	paraStyle  = `margin:8px 0;line-height:1.6;`
	tableStyle = `border-collapse:collapse;width:100%;margin:8px 0;`
	thStyle    = `border:1px solid #d1d5db;padding:6px 10px;background:#f3f4f6;text-align:left;`
	tdStyle    = `border:1px solid #d1d5db;padding:6px 10px;`
)

var formatRules = []rule{
	regexRule("fenced code", "(?s)```[a-zA-Z]*\n?(.*?)```",
		`<pre style="`+preStyle+`"><code>$1</code></pre>`),
	regexRule("h3", `(?m)^### (.+)$`, `<h3 style="`+h3Style+`">$1</h3>`),
	regexRule("h2", `(?m)^## (.+)$`, `<h2 style="`+h2Style+`">$1</h2>`),
	regexRule("h1", `(?m)^# (.+)$`, `<h1 style="`+h1Style+`">$1</h1>`),
	regexRule("inline code", "`([^`\n]+)`", `<code style="`+codeStyle+`">$1</code>`),
	{name: "tables", apply: convertTables},
	{name: "ordered lists", apply: convertOrderedLists},
	{name: "unordered lists", apply: convertUnorderedLists},
	{name: "paragraphs", apply: convertParagraphs},
	{name: "line breaks", apply: func(s string) string { return strings.ReplaceAll(s, "\n", "<br>") }},
}

// FormatHTML converts the model's markdown subset into inline-styled markup.
// Pure and deterministic; safe to run twice.
func FormatHTML(s string) string {
	for _, r := range formatRules {
		s = r.apply(s)
	}
	return strings.TrimSpace(s)
}

// Leading filler the model produces despite instructions. Anchored at the
// start, and each match must end at a sentence, colon or line boundary so
// the strip stops at the filler clause: this trims, it never rewrites
// mid-text.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:okay|ok)[,.!]?\s+i understand[^\n.:]*[.!:\n]\s*`),
	regexp.MustCompile(`(?i)^\s*i will answer[^\n.:]*[.!:\n]\s*`),
	regexp.MustCompile(`(?i)^\s*sure[,.!]?\s+here(?:'s| is)[^\n.:]*[.!:\n]\s*`),
	regexp.MustCompile(`(?i)^\s*here(?:'s| is) (?:the|your) answer[^\n.:]*[.!:\n]\s*`),
	regexp.MustCompile(`(?i)^\s*as an ai(?: language)? model[^\n.:]*[.!:\n]\s*`),
	regexp.MustCompile("^\\s*```(?:html)?[ \t]*\n"),
}

var trailingFence = regexp.MustCompile("\n?```\\s*$")

// StripFiller removes boilerplate prefixes (and a dangling closing fence)
// from raw model output. Patterns are retried until none match, since the
// model sometimes stacks two fillers.
func StripFiller(s string) string {
	for {
		trimmed := false
		for _, re := range fillerPatterns {
			if loc := re.FindStringIndex(s); loc != nil && loc[0] == 0 && loc[1] > 0 {
				s = s[loc[1]:]
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}
	return trailingFence.ReplaceAllString(s, "")
}

// WrapQA pairs the original query with the formatted answer in a labeled
// display block, ready to append to note content.
func WrapQA(query, answerHTML string) string {
	var b strings.Builder
	b.WriteString(`<div style="margin:16px 0;padding:12px;border-left:4px solid #6366f1;background:#f9fafb;">`)
	b.WriteString(`<p style="margin:0 0 8px;"><strong>Question: </strong>`)
	b.WriteString(query)
	b.WriteString(`</p><div><strong>Answer: </strong>`)
	b.WriteString(answerHTML)
	b.WriteString(`</div></div>`)
	return b.String()
}

func convertTables(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for i := 0; i < len(lines); {
		if !isTableRow(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		j := i
		for j < len(lines) && isTableRow(lines[j]) {
			j++
		}
		if j-i < 2 {
			out = append(out, lines[i])
			i++
			continue
		}
		out = append(out, renderTable(lines[i:j]))
		i = j
	}
	return strings.Join(out, "\n")
}

func isTableRow(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "|") && strings.Count(t, "|") >= 2
}

func splitCells(line string) []string {
	t := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(t, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

var separatorCell = regexp.MustCompile(`^:?-+:?$`)

func isSeparatorRow(line string) bool {
	cells := splitCells(line)
	for _, c := range cells {
		if !separatorCell.MatchString(c) {
			return false
		}
	}
	return len(cells) > 0
}

func renderTable(rows []string) string {
	var b strings.Builder
	b.WriteString(`<table style="` + tableStyle + `">`)

	body := rows
	if len(rows) >= 2 && isSeparatorRow(rows[1]) {
		b.WriteString("<thead><tr>")
		for _, c := range splitCells(rows[0]) {
			b.WriteString(`<th style="` + thStyle + `">` + c + `</th>`)
		}
		b.WriteString("</tr></thead>")
		body = rows[2:]
	}

	b.WriteString("<tbody>")
	for _, row := range body {
		b.WriteString("<tr>")
		for _, c := range splitCells(row) {
			b.WriteString(`<td style="` + tdStyle + `">` + c + `</td>`)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

var orderedItem = regexp.MustCompile(`^\s*\d+\.\s+(.*)$`)
var unorderedItem = regexp.MustCompile(`^\s*\*\s+(.*)$`)

func convertOrderedLists(s string) string {
	return convertLists(s, orderedItem, "ol")
}

func convertUnorderedLists(s string) string {
	return convertLists(s, unorderedItem, "ul")
}

// convertLists groups consecutive matching lines into one list element,
// emitted as a single line so later rules treat it as a block.
func convertLists(s string, item *regexp.Regexp, tag string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for i := 0; i < len(lines); {
		if !item.MatchString(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		var b strings.Builder
		b.WriteString(`<` + tag + ` style="` + listStyle + `">`)
		for i < len(lines) && item.MatchString(lines[i]) {
			m := item.FindStringSubmatch(lines[i])
			b.WriteString(`<li style="` + itemStyle + `">` + m[1] + `</li>`)
			i++
		}
		b.WriteString(`</` + tag + `>`)
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

var blockTags = []string{"<p", "<h1", "<h2", "<h3", "<ul", "<ol", "<table", "<pre", "<div"}

func startsWithBlockTag(s string) bool {
	for _, t := range blockTags {
		if strings.HasPrefix(s, t) {
			return true
		}
	}
	return false
}

// convertParagraphs treats double newlines as paragraph breaks. Segments
// that are already block elements pass through unwrapped.
func convertParagraphs(s string) string {
	segs := regexp.MustCompile(`\n{2,}`).Split(s, -1)
	var b strings.Builder
	for _, seg := range segs {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if startsWithBlockTag(seg) {
			b.WriteString(seg)
			continue
		}
		b.WriteString(`<p style="` + paraStyle + `">` + seg + `</p>`)
	}
	return b.String()
}
