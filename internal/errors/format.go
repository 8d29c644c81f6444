package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
	ansiWhite  = "\033[37m"
	ansiBoldRd = ansiBold + ansiRed
)

var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() { colorEnabled = false }

// EnableColors enables ANSI color output.
func EnableColors() { colorEnabled = true }

func paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + ansiReset
}

// Format renders the error as a multi-line terminal report: header,
// route-file snippet when a location is attached, detail, hint,
// example, and documentation link.
func (e *TrellisError) Format() string {
	var b strings.Builder
	b.WriteString("\n")
	e.writeHeader(&b)
	e.writeSnippet(&b)
	e.writeDetail(&b)
	e.writeHint(&b)
	e.writeExample(&b)
	e.writeDocURL(&b)
	return b.String()
}

func (e *TrellisError) writeHeader(b *strings.Builder) {
	b.WriteString(paint(ansiBoldRd, "ERROR "))
	if e.Code != "" {
		b.WriteString(paint(ansiBold+ansiWhite, e.Code+": "))
	}
	b.WriteString(paint(ansiWhite, e.Message))
	b.WriteString("\n\n")
}

// writeSnippet prints the route file location and, when context lines
// were captured, the surrounding source with the offending line marked.
func (e *TrellisError) writeSnippet(b *strings.Builder) {
	if e.Location == nil {
		return
	}
	fmt.Fprintf(b, "  %s\n\n", paint(ansiCyan, e.Location.String()))

	if len(e.Context) == 0 {
		return
	}
	first := e.Location.Line - len(e.Context)/2
	for i, line := range e.Context {
		n := first + i
		if n == e.Location.Line {
			fmt.Fprintf(b, "  %s%4d%s%s\n", paint(ansiRed, "→ "), n, paint(ansiGray, " │ "), line)
			if e.Location.Column > 0 {
				fmt.Fprintf(b, "       %s%s%s\n",
					paint(ansiGray, "│ "),
					strings.Repeat(" ", e.Location.Column-1),
					paint(ansiRed, "^"))
			}
			continue
		}
		fmt.Fprintf(b, "    %4d%s%s\n", n, paint(ansiGray, " │ "), line)
	}
	b.WriteString("\n")
}

func (e *TrellisError) writeDetail(b *strings.Builder) {
	if e.Detail == "" {
		return
	}
	for _, line := range wrapText(e.Detail, 70) {
		fmt.Fprintf(b, "  %s\n", line)
	}
	b.WriteString("\n")
}

func (e *TrellisError) writeHint(b *strings.Builder) {
	if e.Suggestion == "" {
		return
	}
	fmt.Fprintf(b, "  %s%s\n\n", paint(ansiCyan, "Hint: "), e.Suggestion)
}

func (e *TrellisError) writeExample(b *strings.Builder) {
	if e.Example == "" {
		return
	}
	fmt.Fprintf(b, "  %s\n", paint(ansiCyan, "Example:"))
	for _, line := range strings.Split(e.Example, "\n") {
		fmt.Fprintf(b, "    %s\n", line)
	}
	b.WriteString("\n")
}

func (e *TrellisError) writeDocURL(b *strings.Builder) {
	if e.DocURL == "" {
		return
	}
	fmt.Fprintf(b, "  %s%s\n", paint(ansiGray, "Learn more: "), paint(ansiBlue, e.DocURL))
}

// FormatCompact renders the error on a single line, suitable for log
// output and the dev overlay: location, code, message.
func (e *TrellisError) FormatCompact() string {
	var parts []string
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// FormatJSON renders the error as a JSON object.
func (e *TrellisError) FormatJSON() string {
	var loc *jsonLocation
	if e.Location != nil {
		loc = &jsonLocation{e.Location.File, e.Location.Line, e.Location.Column}
	}
	out := struct {
		Code       string        `json:"code,omitempty"`
		Category   Category      `json:"category"`
		Message    string        `json:"message"`
		Detail     string        `json:"detail,omitempty"`
		Location   *jsonLocation `json:"location,omitempty"`
		Suggestion string        `json:"suggestion,omitempty"`
		DocURL     string        `json:"docUrl,omitempty"`
	}{e.Code, e.Category, e.Message, e.Detail, loc, e.Suggestion, e.DocURL}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText word-wraps text to at most width characters per line.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+1+len(word) > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// PrintError writes err to stderr, using the full report when err is
// (or wraps) a TrellisError.
func PrintError(err error) {
	var te *TrellisError
	if stderrors.As(err, &te) {
		fmt.Fprint(os.Stderr, te.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\n%s %s\n\n", paint(ansiBoldRd, "ERROR"), err.Error())
}
