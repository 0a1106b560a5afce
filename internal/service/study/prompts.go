package study

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").
	Funcs(template.FuncMap{
		"join":  strings.Join,
		"hours": func(h float64) string { return strconv.FormatFloat(h, 'f', -1, 64) },
	}).
	ParseFS(promptFS, "prompts/*.tmpl"))

func renderPrompt(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func flashcardPrompt(topic string) (string, error) {
	return renderPrompt("flashcards.tmpl", struct{ Topic string }{topic})
}

func planPrompt(topics []string, hours float64) (string, error) {
	return renderPrompt("plan.tmpl", struct {
		Topics []string
		Hours  float64
	}{topics, hours})
}

func doubtPrompt(question string) (string, error) {
	return renderPrompt("doubt.tmpl", struct{ Question string }{question})
}
