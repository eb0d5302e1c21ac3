package ai

import (
	"strings"
	"text/template"

	"google.golang.org/genai"
)

// prompt is a fixed template whose response is an object with a single string field.
type prompt struct {
	name        string
	tmpl        *template.Template
	field       string
	description string
}

func newPrompt(name, text, field, description string) prompt {
	return prompt{
		name:        name,
		tmpl:        template.Must(template.New(name).Parse(text)),
		field:       field,
		description: description,
	}
}

func (p prompt) render(logs string) (string, error) {
	var b strings.Builder
	if err := p.tmpl.Execute(&b, struct{ Logs string }{Logs: logs}); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (p prompt) schema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			p.field: {Type: genai.TypeString, Description: p.description},
		},
		Required: []string{p.field},
	}
}

var onboardingTipsPrompt = newPrompt("generateOnboardingTipsPrompt",
	`You are an AI assistant designed to provide personalized onboarding tips to users based on their system activity logs.

Analyze the following system activity logs and provide helpful tips to help the user get the most out of the Nova Sync application:

System Activity Logs: {{.Logs}}
`,
	"tips",
	"Personalized onboarding tips based on system activity logs.",
)

var activitySummaryPrompt = newPrompt("summarizeSystemActivityPrompt",
	`You are an AI assistant that summarizes system activity logs.

Summarize the following system activity logs:

{{.Logs}}`,
	"summary",
	"A summary of recent system activity.",
)
