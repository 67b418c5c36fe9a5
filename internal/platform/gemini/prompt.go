package gemini

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/Moktur/N-LanguagesAI/internal/generation"
)

const defaultPromptTemplate = `You are a translator helping a language learner.
Translate the sentence below from the language with tag "{{.SourceLang}}" into the language with tag "{{.TargetLang}}".
Keep the meaning, register and punctuation. Do not explain anything.
Answer with JSON only, in the form {"translation": "<translated sentence>"}.

Sentence:
{{.Text}}
`

// promptData represents the data passed to the prompt template
type promptData struct {
	Text       string
	SourceLang string
	TargetLang string
}

// ResponseSchema is the JSON object the model is asked to return.
type ResponseSchema struct {
	Translation string `json:"translation"`
}

// loadTemplate parses the template at path, or the built-in one when path
// is empty.
func loadTemplate(path string) (*template.Template, error) {
	content := defaultPromptTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(raw)
	}

	tmpl, err := template.New("translation").Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

func renderPrompt(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
