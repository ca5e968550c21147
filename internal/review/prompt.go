package review

import (
	"bytes"
	"text/template"
)

var completionPromptTmpl = template.Must(template.New("completion").Parse(`Write the missing body for the following interview knowledge item.

Title: {{.Title}}
Category: {{.Category}}

Write a high-quality answer of 200-500 words, then return a JSON object with these fields:
1. suggestedContent: the answer you wrote (required)
2. categoryScore: how well the answer fits the category (0-100)
3. contentStatus: always "perfect" for newly written content
4. contentStatusLabel: a short label such as "AI completed content" (max 20 characters)
5. suggestions: notes or advice about the content
6. shouldUpdate: false
7. suggestedCategory: null unless a different category fits better
8. suggestedTitle: null unless the title should change

Return only the JSON object and no other text.`))

var reviewPromptTmpl = template.Must(template.New("review").Parse(`Review the following interview knowledge item and suggest improvements.

Title: {{.Title}}
Category: {{.Category}}

Content:
{{.Content}}

Return a JSON object with these fields:
1. categoryScore: how well the content fits the category (0-100)
2. contentStatus: one of "unclear" (not detailed), "outdated", "needs-update", "fresh", "perfect" (interview ready)
3. contentStatusLabel: a short label (max 20 characters)
4. suggestions: concrete improvement advice
5. shouldUpdate: whether the content should be updated (boolean)
6. suggestedCategory: a better category name when categoryScore is below 60, otherwise null
7. suggestedContent: improved content when changes are needed, otherwise null
8. suggestedTitle: improved title when a change is recommended, otherwise null

Return only the JSON object and no other text.`))

type promptData struct {
	Title    string
	Category string
	Content  string
}

func renderPrompt(mode Mode, d promptData) (string, error) {
	tmpl := reviewPromptTmpl
	if mode == ModeCompletion {
		tmpl = completionPromptTmpl
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
