package triage

import "github.com/mediqhq/mediq/pkg/tmpl"

const responseTemplate = `Based on your symptoms, you may have **{{ .Best.Name }}**.

**Matched symptoms ({{ len .Best.MatchedSymptoms }}/{{ .Best.TotalSymptoms }}):**
{{ range .Best.MatchedSymptoms }}- {{ . }}
{{ end }}
**Recommended precautions:**
{{ range .Best.Precautions }}- {{ . }}
{{ end }}{{ if .Others }}
**Other possible conditions:**
{{ range .Others }}- {{ .Name }} (score: {{ printf "%.3f" .Score }})
{{ end }}{{ end }}
*Note: This is an automated assessment. Please consult a healthcare professional for proper diagnosis and treatment.*`

// renderResponse formats a diagnosis as the markdown the assistant presents.
func renderResponse(d diagnosis) (string, error) {
	data := struct {
		Best   candidate
		Others []candidate
	}{
		Best:   d.Candidates[0],
		Others: d.Candidates[1:],
	}
	return tmpl.Render(responseTemplate, data)
}
