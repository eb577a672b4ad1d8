package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "hello {{ .Name }}",
			data: map[string]string{"Name": "world"},
			want: "hello world",
		},
		{
			name: "multiple variables",
			tmpl: "You asked: {{ .Query }} ({{ .Session }})",
			data: map[string]string{
				"Query":   "how to prevent flu",
				"Session": "abc123",
			},
			want: "You asked: how to prevent flu (abc123)",
		},
		{
			name: "struct data",
			tmpl: "{{ .Name }}: {{ .Score }}",
			data: struct {
				Name  string
				Score float64
			}{Name: "Allergy", Score: 0.5},
			want: "Allergy: 0.5",
		},
		{
			name: "range over slice",
			tmpl: "{{ range .Items }}- {{ . }}\n{{ end }}",
			data: map[string][]string{"Items": {"rest", "hydrate"}},
			want: "- rest\n- hydrate\n",
		},
		{
			name: "printf formatting",
			tmpl: `{{ printf "%.3f" .Score }}`,
			data: map[string]float64{"Score": 0.96428},
			want: "0.964",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Name": "test"},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Name }",
			data:    map[string]string{"Name": "test"},
			wantErr: true,
		},
		{
			name: "empty value is valid",
			tmpl: "prefix{{ .Name }}suffix",
			data: map[string]string{"Name": ""},
			want: "prefixsuffix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
