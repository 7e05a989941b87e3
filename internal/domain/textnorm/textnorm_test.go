package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lower", "GoLang", "golang"},
		{"diacritics", "Híbrido", "hibrido"},
		{"cedilla", "Comunicação", "comunicacao"},
		{"trim", "  sênior \t", "senior"},
		{"inner whitespace", "power   bi", "power bi"},
		{"only spaces", "   ", ""},
		{"symbols kept", "C++", "c++"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "Análise de Dados", "  ÉLAN  vital ", "İstanbul", "ﬁnance", "naïve café", "Ångström\n\tUnit", "日本語",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"commas", "Go, SQL ,Docker", []string{"go", "sql", "docker"}},
		{"mixed separators", "Excel;Power BI/Tableau\nPython", []string{"excel", "power bi", "tableau", "python"}},
		{"bullets", "• Análise\n• Relatórios", []string{"analise", "relatorios"}},
		{"markdown bullets", "* SQL\n* Python", []string{"sql", "python"}},
		{"en dash bullets", "– SQL\n– Python", []string{"sql", "python"}},
		{"mixed list markers", "* SQL\n– Python\n• Excel", []string{"sql", "python", "excel"}},
		{"hyphen kept inside", "front-end, back-end", []string{"front-end", "back-end"}},
		{"drops empties", ",, ;\n", []string{}},
		{"keeps duplicates", "go, Go", []string{"go", "go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	assert.Equal(t, []string{"sql", "ingles"}, NormalizeAll([]string{" SQL ", "", "Inglês"}))
	assert.Empty(t, NormalizeAll(nil))
}

func TestTrimPunct(t *testing.T) {
	assert.Equal(t, "analytics", TrimPunct("(analytics)."))
	assert.Equal(t, "c++", TrimPunct("c++,"))
	assert.Equal(t, "c#", TrimPunct("\"c#\""))
	assert.Equal(t, "", TrimPunct("..."))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "çã", Truncate("çãõ", 2))
}
