package codegen

import (
	"bytes"
	"embed"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("codegen").Funcs(template.FuncMap{
	"upper": func(s string) string { return upperASCII(s) },
	"ident": func(s string) string { return sanitizeIdent(s, "UNNAMED") },
	"sub":   func(a, b int) int { return a - b },
	"inc":   func(a int) int { return a + 1 },
}).ParseFS(templateFS, "templates/*.tmpl"))

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// render executes the named template against ctx and returns the
// result, wrapping any template execution failure in a codegen Error
// (§4.6/§4.7: the generator never panics, Generate always returns an
// error value).
func render(name string, ctx interface{}) (string, *Error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, ctx); err != nil {
		return "", newError(Template, name+": "+err.Error())
	}
	return buf.String(), nil
}
