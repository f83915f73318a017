package templates

import (
	"bytes"
	"embed"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

var tmpls = htmpl.Must(htmpl.ParseFS(FS, "*.tmpl"))

// RenderHTML renders the named template with data.
func RenderHTML(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpls.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SubjectFor maps a template name to its email subject line.
func SubjectFor(name string) string {
	switch name {
	case "password_reset":
		return "Reset your password"
	case "welcome":
		return "Welcome to Blognest"
	default:
		return "Notification"
	}
}
