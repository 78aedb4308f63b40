package tradeweb

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// LoadTemplates parses the trading simulator's page templates. The usd
// helper formats dollar amounts the way the pages expect.
func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"usd": func(value float64) string {
			return fmt.Sprintf("$%.2f", value)
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}
