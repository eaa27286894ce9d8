package export

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/XiongPengNUS/canvasplus/internal/app/models"
	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

// previewTemplate renders an ExportTable as an HTML table. Avatar cells
// become img tags at the fixed preview width, which keeps the preview
// visually consistent with the spreadsheet embedding.
var previewTemplate = template.Must(template.New("preview").Parse(`<table border="1" class="roster">
<thead>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{if .Avatar}}<img src="{{.Avatar.URL}}" width="{{.Avatar.Width}}">{{else}}{{.Text}}{{end}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
`))

// PreviewHTML renders the table for in-browser preview before download.
func PreviewHTML(table *models.ExportTable) (string, error) {
	if table == nil || len(table.Columns) == 0 {
		return "", fmt.Errorf("%w: table has no columns", apperrors.ErrValidationFailed)
	}
	var sb strings.Builder
	if err := previewTemplate.Execute(&sb, table); err != nil {
		return "", fmt.Errorf("%w: rendering preview: %v", apperrors.ErrExportFailed, err)
	}
	return sb.String(), nil
}
