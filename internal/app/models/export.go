package models

// AvatarPreviewWidth is the fixed display width, in screen units, used
// by both the HTML preview and the spreadsheet embedding so the two
// renderers stay visually consistent.
const AvatarPreviewWidth = 100

// AvatarRef is a rendering directive: display the image behind URL at
// the fixed width instead of printing the URL as text.
type AvatarRef struct {
	URL   string `json:"url"`
	Width int    `json:"width"`
}

// Cell is one table cell: plain text, or an avatar rendering directive.
// A struct rather than an interface so tables survive a JSON round trip
// through the roster cache unchanged.
type Cell struct {
	Text   string     `json:"text,omitempty"`
	Avatar *AvatarRef `json:"avatar,omitempty"`
}

// TextCell wraps a plain string value.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// AvatarCell wraps an avatar URL in a rendering directive.
func AvatarCell(url string) Cell {
	return Cell{Avatar: &AvatarRef{URL: url, Width: AvatarPreviewWidth}}
}

// PostRecord is one flattened discussion post: one per top-level entry
// and one per immediate reply.
type PostRecord struct {
	TopicTitle    string `json:"topicTitle"`
	AuthorName    string `json:"authorName"`
	StudentNumber string `json:"studentNumber"`
	// PostedAt is timezone-naive wall-clock time, "2006-01-02 15:04:05".
	PostedAt string `json:"postedAt"`
}

// ExportTable is the in-memory denormalized table handed to the
// spreadsheet exporter: an ordered header plus rows of cells in the
// same column order.
type ExportTable struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

// ColumnIndex returns the position of a named column, or -1.
func (t *ExportTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
