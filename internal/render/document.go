package render

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"

	"github.com/rotisserie/eris"

	"ipcammap/internal/export"
)

//go:embed templates/map.html
var templates embed.FS

var pageTmpl = template.Must(template.ParseFS(templates, "templates/map.html"))

type pageData struct {
	Title           string
	Zoom            int
	TileURL         string
	TileAttribution string
	PopupMaxWidth   int
	Center          template.JS
	Markers         template.JS
	Heat            template.JS
}

// marshalTemplateJS encodes value as JSON and tags it as safe JavaScript so
// the template can embed the literal directly.
func marshalTemplateJS(value any) (template.JS, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return template.JS(""), err
	}
	return template.JS(payload), nil
}

// WriteTo renders m as a self-contained HTML document.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	data := pageData{
		Title:           m.Options.Title,
		Zoom:            m.Options.Zoom,
		TileURL:         m.Options.TileURL,
		TileAttribution: m.Options.TileAttribution,
		PopupMaxWidth:   m.Options.PopupMaxWidth,
	}

	var err error
	if data.Center, err = marshalTemplateJS(m.Center); err != nil {
		return 0, eris.Wrap(err, "render: encode center")
	}
	if data.Markers, err = marshalTemplateJS(m.Markers); err != nil {
		return 0, eris.Wrap(err, "render: encode markers")
	}
	if data.Heat, err = marshalTemplateJS(m.Heat); err != nil {
		return 0, eris.Wrap(err, "render: encode heat")
	}

	cw := &countingWriter{w: w}
	if err := pageTmpl.Execute(cw, data); err != nil {
		return cw.n, eris.Wrap(err, "render: execute template")
	}
	return cw.n, nil
}

// Save writes the document to path. A failed render leaves no file behind.
func (m *Map) Save(path string) error {
	return export.SaveFile(path, func(w io.Writer) error {
		_, err := m.WriteTo(w)
		return err
	})
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
