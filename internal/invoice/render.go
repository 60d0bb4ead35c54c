package invoice

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/Skotchmaster/orders/internal/models"
)

// Render draws the invoice and returns the PDF positioned at its first byte.
// Document dates come from the order, so output does not depend on the wall clock.
func Render(o *models.Order) (*bytes.Reader, error) {
	doc := Layout(o)

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCreationDate(o.Created)
	pdf.SetModificationDate(o.Created)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, l := range page.Lines {
			pdf.SetFont(l.Font.Family, l.Font.Style, l.Font.Size)
			pdf.Text(l.X, PageHeight-l.Y, tr(l.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %d: %w", o.ID, err)
	}
	return bytes.NewReader(buf.Bytes()), nil
}
