// Package invoice lays out and renders the PDF invoice for an order.
//
// Coordinates are PDF points on a US Letter page with the origin at the bottom-left
// corner, so y decreases as the text moves down the page.
package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/orders/internal/models"
)

const (
	PageWidth  = 612.0
	PageHeight = 792.0

	marginLeft   = 100.0
	marginBottom = 36.0
	topY         = 750.0
	lineStep     = 20.0
	itemsStartY  = 520.0

	columnGap  = "       "
	dateLayout = "Jan 02, 2006"
)

type Font struct {
	Family string
	Style  string
	Size   float64
}

var (
	TitleFont = Font{Family: "Helvetica", Style: "B", Size: 20}
	BodyFont  = Font{Family: "Helvetica", Size: 12}
)

type Line struct {
	X    float64
	Y    float64
	Font Font
	Text string
}

type Page struct {
	Lines []Line
}

type Document struct {
	Title string
	Pages []Page
}

// Texts returns every line of every page in drawing order.
func (d Document) Texts() []string {
	var out []string
	for _, p := range d.Pages {
		for _, l := range p.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}

type builder struct {
	pages []Page
}

func (b *builder) draw(y float64, f Font, text string) {
	cur := &b.pages[len(b.pages)-1]
	cur.Lines = append(cur.Lines, Line{X: marginLeft, Y: y, Font: f, Text: text})
}

// flow draws at y, moving to the top of a fresh page when y is below the bottom margin.
// It returns the y actually used.
func (b *builder) flow(y float64, text string) float64 {
	if y < marginBottom {
		b.pages = append(b.pages, Page{})
		y = topY
	}
	b.draw(y, BodyFont, text)
	return y
}

func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func ItemsHeader() string {
	return strings.Join([]string{"Product", "Price", "Quantity", "Cost"}, columnGap)
}

func ItemRow(it models.OrderItem) string {
	return strings.Join([]string{
		it.Product.Name,
		Money(it.Price),
		strconv.Itoa(it.Quantity),
		Money(it.Cost()),
	}, columnGap)
}

func StatusText(paid bool) string {
	if paid {
		return "Paid"
	}
	return "Pending payment"
}

// Layout is pure: the same order always yields the same document.
func Layout(o *models.Order) Document {
	b := &builder{pages: []Page{{}}}

	title := fmt.Sprintf("Invoice for Order #%d", o.ID)
	b.draw(750, TitleFont, title)

	b.draw(730, BodyFont, fmt.Sprintf("Invoice No: %d", o.ID))
	b.draw(710, BodyFont, "Date: "+o.Created.Format(dateLayout))

	b.draw(680, BodyFont, "Bill to:")
	b.draw(660, BodyFont, o.FullName())
	b.draw(640, BodyFont, o.Email)
	b.draw(620, BodyFont, o.Address)
	b.draw(600, BodyFont, fmt.Sprintf("%s, %s", o.PostalCode, o.City))

	b.draw(570, BodyFont, "Items bought:")
	b.draw(550, BodyFont, ItemsHeader())
	b.draw(540, BodyFont, strings.Repeat("-", 60))

	y := itemsStartY
	for _, it := range o.Items {
		y = b.flow(y, ItemRow(it)) - lineStep
	}

	y = b.flow(y, "Total: "+Money(o.TotalCost()))
	b.flow(y-lineStep, "Status: "+StatusText(o.Paid))

	return Document{Title: title, Pages: b.pages}
}
