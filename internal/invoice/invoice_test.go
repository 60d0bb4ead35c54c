package invoice

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/orders/internal/models"
)

func exampleOrder() *models.Order {
	return &models.Order{
		ID:         7,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Address:    "12 Analytical St",
		PostalCode: "10001",
		City:       "London",
		Created:    time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC),
		Paid:       false,
		Items: []models.OrderItem{
			{Product: models.Product{Name: "Widget"}, Price: decimal.RequireFromString("9.99"), Quantity: 2},
		},
	}
}

func orderWithItems(n int) *models.Order {
	o := exampleOrder()
	o.Items = nil
	for i := 0; i < n; i++ {
		o.Items = append(o.Items, models.OrderItem{
			Product:  models.Product{Name: fmt.Sprintf("P%02d", i)},
			Price:    decimal.RequireFromString("1.50"),
			Quantity: i + 1,
		})
	}
	return o
}

func itemRows(d Document) []string {
	var rows []string
	for _, s := range d.Texts() {
		if strings.HasPrefix(s, "P") && strings.Contains(s, "$") && !strings.HasPrefix(s, "Product") {
			rows = append(rows, s)
		}
	}
	return rows
}

func TestLayout_Example(t *testing.T) {
	doc := Layout(exampleOrder())

	require.Len(t, doc.Pages, 1)
	assert.Equal(t, []string{
		"Invoice for Order #7",
		"Invoice No: 7",
		"Date: Jan 05, 2024",
		"Bill to:",
		"Ada Lovelace",
		"ada@example.com",
		"12 Analytical St",
		"10001, London",
		"Items bought:",
		"Product       Price       Quantity       Cost",
		strings.Repeat("-", 60),
		"Widget       $9.99       2       $19.98",
		"Total: $19.98",
		"Status: Pending payment",
	}, doc.Texts())
}

func TestLayout_Coordinates(t *testing.T) {
	lines := Layout(exampleOrder()).Pages[0].Lines

	assert.Equal(t, Line{X: 100, Y: 750, Font: TitleFont, Text: "Invoice for Order #7"}, lines[0])
	for _, l := range lines[1:] {
		assert.Equal(t, BodyFont, l.Font, l.Text)
		assert.EqualValues(t, 100, l.X)
	}

	wantY := []float64{750, 730, 710, 680, 660, 640, 620, 600, 570, 550, 540, 520, 500, 480}
	require.Len(t, lines, len(wantY))
	for i, l := range lines {
		assert.EqualValues(t, wantY[i], l.Y, l.Text)
	}
}

func TestLayout_PaidStatus(t *testing.T) {
	o := exampleOrder()
	o.Paid = true

	texts := Layout(o).Texts()
	assert.Equal(t, "Status: Paid", texts[len(texts)-1])
}

func TestLayout_NoItems(t *testing.T) {
	o := orderWithItems(0)
	doc := Layout(o)
	lines := doc.Pages[0].Lines

	texts := doc.Texts()
	require.Len(t, texts, 13)
	assert.Equal(t, strings.Repeat("-", 60), texts[10])
	assert.Equal(t, "Total: $0.00", texts[11])
	assert.EqualValues(t, 520, lines[11].Y)
	assert.Equal(t, "Status: Pending payment", texts[12])
}

func TestLayout_RowsFollowItemOrder(t *testing.T) {
	for _, n := range []int{1, 5, 23} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			o := orderWithItems(n)
			doc := Layout(o)

			require.Len(t, doc.Pages, 1)
			rows := itemRows(doc)
			require.Len(t, rows, n)
			for i, r := range rows {
				assert.True(t, strings.HasPrefix(r, fmt.Sprintf("P%02d ", i)), r)
			}
		})
	}
}

func TestLayout_TotalIsSumOfCosts(t *testing.T) {
	o := orderWithItems(4)
	texts := Layout(o).Texts()

	// 1.50 * (1+2+3+4)
	assert.Contains(t, texts, "Total: $15.00")
}

func TestLayout_OverflowContinuesOnNextPage(t *testing.T) {
	o := orderWithItems(60)
	doc := Layout(o)

	require.Greater(t, len(doc.Pages), 1)
	assert.Len(t, itemRows(doc), 60)

	for _, p := range doc.Pages {
		for _, l := range p.Lines {
			assert.GreaterOrEqual(t, l.Y, marginBottom, l.Text)
			assert.LessOrEqual(t, l.Y, topY, l.Text)
		}
	}

	last := doc.Pages[len(doc.Pages)-1].Lines
	assert.Equal(t, "Status: Pending payment", last[len(last)-1].Text)
	assert.EqualValues(t, 750, doc.Pages[1].Lines[0].Y)
}

func TestLayout_SecondPageStartsWhenStatusDoesNotFit(t *testing.T) {
	doc := Layout(orderWithItems(24))

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, []Line{{X: 100, Y: 750, Font: BodyFont, Text: "Status: Pending payment"}}, doc.Pages[1].Lines)
}

func TestRender_ProducesPDF(t *testing.T) {
	r, err := Render(exampleOrder())
	require.NoError(t, err)

	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Zero(t, pos)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	assert.Contains(t, string(data), "%%EOF")
}

func TestRender_IsDeterministic(t *testing.T) {
	a, err := Render(exampleOrder())
	require.NoError(t, err)
	b, err := Render(exampleOrder())
	require.NoError(t, err)

	da, _ := io.ReadAll(a)
	db, _ := io.ReadAll(b)
	assert.Equal(t, da, db)
}

func TestRender_MultiPage(t *testing.T) {
	r, err := Render(orderWithItems(60))
	require.NoError(t, err)
	assert.Positive(t, r.Len())
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(decimal.Zero))
	assert.Equal(t, "$1234.50", Money(decimal.RequireFromString("1234.5")))
}
