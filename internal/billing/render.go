package billing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Renderer turns an invoice into a formatted export.  The aggregator only
// produces data rows and a total; export formats live behind this
// interface so handlers can pick one per request.
type Renderer interface {
	// Render writes the invoice for the named customer to w.
	Render(w io.Writer, customerName string, inv Invoice) error
	// ContentType is the MIME type of the rendered output.
	ContentType() string
}

// CSVRenderer writes one header row, one row per line item and a trailing
// total row.  Amounts are rendered as decimal strings with two places.
type CSVRenderer struct{}

func (CSVRenderer) ContentType() string { return "text/csv" }

func (CSVRenderer) Render(w io.Writer, customerName string, inv Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"customer", "seat", "item", "price"}); err != nil {
		return err
	}
	for _, ln := range inv.Lines {
		row := []string{customerName, strconv.FormatUint(uint64(ln.Seat), 10), ln.Name, Cents(ln.PriceCents)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", "", "total", Cents(inv.TotalCents)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Cents formats an integer cent amount as a decimal string, e.g. 750 ->
// "7.50".  Negative amounts keep the sign in front of the whole part.
func Cents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
