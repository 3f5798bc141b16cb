package export

import (
	"fmt"
	"strconv"
	"time"

	"invoicing/models"

	"github.com/shopspring/decimal"
)

// InvoicesFilename name of the invoice export for a month
func InvoicesFilename(year int, month time.Month) string {
	return fmt.Sprintf("invoices-export-%04d-%02d.txt", year, int(month))
}

// FormatHours renders hours with at most two decimals, trailing zeros trimmed
func FormatHours(hours decimal.Decimal) string {
	return hours.Round(2).String()
}

// LineDescription description column of an invoice line, e.g. "Design (1.5 hrs)"
func LineDescription(item *models.InvoiceItem) string {
	return fmt.Sprintf("%s (%s hrs)", item.Description, FormatHours(item.Hours))
}

// InvoiceRow maps one invoice line onto InvoiceHeaders. A nil item gives zero
// amounts and an empty description.
func InvoiceRow(inv *models.Invoice, item *models.InvoiceItem) []string {
	amount, gst := decimal.Zero, decimal.Zero
	description := ""
	if item != nil {
		amount, gst = item.Amount, item.GST
		description = LineDescription(item)
	}

	cardID := strconv.FormatUint(uint64(inv.ClientID), 10)
	var name, contact, gstCode string
	if inv.Client != nil {
		cardID = inv.Client.ExportCardID()
		name = inv.Client.Name
		contact = inv.Client.Contact
		gstCode = inv.Client.GSTCode
	}

	return []string{
		cardID,
		name,
		"B",
		inv.InvoiceNumber,
		"MISC",
		"1",
		inv.PONumber,
		time.Time(inv.InvoiceDate).Format(dateLayout),
		description,
		amount.StringFixed(2),
		amount.StringFixed(2),
		gst.StringFixed(2),
		amount.Add(gst).StringFixed(2),
		contact,
		name,
		gstCode,
		"4",
		"20",
	}
}

// Invoices renders the invoice export: one row per line, invoices and lines
// in the given order. Invoices without lines produce no rows. It also returns
// the number of data rows.
func Invoices(invoices []models.Invoice) ([]byte, int) {
	t := newTSV(InvoiceHeaders)
	for i := range invoices {
		inv := &invoices[i]
		for j := range inv.Items {
			t.writeRow(InvoiceRow(inv, &inv.Items[j]))
		}
	}
	return t.bytes(), t.rows
}
