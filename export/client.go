package export

import (
	"fmt"
	"strconv"
	"time"

	"invoicing/models"
)

// ClientsFilename name of the client export produced at now
func ClientsFilename(now time.Time) string {
	return fmt.Sprintf("clients-myob-%s.txt", now.Format("20060102"))
}

// ClientRow maps a client onto MYOBClientHeaders; unmapped columns are blank
func ClientRow(c *models.Client) []string {
	mapped := map[string]string{
		"Co./Last Name":          c.Name,
		"Card ID":                c.ExportCardID(),
		"Card Status":            "N",
		"Addr 1 - Line 1":        c.Street,
		"Addr 1 - Line 2":        c.Suburb,
		"Addr 1 - City":          c.City,
		"Addr 1 - Postcode":      c.Postcode,
		"Addr 1 - Country":       c.Country,
		"Addr 1 - Email":         c.Email,
		"Addr 1 - Contact Name":  c.Contact,
		"GST Code":               c.GSTCode,
		"Terms - Payment is Due": "20",
		"Credit Limit":           c.Rate.StringFixed(2),
		"GST ID No.":             "Online Banking",
		"Account":                "41100",
		"Name on Card":           c.Name,
		"Comment":                "Exported " + time.Time(c.DateCreated).Format(dateLayout),
		"RecordID":               strconv.FormatUint(uint64(c.ID), 10),
	}

	row := make([]string, len(MYOBClientHeaders))
	for i, header := range MYOBClientHeaders {
		row[i] = mapped[header]
	}
	return row
}

// Clients renders the MYOB client export in the given order
func Clients(clients []models.Client) []byte {
	t := newTSV(MYOBClientHeaders)
	for i := range clients {
		t.writeRow(ClientRow(&clients[i]))
	}
	return t.bytes()
}
