package export

import (
	"fmt"
	"time"

	"invoicing/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExcelContentType content type of xlsx workbooks
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var excelHeaders = []string{"Invoice No.", "Date", "Client", "Card ID", "Customer PO", "Description", "Hours", "Rate", "Amount", "GST", "Total"}

// InvoicesExcelFilename name of the invoice workbook for a month
func InvoicesExcelFilename(year int, month time.Month) string {
	return fmt.Sprintf("invoices-%04d-%02d.xlsx", year, int(month))
}

func border() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

// InvoicesWorkbook builds a workbook with one row per invoice line and a
// totals row. The caller closes the returned file.
func InvoicesWorkbook(invoices []models.Invoice, year int, month time.Month) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := fmt.Sprintf("%04d-%02d", year, int(month))
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border(),
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	dataStyle, _ := f.NewStyle(&excelize.Style{Border: border()})
	moneyStyle, _ := f.NewStyle(&excelize.Style{Border: border(), NumFmt: 2})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: border(),
		NumFmt: 2,
	})

	f.SetColWidth(sheet, "A", "B", 12)
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "D", "E", 12)
	f.SetColWidth(sheet, "F", "F", 50)
	f.SetColWidth(sheet, "G", "K", 12)

	if err := f.SetSheetRow(sheet, "A1", &excelHeaders); err != nil {
		f.Close()
		return nil, err
	}
	f.SetCellStyle(sheet, "A1", "K1", headerStyle)

	row := 2
	amount, gst, total := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range invoices {
		inv := &invoices[i]
		var name, cardID string
		if inv.Client != nil {
			name, cardID = inv.Client.Name, inv.Client.ExportCardID()
		}
		for _, item := range inv.Items {
			start, _ := excelize.CoordinatesToCellName(1, row)
			values := []interface{}{
				inv.InvoiceNumber,
				time.Time(inv.InvoiceDate).Format(dateLayout),
				name,
				cardID,
				inv.PONumber,
				item.Description,
				item.Hours.InexactFloat64(),
				item.Rate.InexactFloat64(),
				item.Amount.InexactFloat64(),
				item.GST.InexactFloat64(),
				item.Total.InexactFloat64(),
			}
			if err := f.SetSheetRow(sheet, start, &values); err != nil {
				f.Close()
				return nil, err
			}
			f.SetCellStyle(sheet, start, fmt.Sprintf("G%d", row), dataStyle)
			f.SetCellStyle(sheet, fmt.Sprintf("H%d", row), fmt.Sprintf("K%d", row), moneyStyle)

			amount = amount.Add(item.Amount)
			gst = gst.Add(item.GST)
			total = total.Add(item.Total)
			row++
		}
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row))
	f.SetCellValue(sheet, fmt.Sprintf("I%d", row), amount.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("J%d", row), gst.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("K%d", row), total.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("K%d", row), summaryStyle)

	return f, nil
}
