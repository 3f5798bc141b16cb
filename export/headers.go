package export

// MYOBClientHeaders MYOB customer card import columns, in file order
var MYOBClientHeaders = []string{
	"Co./Last Name", "First Name", "Card ID", "Card Status",
	"Addr 1 - Line 1", "Addr 1 - Line 2", "Addr 1 - Line 3", "Addr 1 - Line 4",
	"Addr 1 - City", "Addr 1 - State", "Addr 1 - Postcode", "Addr 1 - Country",
	"Addr 1 - Phone  No. 1", "Addr 1 - Phone  No. 2", "Addr 1 - Phone  No. 3", "Addr 1 - Fax  No",
	"Addr 1 - Email", "Addr 1 - WWW", "Addr 1 - Contact Name", "Addr 1 - Salutation",
	"Addr 2 - Line 1", "Addr 2 - Line 2", "Addr 2 - Line 3", "Addr 2 - Line 4",
	"Addr 2 - City", "Addr 2 - State", "Addr 2 - Postcode", "Addr 2 - Country",
	"Addr 2 - Phone  No. 1", "Addr 2 - Phone  No. 2", "Addr 2 - Phone  No. 3", "Addr 2 - Fax  No",
	"Addr 2 - Email", "Addr 2 - WWW", "Addr 2 - Contact Name", "Addr 2 - Salutation",
	"Addr 3 - Line 1", "Addr 3 - Line 2", "Addr 3 - Line 3", "Addr 3 - Line 4",
	"Addr 3 - City", "Addr 3 - State", "Addr 3 - Postcode", "Addr 3 - Country",
	"Addr 3 - Phone  No. 1", "Addr 3 - Phone  No. 2", "Addr 3 - Phone  No. 3", "Addr 3 - Fax  No",
	"Addr 3 - Email", "Addr 3 - WWW", "Addr 3 - Contact Name", "Addr 3 - Salutation",
	"Addr 4 - Line 1", "Addr 4 - Line 2", "Addr 4 - Line 3", "Addr 4 - Line 4",
	"Addr 4 - City", "Addr 4 - State", "Addr 4 - Postcode", "Addr 4 - Country",
	"Addr 4 - Phone  No. 1", "Addr 4 - Phone  No. 2", "Addr 4 - Phone  No. 3", "Addr 4 - Fax  No",
	"Addr 4 - Email", "Addr 4 - WWW", "Addr 4 - Contact Name", "Addr 4 - Salutation",
	"Addr 5 - Line 1", "Addr 5 - Line 2", "Addr 5 - Line 3", "Addr 5 - Line 4",
	"Addr 5 - City", "Addr 5 - State", "Addr 5 - Postcode", "Addr 5 - Country",
	"Addr 5 - Phone  No. 1", "Addr 5 - Phone  No. 2", "Addr 5 - Phone  No. 3", "Addr 5 - Fax  No",
	"Addr 5 - Email", "Addr 5 - WWW", "Addr 5 - Contact Name", "Addr 5 - Salutation",
	"Picture", "Notes", "Identifiers", "Custom List 1",
	"Custom List 2", "Custom List 3", "Custom Field 1", "Custom Field 2",
	"Custom Field 3", "Terms - Payment is Due", "Terms - Discount Days", "Terms - Balance Due Days",
	"Terms - % Discount", "Terms - % Monthly Charge", "GST Code", "Credit Limit",
	"GST ID No.", "Volume Discount %", "Sales/Purchase Layout", "Payment Method",
	"Payment Notes", "Name on Card", "Card Number", "Expiry Date",
	"Bank and Branch", "Account Number", "Account Name", "Account",
	"Salesperson", "Salesperson Card ID", "Comment", "Shipping Method",
	"Printed Form", "Freight GST Code", "Use Customer's GST Code", "Receipt Memo",
	"Invoice/Purchase Order Delivery", "RecordID",
}

// InvoiceHeaders invoice export columns, in file order
var InvoiceHeaders = []string{
	"Card ID",
	"Co./Last Name",
	"Delivery Status",
	"Invoice No.",
	"Item Number",
	"Quantity",
	"Customer PO",
	"Date",
	"Description",
	"Price",
	"Total",
	"GST Amount",
	"Inc-GST Total",
	"Comment",
	"Journal Memo",
	"GST Code",
	"Terms - Payment is Due",
	" - Balance Due Days",
}
