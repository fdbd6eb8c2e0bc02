package billing

import "strings"

const (
	MsgCustomerNameRequired    = "Customer name is required"
	MsgMobileNumberRequired    = "Mobile number is required"
	MsgCustomerAddressRequired = "Customer address is required"
	MsgProductRequired         = "At least one product is required"
)

// ValidationError reports the first unmet submission condition.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Submission is an invoice as typed into the form, before validation.
type Submission struct {
	CustomerName    string     `json:"customerName"`
	MobileNumber    string     `json:"mobileNumber"`
	CustomerAddress string     `json:"customerAddress"`
	Items           []LineItem `json:"items"`
}

// Draft is a submission that passed the gate: customer fields trimmed, blank
// rows dropped, row totals and invoice totals recomputed.
type Draft struct {
	CustomerName    string
	MobileNumber    string
	CustomerAddress string
	Items           []LineItem
	Totals          InvoiceTotals
}

// PrepareSubmission applies the submission gate. Conditions are checked in
// order: customer name, mobile number, address, at least one named item.
// Items without a product name are skipped, not rejected.
func PrepareSubmission(s Submission) (Draft, error) {
	d := Draft{
		CustomerName:    strings.TrimSpace(s.CustomerName),
		MobileNumber:    strings.TrimSpace(s.MobileNumber),
		CustomerAddress: strings.TrimSpace(s.CustomerAddress),
	}

	switch {
	case d.CustomerName == "":
		return Draft{}, &ValidationError{Message: MsgCustomerNameRequired}
	case d.MobileNumber == "":
		return Draft{}, &ValidationError{Message: MsgMobileNumberRequired}
	case d.CustomerAddress == "":
		return Draft{}, &ValidationError{Message: MsgCustomerAddressRequired}
	}

	d.Items = ValidItems(s.Items)
	if len(d.Items) == 0 {
		return Draft{}, &ValidationError{Message: MsgProductRequired}
	}
	d.Totals = ComputeInvoiceTotals(d.Items)
	return d, nil
}

// ValidItems keeps items with a non-blank product name, trimming the name and
// recomputing the row total.
func ValidItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.ProductName)
		if name == "" {
			continue
		}
		item.ProductName = name
		out = append(out, item.WithRowTotal())
	}
	return out
}
