package trade

import (
	"context"
	"fmt"
)

// DocumentType identifies an independent numbering sequence
type DocumentType string

const (
	DocumentTypeSalesOrder DocumentType = "SALES_ORDER"
	DocumentTypeInvoice    DocumentType = "INVOICE"
)

// IsValid checks if the type is a known document type
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeSalesOrder || t == DocumentTypeInvoice
}

// Prefix returns the display prefix of the document type
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeSalesOrder:
		return "SO-"
	case DocumentTypeInvoice:
		return "INV-"
	}
	return ""
}

// NumberAllocator hands out document numbers. Numbers are strictly increasing
// per document type and never handed out twice, even when the document that
// received one is never committed; gaps are allowed.
type NumberAllocator interface {
	NextNumber(ctx context.Context, docType DocumentType) (int64, error)
}

// FormatDocumentNumber renders a stored number for display (SO-00001).
// Numbers wider than five digits are printed in full.
func FormatDocumentNumber(docType DocumentType, number int64) string {
	return fmt.Sprintf("%s%05d", docType.Prefix(), number)
}
