package conversation

import (
	"github.com/erp/chatbot/internal/domain/shared"
	"github.com/erp/chatbot/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineItem is one item entry within a draft. Items carry no identity of
// their own; they are addressed purely by 1-based position in the draft's
// list, and a delete shifts every later item down by one.
type LineItem struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransactionDraft holds the accumulated, not-yet-committed fields of the
// document being built. It is mutated only by the state machine in response
// to validated input.
type TransactionDraft struct {
	CustomerName  string                  `json:"customer_name,omitempty"`
	CustomerCode  string                  `json:"customer_code,omitempty"`
	InvoiceNumber string                  `json:"invoice_number,omitempty"`
	DocumentDate  valueobject.DocumentDate `json:"document_date,omitempty"`
	Items         []LineItem              `json:"items"`

	// StagedItem is the slot between the item-description step (which fills
	// code, name, and price) and the quantity step (which completes the item
	// and appends it to the list).
	StagedItem *LineItem `json:"staged_item,omitempty"`
}

// SetCustomer records the customer on the draft. Code may be empty when the
// name could not be resolved against master data.
func (d *TransactionDraft) SetCustomer(name, code string) {
	d.CustomerName = name
	d.CustomerCode = code
}

// StageItem fills the staging slot with a resolved item awaiting a quantity
func (d *TransactionDraft) StageItem(code, name string, unitPrice decimal.Decimal) {
	d.StagedItem = &LineItem{
		ItemCode:  code,
		ItemName:  name,
		UnitPrice: unitPrice,
	}
}

// CommitStagedItem attaches the quantity to the staged item, appends the
// completed item to the list, and clears the staging slot. Returns the new
// item count. The append and the clear happen together so the draft is never
// left half-mutated.
func (d *TransactionDraft) CommitStagedItem(quantity decimal.Decimal) (int, error) {
	if d.StagedItem == nil {
		return 0, shared.ErrNoStagedItem
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	item := *d.StagedItem
	item.Quantity = quantity
	d.Items = append(d.Items, item)
	d.StagedItem = nil
	return len(d.Items), nil
}

// DeleteItemAt removes the item at the given 1-based position and returns
// it. Items after the removed position shift down by one. An out-of-range
// position returns shared.ErrIndexOutOfRange without mutating the list.
func (d *TransactionDraft) DeleteItemAt(pos int) (LineItem, error) {
	if pos < 1 || pos > len(d.Items) {
		return LineItem{}, shared.ErrIndexOutOfRange
	}
	removed := d.Items[pos-1]
	d.Items = append(d.Items[:pos-1], d.Items[pos:]...)
	return removed, nil
}

// ItemCount returns the number of completed items in the draft
func (d *TransactionDraft) ItemCount() int {
	return len(d.Items)
}

// ItemsSnapshot returns a read-only copy of the item list
func (d *TransactionDraft) ItemsSnapshot() []LineItem {
	items := make([]LineItem, len(d.Items))
	copy(items, d.Items)
	return items
}

// Snapshot is a read-only view of a draft handed to preview rendering and,
// on final confirmation, to the downstream posting boundary.
type Snapshot struct {
	UseCase       UseCase    `json:"use_case"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerCode  string     `json:"customer_code,omitempty"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	DocumentDate  string     `json:"document_date,omitempty"`
	Items         []LineItem `json:"items"`
}

// Snapshot captures the draft's current state for the given use case
func (d *TransactionDraft) Snapshot(useCase UseCase) Snapshot {
	return Snapshot{
		UseCase:       useCase,
		CustomerName:  d.CustomerName,
		CustomerCode:  d.CustomerCode,
		InvoiceNumber: d.InvoiceNumber,
		DocumentDate:  d.DocumentDate.String(),
		Items:         d.ItemsSnapshot(),
	}
}

// clone returns a deep copy of the draft
func (d *TransactionDraft) clone() TransactionDraft {
	cp := *d
	cp.Items = d.ItemsSnapshot()
	if d.StagedItem != nil {
		staged := *d.StagedItem
		cp.StagedItem = &staged
	}
	return cp
}
