package conversation

import (
	"time"

	"github.com/erp/chatbot/internal/domain/shared"
)

// UseCase identifies which business document a conversation is building
type UseCase string

const (
	UseCaseUnset      UseCase = ""
	UseCaseSalesOrder UseCase = "sales_order"
	UseCaseInvoice    UseCase = "invoice"
	UseCaseOther      UseCase = "other"
)

// IsValid checks if the use case is one of the recognized document types
func (u UseCase) IsValid() bool {
	switch u {
	case UseCaseSalesOrder, UseCaseInvoice, UseCaseOther:
		return true
	}
	return false
}

// String returns the string representation of the use case
func (u UseCase) String() string {
	return string(u)
}

// ParseUseCase maps a request-supplied tag to a UseCase
func ParseUseCase(s string) (UseCase, bool) {
	u := UseCase(s)
	if u.IsValid() {
		return u, true
	}
	return UseCaseUnset, false
}

// Step names a point in a use case's flow awaiting specific input.
// Step values double as the wire-level action tags, so they must stay
// stable across releases.
type Step string

const (
	StepStart           Step = "start"
	StepCustomerName    Step = "customer_name"
	StepInvoiceNumber   Step = "invoice_number"
	StepDate            Step = "date"
	StepItemDescription Step = "itm_description"
	StepQuantity        Step = "quantity"
	StepAddMoreItems    Step = "add_more_items"
	StepPreview         Step = "preview"
	StepDeleteItem      Step = "delete_item"
	StepConfirm         Step = "confirm"
	StepEnd             Step = "end"
)

// String returns the string representation of the step
func (s Step) String() string {
	return string(s)
}

// salesOrderSteps and invoiceSteps define the valid step sets per use case.
// StepDeleteItem is reachable only from the preview screen but is still a
// member of the sales-order set so the dispatcher can recognize it.
var (
	salesOrderSteps = map[Step]struct{}{
		StepStart: {}, StepCustomerName: {}, StepDate: {}, StepItemDescription: {},
		StepQuantity: {}, StepAddMoreItems: {}, StepPreview: {}, StepDeleteItem: {},
		StepConfirm: {}, StepEnd: {},
	}
	invoiceSteps = map[Step]struct{}{
		StepStart: {}, StepInvoiceNumber: {}, StepDate: {}, StepConfirm: {}, StepEnd: {},
	}
)

// HasStep reports whether the step belongs to the use case's flow
func (u UseCase) HasStep(s Step) bool {
	switch u {
	case UseCaseSalesOrder:
		_, ok := salesOrderSteps[s]
		return ok
	case UseCaseInvoice:
		_, ok := invoiceSteps[s]
		return ok
	}
	return false
}

// Conversation is the state-machine instance for one session. It holds the
// selected use case, the step currently awaiting input, and the accumulated
// draft. One session owns at most one Conversation at a time.
type Conversation struct {
	SessionID string           `json:"session_id"`
	UseCase   UseCase          `json:"use_case"`
	Step      Step             `json:"step"`
	Draft     TransactionDraft `json:"draft"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// New creates an empty Conversation for a session. The use case is unset
// until the first request that carries one.
func New(sessionID string) *Conversation {
	now := time.Now()
	return &Conversation{
		SessionID: sessionID,
		UseCase:   UseCaseUnset,
		Step:      StepStart,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetUseCase selects the document type being built. The use case is
// immutable once set: switching types requires a fresh conversation.
func (c *Conversation) SetUseCase(u UseCase) error {
	if !u.IsValid() {
		return shared.NewDomainError("INVALID_USE_CASE", "Unknown use case: "+u.String())
	}
	if c.UseCase != UseCaseUnset && c.UseCase != u {
		return shared.ErrInvalidState
	}
	c.UseCase = u
	c.UpdatedAt = time.Now()
	return nil
}

// AdvanceTo moves the conversation to the given step after validating it
// belongs to the current use case's flow
func (c *Conversation) AdvanceTo(step Step) error {
	if !c.UseCase.HasStep(step) {
		return shared.NewDomainError("INVALID_STEP",
			"Step "+step.String()+" is not part of the "+c.UseCase.String()+" flow")
	}
	c.Step = step
	c.UpdatedAt = time.Now()
	return nil
}

// IsTerminal reports whether the conversation has reached its end state
func (c *Conversation) IsTerminal() bool {
	return c.Step == StepEnd
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate shared state outside the store's per-session serialization.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Draft = c.Draft.clone()
	return &cp
}
