package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/domain/reference"
	"github.com/erp/chatbot/internal/domain/shared"
	"github.com/erp/chatbot/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// affirmative tokens accepted at the confirm step
func isAffirmative(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "confirm", "yes", "y":
		return true
	}
	return false
}

func (s *Service) soStart(_ context.Context, conv *conversation.Conversation, _ *Request) *Response {
	_ = conv.AdvanceTo(conversation.StepCustomerName)
	return reply("Great! Let's create a Sales Order. Please provide the Customer Name:", conversation.StepCustomerName)
}

// soCustomerName records the raw name, then enriches it with the canonical
// code when the resolver finds a match. A miss (or an unavailable backend)
// is non-blocking: the flow advances to the date step carrying the name as
// given. Only empty input re-prompts.
func (s *Service) soCustomerName(ctx context.Context, conv *conversation.Conversation, req *Request) *Response {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return reply("Please provide a valid Customer Name.", conversation.StepCustomerName)
	}

	entity, err := s.resolver.ResolveExact(ctx, reference.EntityKindCustomer, name)
	if err != nil {
		conv.Draft.SetCustomer(name, "")
		_ = conv.AdvanceTo(conversation.StepDate)
		return reply(
			fmt.Sprintf("Customer '%s' is not in master data; recorded as provided. Now, please provide the Document Date (YYYY-MM-DD):", name),
			conversation.StepDate,
		)
	}

	conv.Draft.SetCustomer(entity.Name, entity.Code)
	_ = conv.AdvanceTo(conversation.StepDate)
	return reply(
		fmt.Sprintf("Customer recorded: %s (Code: %s). Now, please provide the Document Date (YYYY-MM-DD):", entity.Name, entity.Code),
		conversation.StepDate,
	)
}

func (s *Service) soDate(_ context.Context, conv *conversation.Conversation, req *Request) *Response {
	raw := strings.TrimSpace(req.DocumentDate)
	if raw == "" {
		return reply("Please provide a valid document date (YYYY-MM-DD).", conversation.StepDate)
	}

	date, err := valueobject.ParseDocumentDate(raw)
	if err != nil {
		return reply("Invalid date format. Please enter the date in YYYY-MM-DD format (e.g., 2025-10-29).", conversation.StepDate)
	}

	conv.Draft.DocumentDate = date
	_ = conv.AdvanceTo(conversation.StepItemDescription)
	return reply(
		fmt.Sprintf("Date recorded as %s. Please provide the first Item Description:", date),
		conversation.StepItemDescription,
	)
}

// soItemDescription stages a resolved item for the quantity step. Unlike the
// customer step, an unresolved item blocks: the user is re-prompted until a
// known item is named, since an order line without a canonical code and
// price cannot be posted.
func (s *Service) soItemDescription(ctx context.Context, conv *conversation.Conversation, req *Request) *Response {
	desc := strings.TrimSpace(req.ItemDescription)
	if desc == "" {
		return reply("Please provide a valid item description.", conversation.StepItemDescription)
	}

	entity, err := s.resolver.ResolveExact(ctx, reference.EntityKindItem, desc)
	if err != nil {
		return reply(
			fmt.Sprintf("Item '%s' not found in the item master. Please enter a valid Item Description:", desc),
			conversation.StepItemDescription,
		)
	}

	conv.Draft.StageItem(entity.Code, entity.Name, entity.UnitPrice)
	_ = conv.AdvanceTo(conversation.StepQuantity)
	return reply(
		fmt.Sprintf("Item recorded: %s (Code: %s, Unit Price: %s). Now, please enter the Item Quantity:",
			entity.Name, entity.Code, entity.UnitPrice),
		conversation.StepQuantity,
	)
}

func (s *Service) soQuantity(_ context.Context, conv *conversation.Conversation, req *Request) *Response {
	raw := strings.TrimSpace(req.Quantity)
	if raw == "" {
		return reply("Please provide a valid quantity.", conversation.StepQuantity)
	}

	qty, err := decimal.NewFromString(raw)
	if err != nil || qty.LessThanOrEqual(decimal.Zero) {
		return reply("Quantity must be a positive number. Please enter the Item Quantity:", conversation.StepQuantity)
	}

	count, err := conv.Draft.CommitStagedItem(qty)
	if err != nil {
		if errors.Is(err, shared.ErrNoStagedItem) {
			_ = conv.AdvanceTo(conversation.StepItemDescription)
			return reply("No item is staged. Please provide an item description first.", conversation.StepItemDescription)
		}
		return reply("Quantity must be a positive number. Please enter the Item Quantity:", conversation.StepQuantity)
	}

	_ = conv.AdvanceTo(conversation.StepAddMoreItems)
	return reply(
		fmt.Sprintf("Item #%d added successfully. Do you want to add another item? (yes/no)", count),
		conversation.StepAddMoreItems,
	)
}

func (s *Service) soAddMore(_ context.Context, conv *conversation.Conversation, req *Request) *Response {
	switch strings.ToLower(strings.TrimSpace(req.AddMoreItems)) {
	case "yes", "y":
		_ = conv.AdvanceTo(conversation.StepItemDescription)
		return reply("Okay, please provide the next Item Description:", conversation.StepItemDescription)
	case "no", "n":
		_ = conv.AdvanceTo(conversation.StepPreview)
		return reply("Alright, preparing the Sales Order summary. Send 'preview' to review it.", conversation.StepPreview)
	default:
		return reply("Please reply with 'yes' or 'no'.", conversation.StepAddMoreItems)
	}
}

// soPreview renders the read-only draft snapshot and always hands the
// conversation to the confirm step
func (s *Service) soPreview(_ context.Context, conv *conversation.Conversation, _ *Request) *Response {
	_ = conv.AdvanceTo(conversation.StepConfirm)
	return renderPreview(conv, "")
}

// soDeleteItem removes one line by its 1-based position. An out-of-range
// position is reported without touching the list; deleting the last
// remaining item routes back to item entry instead of an empty preview.
func (s *Service) soDeleteItem(_ context.Context, conv *conversation.Conversation, req *Request) *Response {
	if req.DeleteIndex == nil {
		return reply("Please specify which item number to delete.", conversation.StepPreview)
	}

	pos := *req.DeleteIndex
	removed, err := conv.Draft.DeleteItemAt(pos)
	if err != nil {
		_ = conv.AdvanceTo(conversation.StepPreview)
		return reply(fmt.Sprintf("Invalid item number: %d.", pos), conversation.StepPreview)
	}

	notice := fmt.Sprintf("Deleted item #%d: %s.", pos, removed.ItemName)
	if conv.Draft.ItemCount() == 0 {
		_ = conv.AdvanceTo(conversation.StepItemDescription)
		return reply(notice+" No items left. Please provide a new Item Description:", conversation.StepItemDescription)
	}

	_ = conv.AdvanceTo(conversation.StepConfirm)
	return renderPreview(conv, notice)
}

// soConfirm accepts only an affirmative token. On confirmation the draft
// snapshot crosses the posting boundary and the conversation terminates.
func (s *Service) soConfirm(ctx context.Context, conv *conversation.Conversation, req *Request) *Response {
	if !isAffirmative(req.Confirm) {
		return reply("Please reply with 'confirm' to post the Sales Order.", conversation.StepConfirm)
	}

	snapshot := conv.Draft.Snapshot(conv.UseCase)
	s.post(ctx, snapshot, conv.SessionID)
	_ = conv.AdvanceTo(conversation.StepEnd)
	return reply("Sales Order confirmed and saved successfully.", conversation.StepEnd)
}
