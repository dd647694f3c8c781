package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/domain/shared/valueobject"
)

func (s *Service) invStart(_ context.Context, conv *conversation.Conversation, _ *Request) *Response {
	_ = conv.AdvanceTo(conversation.StepInvoiceNumber)
	return reply("Great! Let's create an Invoice. Please provide the Invoice Number:", conversation.StepInvoiceNumber)
}

func (s *Service) invNumber(_ context.Context, conv *conversation.Conversation, req *Request) *Response {
	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		return reply("Please provide a valid invoice number.", conversation.StepInvoiceNumber)
	}

	conv.Draft.InvoiceNumber = number
	_ = conv.AdvanceTo(conversation.StepDate)
	return reply(
		fmt.Sprintf("Invoice Number recorded: %s. Now, please provide the Document Date (YYYY-MM-DD):", number),
		conversation.StepDate,
	)
}

func (s *Service) invDate(_ context.Context, conv *conversation.Conversation, req *Request) *Response {
	raw := strings.TrimSpace(req.DocumentDate)
	if raw == "" {
		return reply("Please provide a valid document date (YYYY-MM-DD).", conversation.StepDate)
	}

	date, err := valueobject.ParseDocumentDate(raw)
	if err != nil {
		return reply("Invalid date format. Please enter the date in YYYY-MM-DD format (e.g., 2025-10-29).", conversation.StepDate)
	}

	conv.Draft.DocumentDate = date
	_ = conv.AdvanceTo(conversation.StepConfirm)
	return reply(
		fmt.Sprintf("Date recorded as %s. Reply with 'confirm' to post the invoice.", date),
		conversation.StepConfirm,
	)
}

func (s *Service) invConfirm(ctx context.Context, conv *conversation.Conversation, req *Request) *Response {
	if !isAffirmative(req.Confirm) {
		return reply("Please reply with 'confirm' to post the invoice.", conversation.StepConfirm)
	}

	snapshot := conv.Draft.Snapshot(conv.UseCase)
	s.post(ctx, snapshot, conv.SessionID)
	_ = conv.AdvanceTo(conversation.StepEnd)

	summary := fmt.Sprintf("Invoice Summary:\nInvoice Number: %s\nDocument Date: %s\nInvoice confirmed and saved successfully.",
		snapshot.InvoiceNumber, snapshot.DocumentDate)
	resp := reply(summary, conversation.StepEnd)
	resp.SummaryData = &snapshot
	return resp
}
