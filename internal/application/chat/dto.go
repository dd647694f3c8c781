package chat

import "github.com/erp/chatbot/internal/domain/conversation"

// Request is one inbound conversational exchange. Action selects the step
// handler; the remaining fields are action-specific payloads and are ignored
// by steps that do not use them.
type Request struct {
	SessionID string `json:"session_id" binding:"required"`
	UseCase   string `json:"use_case"`
	Action    string `json:"action" binding:"required"`

	CustomerName    string `json:"customer_name"`
	InvoiceNumber   string `json:"invoice_number"`
	DocumentDate    string `json:"document_date"`
	ItemDescription string `json:"itm_description"`
	Quantity        string `json:"quantity"`
	AddMoreItems    string `json:"add_more_items"`
	DeleteIndex     *int   `json:"delete_index"`
	Confirm         string `json:"confirm"`
}

// Response is the reply to one exchange. NextAction tells the client which
// action tag the conversation expects next.
type Response struct {
	Reply       string                 `json:"reply"`
	ReplyHTML   string                 `json:"reply_html,omitempty"`
	NextAction  string                 `json:"next_action"`
	SummaryData *conversation.Snapshot `json:"summary_data,omitempty"`
}

func reply(text string, next conversation.Step) *Response {
	return &Response{Reply: text, NextAction: next.String()}
}
