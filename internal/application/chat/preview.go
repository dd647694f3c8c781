package chat

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/erp/chatbot/internal/domain/conversation"
)

// previewTmpl renders the rich HTML variant of the draft summary. The plain
// text reply remains the fallback for clients that cannot render HTML.
var previewTmpl = template.Must(template.New("preview").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
}).Parse(`<div id="preview-container">
<div class="preview-card">
  <h3>Sales Order Preview</h3>
  <div><span class="label">Customer:</span> {{.CustomerName}}{{if .CustomerCode}} ({{.CustomerCode}}){{end}}</div>
  <div><span class="label">Document Date:</span> {{.DocumentDate}}</div>
  <table class="preview-items">
    <thead>
      <tr><th>#</th><th>Item Name</th><th>Code</th><th>Qty</th><th>Unit Price</th><th>Action</th></tr>
    </thead>
    <tbody>
    {{- range $i, $item := .Items}}
      <tr>
        <td>{{add $i 1}}</td>
        <td>{{$item.ItemName}}</td>
        <td>{{$item.ItemCode}}</td>
        <td>{{$item.Quantity}}</td>
        <td>{{$item.UnitPrice}}</td>
        <td><button class="delete-item" data-position="{{add $i 1}}">Delete</button></td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  <div>Please type <b>confirm</b> to post the document.</div>
</div>
</div>`))

// renderPreview builds the full preview response from the conversation's
// draft. The notice, when non-empty, is prepended to the text reply (used by
// delete to report what was removed before re-rendering).
func renderPreview(conv *conversation.Conversation, notice string) *Response {
	snapshot := conv.Draft.Snapshot(conv.UseCase)

	var b strings.Builder
	if notice != "" {
		b.WriteString(notice)
		b.WriteString("\n")
	}
	b.WriteString("Sales Order Preview:\n")
	fmt.Fprintf(&b, "Customer: %s", snapshot.CustomerName)
	if snapshot.CustomerCode != "" {
		fmt.Fprintf(&b, " (Code: %s)", snapshot.CustomerCode)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Document Date: %s\n", snapshot.DocumentDate)
	b.WriteString("Items:\n")
	for i, item := range snapshot.Items {
		fmt.Fprintf(&b, "  %d. %s (Code: %s, Qty: %s, UnitPrice: %s)\n",
			i+1, item.ItemName, item.ItemCode, item.Quantity, item.UnitPrice)
	}
	b.WriteString("Type 'confirm' to post the document.")

	var html strings.Builder
	if err := previewTmpl.Execute(&html, snapshot); err != nil {
		// Text fallback still carries the full summary
		html.Reset()
	}

	return &Response{
		Reply:       b.String(),
		ReplyHTML:   html.String(),
		NextAction:  conversation.StepConfirm.String(),
		SummaryData: &snapshot,
	}
}
