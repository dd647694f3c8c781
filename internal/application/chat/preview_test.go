package chat

import (
	"testing"

	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPreview(t *testing.T) {
	conv := conversation.New("s1")
	require.NoError(t, conv.SetUseCase(conversation.UseCaseSalesOrder))
	conv.Draft.SetCustomer("Acme", "C100")
	conv.Draft.StageItem("I1", "Cement", decimal.NewFromInt(10))
	_, err := conv.Draft.CommitStagedItem(decimal.NewFromInt(5))
	require.NoError(t, err)
	conv.Draft.StageItem("I2", "Sand", decimal.RequireFromString("4.5"))
	_, err = conv.Draft.CommitStagedItem(decimal.NewFromInt(3))
	require.NoError(t, err)

	resp := renderPreview(conv, "")

	assert.Equal(t, "confirm", resp.NextAction)
	assert.Contains(t, resp.Reply, "Customer: Acme (Code: C100)")
	assert.Contains(t, resp.Reply, "1. Cement (Code: I1, Qty: 5, UnitPrice: 10)")
	assert.Contains(t, resp.Reply, "2. Sand (Code: I2, Qty: 3, UnitPrice: 4.5)")

	assert.Contains(t, resp.ReplyHTML, "<table")
	assert.Contains(t, resp.ReplyHTML, "Cement")
	assert.Contains(t, resp.ReplyHTML, `data-position="2"`)

	require.NotNil(t, resp.SummaryData)
	assert.Len(t, resp.SummaryData.Items, 2)
}

func TestRenderPreview_Notice(t *testing.T) {
	conv := conversation.New("s1")
	require.NoError(t, conv.SetUseCase(conversation.UseCaseSalesOrder))
	conv.Draft.StageItem("I1", "Cement", decimal.NewFromInt(10))
	_, err := conv.Draft.CommitStagedItem(decimal.NewFromInt(1))
	require.NoError(t, err)

	resp := renderPreview(conv, "Deleted item #2: Sand.")
	assert.True(t, len(resp.Reply) > 0)
	assert.Contains(t, resp.Reply, "Deleted item #2: Sand.\n")
}
