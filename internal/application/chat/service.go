// Package chat implements the conversation state machine that walks a user
// through building a sales order or invoice one request at a time.
package chat

import (
	"context"

	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/domain/reference"
	"github.com/erp/chatbot/internal/domain/shared"
	"go.uber.org/zap"
)

// Resolver is the slice of the reference resolver the flows need
type Resolver interface {
	ResolveExact(ctx context.Context, kind reference.EntityKind, name string) (*reference.ResolvedEntity, error)
}

// stepHandler processes one action against the conversation. Handlers either
// fully apply their mutation and advance the step, or leave the conversation
// untouched and re-emit the same prompt; there is no partial state.
type stepHandler func(ctx context.Context, conv *conversation.Conversation, req *Request) *Response

// flowTable maps the current step to the actions recognized at that step
type flowTable map[conversation.Step]map[conversation.Step]stepHandler

// Service is the conversation orchestrator. One inbound request produces
// exactly one reply and at most one step transition; all per-session
// serialization is delegated to the Store.
type Service struct {
	store    conversation.Store
	resolver Resolver
	poster   DocumentPoster
	logger   *zap.Logger

	salesOrderFlow flowTable
	invoiceFlow    flowTable
}

// NewService creates the chat service with its per-use-case dispatch tables
func NewService(store conversation.Store, resolver Resolver, poster DocumentPoster, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:    store,
		resolver: resolver,
		poster:   poster,
		logger:   logger,
	}
	s.salesOrderFlow = flowTable{
		conversation.StepStart:           {conversation.StepStart: s.soStart},
		conversation.StepCustomerName:    {conversation.StepCustomerName: s.soCustomerName},
		conversation.StepDate:            {conversation.StepDate: s.soDate},
		conversation.StepItemDescription: {conversation.StepItemDescription: s.soItemDescription},
		conversation.StepQuantity:        {conversation.StepQuantity: s.soQuantity},
		conversation.StepAddMoreItems:    {conversation.StepAddMoreItems: s.soAddMore},
		conversation.StepPreview: {
			conversation.StepPreview:    s.soPreview,
			conversation.StepDeleteItem: s.soDeleteItem,
		},
		conversation.StepConfirm: {
			conversation.StepConfirm:    s.soConfirm,
			conversation.StepDeleteItem: s.soDeleteItem,
			conversation.StepPreview:    s.soPreview,
		},
	}
	s.invoiceFlow = flowTable{
		conversation.StepStart:         {conversation.StepStart: s.invStart},
		conversation.StepInvoiceNumber: {conversation.StepInvoiceNumber: s.invNumber},
		conversation.StepDate:          {conversation.StepDate: s.invDate},
		conversation.StepConfirm:       {conversation.StepConfirm: s.invConfirm},
	}
	return s
}

// Handle processes one exchange. It resolves or creates the session, applies
// the use-case selection if this is the first request to carry one, and
// dispatches the action. The session is cleared once the conversation
// reaches its terminal step.
func (s *Service) Handle(ctx context.Context, req *Request) (*Response, error) {
	if req.SessionID == "" {
		return nil, shared.ErrInvalidInput
	}

	var resp *Response
	err := s.store.Update(ctx, req.SessionID, func(conv *conversation.Conversation) error {
		resp = s.dispatch(ctx, conv, req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.NextAction == conversation.StepEnd.String() {
		if err := s.store.Remove(ctx, req.SessionID); err != nil {
			s.logger.Warn("failed to clear finished session",
				zap.String("session_id", req.SessionID),
				zap.Error(err),
			)
		}
	}
	return resp, nil
}

// dispatch routes the request through the use-case's flow table. Unknown
// use cases and unrecognized actions produce a generic reply with no state
// mutation; they never fail the request.
func (s *Service) dispatch(ctx context.Context, conv *conversation.Conversation, req *Request) *Response {
	if uc, ok := conversation.ParseUseCase(req.UseCase); ok {
		if conv.UseCase != conversation.UseCaseUnset && conv.UseCase != uc {
			return reply(
				"This session is already building a "+conv.UseCase.String()+". Start a new session to switch.",
				conv.Step,
			)
		}
		if conv.UseCase == conversation.UseCaseUnset {
			if err := conv.SetUseCase(uc); err != nil {
				return reply("Something went wrong. Please start again.", conversation.StepStart)
			}
		}
	}

	var flow flowTable
	switch conv.UseCase {
	case conversation.UseCaseSalesOrder:
		flow = s.salesOrderFlow
	case conversation.UseCaseInvoice:
		flow = s.invoiceFlow
	default:
		return reply("Something went wrong. Please start again.", conversation.StepStart)
	}

	handlers, ok := flow[conv.Step]
	if !ok {
		return reply("Invalid step. Please start again.", conversation.StepStart)
	}
	handler, ok := handlers[conversation.Step(req.Action)]
	if !ok {
		s.logger.Debug("unrecognized action for step",
			zap.String("session_id", conv.SessionID),
			zap.String("use_case", conv.UseCase.String()),
			zap.String("step", conv.Step.String()),
			zap.String("action", req.Action),
		)
		return reply("Invalid step.", conv.Step)
	}
	return handler(ctx, conv, req)
}

// post hands the finalized snapshot to the commit boundary. Posting is
// fire-and-forget: a failure is logged, never surfaced to the user.
func (s *Service) post(ctx context.Context, snapshot conversation.Snapshot, sessionID string) {
	if s.poster == nil {
		return
	}
	if err := s.poster.Post(ctx, snapshot); err != nil {
		s.logger.Error("document posting failed",
			zap.String("session_id", sessionID),
			zap.String("use_case", snapshot.UseCase.String()),
			zap.Error(err),
		)
	}
}
