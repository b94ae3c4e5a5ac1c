package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"quote-negotiation-backend/internal/service"
)

const quoteServiceName = "quote.v1.QuoteService"

// QuoteServer is the handler contract of quote.v1.QuoteService.
type QuoteServer interface {
	CreateQuote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetQuote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListQuotesForRental(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ManagerAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReviseQuote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CustomerAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var QuoteServiceDesc = grpc.ServiceDesc{
	ServiceName: quoteServiceName,
	HandlerType: (*QuoteServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(quoteServiceName, "CreateQuote", QuoteServer.CreateQuote),
		unaryMethod(quoteServiceName, "GetQuote", QuoteServer.GetQuote),
		unaryMethod(quoteServiceName, "ListQuotesForRental", QuoteServer.ListQuotesForRental),
		unaryMethod(quoteServiceName, "ManagerAction", QuoteServer.ManagerAction),
		unaryMethod(quoteServiceName, "ReviseQuote", QuoteServer.ReviseQuote),
		unaryMethod(quoteServiceName, "CustomerAction", QuoteServer.CustomerAction),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quote/v1/quote.proto",
}

type QuoteHandler struct {
	quoteSvc service.QuoteService
}

func NewQuoteHandler(quoteSvc service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteSvc: quoteSvc}
}

func (h *QuoteHandler) CreateQuote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rentalID, err := idField(req, "rental_id")
	if err != nil {
		return nil, toStatus(err)
	}
	fee, err := optionalDecimal(req, "customization_fee")
	if err != nil {
		return nil, toStatus(err)
	}

	q, err := h.quoteSvc.CreateQuote(ctx, rentalID, fee, stringField(req, "staff_description"))
	if err != nil {
		return nil, toStatus(err)
	}
	return mapDomainQuoteToStruct(q)
}

func (h *QuoteHandler) GetQuote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	quoteID, err := idField(req, "quote_id")
	if err != nil {
		return nil, toStatus(err)
	}
	q, err := h.quoteSvc.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, toStatus(err)
	}
	return mapDomainQuoteToStruct(q)
}

func (h *QuoteHandler) ListQuotesForRental(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rentalID, err := idField(req, "rental_id")
	if err != nil {
		return nil, toStatus(err)
	}
	list, err := h.quoteSvc.ListQuotesForRental(ctx, rentalID)
	if err != nil {
		return nil, toStatus(err)
	}
	return mapDomainQuoteListToStruct(list)
}

func (h *QuoteHandler) ManagerAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	quoteID, version, err := actionTarget(req)
	if err != nil {
		return nil, toStatus(err)
	}
	q, err := h.quoteSvc.ManagerAction(ctx, quoteID, service.ReviewDecision(stringField(req, "decision")), stringField(req, "feedback"), version)
	if err != nil {
		return nil, toStatus(err)
	}
	return mapDomainQuoteToStruct(q)
}

func (h *QuoteHandler) ReviseQuote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	quoteID, version, err := actionTarget(req)
	if err != nil {
		return nil, toStatus(err)
	}
	rev, err := revisionFromStruct(req)
	if err != nil {
		return nil, toStatus(err)
	}
	q, err := h.quoteSvc.ReviseQuote(ctx, quoteID, rev, version)
	if err != nil {
		return nil, toStatus(err)
	}
	return mapDomainQuoteToStruct(q)
}

func (h *QuoteHandler) CustomerAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	quoteID, version, err := actionTarget(req)
	if err != nil {
		return nil, toStatus(err)
	}
	q, err := h.quoteSvc.CustomerAction(ctx, quoteID, service.ReviewDecision(stringField(req, "decision")), stringField(req, "reason"), version)
	if err != nil {
		return nil, toStatus(err)
	}
	return mapDomainQuoteToStruct(q)
}

func actionTarget(req *structpb.Struct) (quoteID, expectedVersion int32, err error) {
	if quoteID, err = idField(req, "quote_id"); err != nil {
		return 0, 0, err
	}
	if expectedVersion, err = int32Field(req, "expected_version"); err != nil {
		return 0, 0, err
	}
	return quoteID, expectedVersion, nil
}
