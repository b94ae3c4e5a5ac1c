package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"quote-negotiation-backend/internal/service"
)

const notificationServiceName = "quote.v1.NotificationService"

type NotificationServer interface {
	GetNotifications(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MarkNotificationRead(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var NotificationServiceDesc = grpc.ServiceDesc{
	ServiceName: notificationServiceName,
	HandlerType: (*NotificationServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(notificationServiceName, "GetNotifications", NotificationServer.GetNotifications),
		unaryMethod(notificationServiceName, "MarkNotificationRead", NotificationServer.MarkNotificationRead),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quote/v1/notification.proto",
}

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) GetNotifications(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	page, err := int32Field(req, "page")
	if err != nil {
		return nil, toStatus(err)
	}
	pageSize, err := int32Field(req, "page_size")
	if err != nil {
		return nil, toStatus(err)
	}

	notes, count, err := h.noteSvc.GetNotifications(ctx, userID, page, pageSize)
	if err != nil {
		return nil, toStatus(err)
	}
	items := make([]any, len(notes))
	for i := range notes {
		items[i] = mapDomainNotificationToMap(&notes[i])
	}
	return structpb.NewStruct(map[string]any{
		"notifications": items,
		"total_count":   count,
	})
}

func (h *NotificationHandler) MarkNotificationRead(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := idField(req, "notification_id")
	if err != nil {
		return nil, toStatus(err)
	}
	if err := h.noteSvc.MarkAsRead(ctx, userID, id); err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"success": true})
}
