// Package grpc exposes the quote and notification services over gRPC. The
// services are declared by hand and carry google.protobuf.Struct messages, so
// any client with the well-known types can call them without generated stubs.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// unaryMethod adapts a Struct-in, Struct-out handler method to a grpc.MethodDesc.
func unaryMethod[T any](serviceName, methodName string, call func(T, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := "/" + serviceName + "/" + methodName
	return grpc.MethodDesc{
		MethodName: methodName,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			h := srv.(T)
			if interceptor == nil {
				return call(h, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(h, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// Register installs both services on s.
func Register(s *grpc.Server, quotes *QuoteHandler, notes *NotificationHandler) {
	s.RegisterService(&QuoteServiceDesc, quotes)
	s.RegisterService(&NotificationServiceDesc, notes)
}
