package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "securechat.v1.ConversationService"

// Method names. Each unary method takes and returns a google.protobuf.Struct.
const (
	MethodGetSessionStatus = "GetSessionStatus"

	MethodGetChat                  = "GetChat"
	MethodListActiveChats          = "ListActiveChats"
	MethodListArchivedChats        = "ListArchivedChats"
	MethodListContacts             = "ListContacts"
	MethodListBlockedContacts      = "ListBlockedContacts"
	MethodIsPinned                 = "IsPinned"
	MethodIsConversationStarred    = "IsConversationStarred"
	MethodListStarredMessages      = "ListStarredMessages"
	MethodListStarredConversations = "ListStarredConversations"
	MethodGetNotifications         = "GetNotifications"
	MethodSearchChats              = "SearchChats"
	MethodSearchMessages           = "SearchMessages"
	MethodGetStats                 = "GetStats"

	MethodSendMessage         = "SendMessage"
	MethodSendAttachment      = "SendAttachment"
	MethodDeleteChat          = "DeleteChat"
	MethodArchiveChat         = "ArchiveChat"
	MethodUnarchiveChat       = "UnarchiveChat"
	MethodStarMessage         = "StarMessage"
	MethodStarConversation    = "StarConversation"
	MethodDeleteMessage       = "DeleteMessage"
	MethodMarkAsRead          = "MarkAsRead"
	MethodMarkAsUnread        = "MarkAsUnread"
	MethodMarkAllAsRead       = "MarkAllAsRead"
	MethodDeleteAllChats      = "DeleteAllChats"
	MethodCreateNewChat       = "CreateNewChat"
	MethodPinChat             = "PinChat"
	MethodUnpinChat           = "UnpinChat"
	MethodBlockContact        = "BlockContact"
	MethodUnblockContact      = "UnblockContact"
	MethodToggleNotifications = "ToggleNotifications"
	MethodResetDemo           = "ResetDemo"

	MethodListGIFs      = "ListGIFs"
	MethodListImages    = "ListImages"
	MethodListLocations = "ListLocations"

	MethodWatchEvents = "WatchEvents"
)

// FullMethod returns the gRPC path of a method, e.g.
// "/securechat.v1.ConversationService/GetChat".
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// Server is implemented by ConversationService; it only serves as the
// descriptor's handler type.
type Server interface {
	GetSessionStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchEvents(*structpb.Struct, grpc.ServerStream) error
}

type unaryFunc func(*ConversationService, context.Context, *structpb.Struct) (*structpb.Struct, error)

var unaryMethods = []struct {
	name string
	fn   unaryFunc
}{
	{MethodGetSessionStatus, (*ConversationService).GetSessionStatus},

	{MethodGetChat, (*ConversationService).GetChat},
	{MethodListActiveChats, (*ConversationService).ListActiveChats},
	{MethodListArchivedChats, (*ConversationService).ListArchivedChats},
	{MethodListContacts, (*ConversationService).ListContacts},
	{MethodListBlockedContacts, (*ConversationService).ListBlockedContacts},
	{MethodIsPinned, (*ConversationService).IsPinned},
	{MethodIsConversationStarred, (*ConversationService).IsConversationStarred},
	{MethodListStarredMessages, (*ConversationService).ListStarredMessages},
	{MethodListStarredConversations, (*ConversationService).ListStarredConversations},
	{MethodGetNotifications, (*ConversationService).GetNotifications},
	{MethodSearchChats, (*ConversationService).SearchChats},
	{MethodSearchMessages, (*ConversationService).SearchMessages},
	{MethodGetStats, (*ConversationService).GetStats},

	{MethodSendMessage, (*ConversationService).SendMessage},
	{MethodSendAttachment, (*ConversationService).SendAttachment},
	{MethodDeleteChat, (*ConversationService).DeleteChat},
	{MethodArchiveChat, (*ConversationService).ArchiveChat},
	{MethodUnarchiveChat, (*ConversationService).UnarchiveChat},
	{MethodStarMessage, (*ConversationService).StarMessage},
	{MethodStarConversation, (*ConversationService).StarConversation},
	{MethodDeleteMessage, (*ConversationService).DeleteMessage},
	{MethodMarkAsRead, (*ConversationService).MarkAsRead},
	{MethodMarkAsUnread, (*ConversationService).MarkAsUnread},
	{MethodMarkAllAsRead, (*ConversationService).MarkAllAsRead},
	{MethodDeleteAllChats, (*ConversationService).DeleteAllChats},
	{MethodCreateNewChat, (*ConversationService).CreateNewChat},
	{MethodPinChat, (*ConversationService).PinChat},
	{MethodUnpinChat, (*ConversationService).UnpinChat},
	{MethodBlockContact, (*ConversationService).BlockContact},
	{MethodUnblockContact, (*ConversationService).UnblockContact},
	{MethodToggleNotifications, (*ConversationService).ToggleNotifications},
	{MethodResetDemo, (*ConversationService).ResetDemo},

	{MethodListGIFs, (*ConversationService).ListGIFs},
	{MethodListImages, (*ConversationService).ListImages},
	{MethodListLocations, (*ConversationService).ListLocations},
}

// ServiceDesc describes the conversation service for grpc.Server.RegisterService
// and for client streams.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods:     methodDescs(),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatchEvents,
			Handler:       watchEventsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "securechat/v1/conversation.proto",
}

// Register attaches svc to s.
func Register(s grpc.ServiceRegistrar, svc *ConversationService) {
	s.RegisterService(&ServiceDesc, svc)
}

func methodDescs() []grpc.MethodDesc {
	out := make([]grpc.MethodDesc, 0, len(unaryMethods))
	for _, m := range unaryMethods {
		out = append(out, grpc.MethodDesc{MethodName: m.name, Handler: unaryHandler(m.name, m.fn)})
	}
	return out
}

func unaryHandler(name string, fn unaryFunc) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		svc := srv.(*ConversationService)
		if interceptor == nil {
			return fn(svc, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return fn(svc, ctx, req.(*structpb.Struct))
		})
	}
}

func watchEventsHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(*ConversationService).WatchEvents(in, stream)
}
