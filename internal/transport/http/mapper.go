package http

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/proto"
	"github.com/roomcast/roomcast-server/internal/store"
)

func wireFromMessage(msg *store.Message) proto.Message {
	return proto.Message{
		ID:            msg.ID,
		User:          msg.User,
		Text:          msg.Text,
		Room:          msg.Room,
		AttachmentURL: msg.AttachmentURL,
		CreatedAt:     msg.CreatedAt,
		UpdatedAt:     msg.UpdatedAt,
	}
}

func wireFromMessages(messages []*store.Message) []proto.Message {
	return lo.Map(messages, func(msg *store.Message, _ int) proto.Message {
		return wireFromMessage(msg)
	})
}

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin, proto.InboundTypeLeave:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed payload"}
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}
		}
		kind := core.CommandJoinRoom
		if inbound.Type == proto.InboundTypeLeave {
			kind = core.CommandLeaveRoom
		}
		return &core.Command{Kind: kind, Room: join.Room}, nil
	case proto.InboundTypeSend:
		var send proto.SendData
		if err := json.Unmarshal(inbound.Data, &send); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed payload"}
		}
		if send.User == "" || send.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user and room are required"}
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Room: send.Room,
			Mutation: core.Mutation{
				Kind:          core.MutationCreate,
				User:          send.User,
				Text:          send.Text,
				Room:          send.Room,
				AttachmentURL: send.AttachmentURL,
			},
		}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessageCreated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveMessage,
			Data:  wireFromMessage(event.Message),
		}
	case core.EventMessageEdited:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventEditMessage,
			Data:  wireFromMessage(event.Message),
		}
	case core.EventMessageDeleted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventDeleteMessage,
			Data:  proto.DeleteData{ID: event.DeletedID, Room: event.Room},
		}
	case core.EventHistory:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventHistory,
			Data: proto.HistoryData{
				Room:     event.Room,
				Messages: wireFromMessages(event.Messages),
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
