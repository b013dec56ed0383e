// Package events publishes domain events (new posts, comments, follows) to a message bus.
//
// Publishing is best effort: callers log a failed publish and carry on, the write that
// produced the event has already been committed.
package events

import (
	"context"
	"fmt"
	"time"
	"yatube/pkg/config"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	PostCreated      = "post.created"
	PostEdited       = "post.edited"
	CommentCreated   = "comment.created"
	AuthorFollowed   = "author.followed"
	AuthorUnfollowed = "author.unfollowed"
)

type Event struct {
	Type       string
	ActorID    uint
	OccurredAt time.Time
	// Payload 的值必须能被 structpb.NewValue 接受
	Payload map[string]interface{}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// 根据配置创建发布器, 未启用 kafka 时返回空实现
func New(cfg config.KafkaConfig) (Publisher, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}

// Encode 把事件编码为 protobuf Struct:
// {type, actor_id, occurred_at (RFC3339), payload}
func Encode(event Event) ([]byte, error) {
	payload, err := structpb.NewStruct(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	envelope := &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":        structpb.NewStringValue(event.Type),
		"actor_id":    structpb.NewNumberValue(float64(event.ActorID)),
		"occurred_at": structpb.NewStringValue(timestamppb.New(occurredAt).AsTime().Format(time.RFC3339Nano)),
		"payload":     structpb.NewStructValue(payload),
	}}
	return proto.Marshal(envelope)
}

// Decode 是 Encode 的逆过程, 供消费者使用
func Decode(data []byte) (Event, error) {
	var envelope structpb.Struct
	if err := proto.Unmarshal(data, &envelope); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	fields := envelope.GetFields()

	event := Event{
		Type:    fields["type"].GetStringValue(),
		ActorID: uint(fields["actor_id"].GetNumberValue()),
		Payload: fields["payload"].GetStructValue().AsMap(),
	}
	if ts := fields["occurred_at"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Event{}, fmt.Errorf("invalid occurred_at: %w", err)
		}
		event.OccurredAt = t
	}
	return event, nil
}

// Nop 丢弃所有事件
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Close() error { return nil }
