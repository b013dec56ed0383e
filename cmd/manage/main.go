package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"yatube/internal/events"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/pkg/config"
	"yatube/pkg/db"
)

func main() {
	mode := flag.String("mode", "", "Mode: 'promote', 'demote', 'create-group', 'delete-group', 'encode-event' or 'decode-event'")
	username := flag.String("username", "", "Username for promote/demote")
	title := flag.String("title", "", "Group title for create-group")
	slug := flag.String("slug", "", "Group slug for create-group/delete-group (derived from title when empty)")
	description := flag.String("description", "", "Group description for create-group")
	format := flag.String("format", "hex", "Event wire format: 'hex' or 'base64'")
	flag.Parse()

	var err error
	switch *mode {
	case "promote", "demote":
		err = withDB(func(ctx context.Context) error {
			return setStaff(ctx, *username, *mode == "promote")
		})
	case "create-group":
		err = withDB(func(ctx context.Context) error {
			return createGroup(ctx, service.GroupRequest{Title: *title, Slug: *slug, Description: *description})
		})
	case "delete-group":
		err = withDB(func(ctx context.Context) error {
			return service.NewGroupService(repository.NewGroupRepository()).Delete(ctx, *slug)
		})
	case "encode-event":
		err = encodeEvent(os.Stdin, os.Stdout, *format)
	case "decode-event":
		err = decodeEvent(os.Stdin, os.Stdout, *format)
	default:
		fmt.Fprintf(os.Stderr, "Invalid mode: %q\n", *mode)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func withDB(fn func(ctx context.Context) error) error {
	if err := config.Init(); err != nil {
		return err
	}
	if err := db.InitDB(config.GlobalConfig.Database); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return fn(ctx)
}

func setStaff(ctx context.Context, username string, staff bool) error {
	if username == "" {
		return errors.New("-username is required")
	}
	err := service.NewAuthService(repository.NewUserRepository()).SetStaff(ctx, username, staff)
	if errors.Is(err, service.ErrNotFound) {
		return fmt.Errorf("user %q does not exist", username)
	}
	if err != nil {
		return err
	}
	fmt.Printf("User %s staff=%t\n", username, staff)
	return nil
}

func createGroup(ctx context.Context, req service.GroupRequest) error {
	group, err := service.NewGroupService(repository.NewGroupRepository()).Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Created group %q (/group/%s/)\n", group.Title, group.Slug)
	return nil
}

// JSON 形式的事件, 用于手工构造或查看 kafka 中的消息
type eventJSON struct {
	Type       string                 `json:"type"`
	ActorID    uint                   `json:"actor_id"`
	OccurredAt string                 `json:"occurred_at,omitempty"`
	Payload    map[string]interface{} `json:"payload"`
}

// 把 JSON 事件编码为 protobuf (hex 或 base64)
func encodeEvent(in io.Reader, out io.Writer, format string) error {
	input, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	var raw eventJSON
	if err := json.Unmarshal(input, &raw); err != nil {
		return fmt.Errorf("unmarshaling event JSON: %w", err)
	}

	event := events.Event{Type: raw.Type, ActorID: raw.ActorID, Payload: raw.Payload}
	if raw.OccurredAt != "" {
		event.OccurredAt, err = time.Parse(time.RFC3339Nano, raw.OccurredAt)
		if err != nil {
			return fmt.Errorf("parsing occurred_at: %w", err)
		}
	}

	data, err := events.Encode(event)
	if err != nil {
		return err
	}
	switch format {
	case "hex":
		_, err = fmt.Fprintln(out, hex.EncodeToString(data))
	case "base64":
		_, err = fmt.Fprintln(out, base64.StdEncoding.EncodeToString(data))
	default:
		return fmt.Errorf("invalid format %q, use 'hex' or 'base64'", format)
	}
	return err
}

// 解码 protobuf 事件并以 JSON 输出
func decodeEvent(in io.Reader, out io.Writer, format string) error {
	input, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	text := strings.TrimSpace(string(input))

	var data []byte
	switch format {
	case "hex":
		data, err = hex.DecodeString(text)
	case "base64":
		data, err = base64.StdEncoding.DecodeString(text)
	default:
		return fmt.Errorf("invalid format %q, use 'hex' or 'base64'", format)
	}
	if err != nil {
		return fmt.Errorf("decoding %s input: %w", format, err)
	}

	event, err := events.Decode(data)
	if err != nil {
		return err
	}
	output, err := json.MarshalIndent(eventJSON{
		Type:       event.Type,
		ActorID:    event.ActorID,
		OccurredAt: event.OccurredAt.Format(time.RFC3339Nano),
		Payload:    event.Payload,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(output))
	return err
}
