package slack

import (
	"context"
	"fmt"
	"strings"

	slackgo "github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/example/shiftcall/internal/internaltypes"
)

const pageSize = 200

// Sink posts announcements with a bot token.
type Sink struct {
	api *slackgo.Client
	log *zap.Logger
}

func New(token string, log *zap.Logger, opts ...slackgo.Option) *Sink {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sink{api: slackgo.New(token, opts...), log: log}
}

// Resolve looks up a channel id by name. A leading '#' is ignored.
func (s *Sink) Resolve(ctx context.Context, channel string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(channel), "#")
	if name == "" {
		return "", fmt.Errorf("%w: channel name is empty", internaltypes.ErrSink)
	}

	params := &slackgo.GetConversationsParameters{
		ExcludeArchived: true,
		Limit:           pageSize,
		Types:           []string{"public_channel", "private_channel"},
	}
	pages := 0
	for {
		channels, cursor, err := s.api.GetConversationsContext(ctx, params)
		if err != nil {
			return "", fmt.Errorf("%w: conversations.list: %v", internaltypes.ErrSink, err)
		}
		pages++
		for _, c := range channels {
			if c.Name == name {
				s.log.Debug("resolved slack channel", zap.String("name", name), zap.String("id", c.ID), zap.Int("pages", pages))
				return c.ID, nil
			}
		}
		if cursor == "" {
			break
		}
		params.Cursor = cursor
	}
	return "", fmt.Errorf("%w: %w: channel %q", internaltypes.ErrSink, internaltypes.ErrNotFound, name)
}

func (s *Sink) Post(ctx context.Context, channelID, text string) error {
	_, ts, err := s.api.PostMessageContext(ctx, channelID, slackgo.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("%w: chat.postMessage: %v", internaltypes.ErrSink, err)
	}
	s.log.Info("posted announcement", zap.String("channel", channelID), zap.String("ts", ts))
	return nil
}
