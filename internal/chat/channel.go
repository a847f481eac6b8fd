package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/codecraftwt/yau-coach-panel/internal/realtime"
	"github.com/codecraftwt/yau-coach-panel/internal/repository"
)

// DefaultHistoryLimit caps how many recent messages a room snapshot carries.
const DefaultHistoryLimit = 50

type messageStore interface {
	Create(ctx context.Context, input repository.CreateGroupMessageInput) (*models.GroupMessage, error)
	ListRecentByRoom(ctx context.Context, roomID string, limit int) ([]models.GroupMessage, error)
}

// Channel is the group chat feed for team rooms. Subscribers receive full
// room snapshots in display order (oldest first): one right after
// subscribing, then a fresh one after every send to the room. Snapshots for
// one subscriber are delivered sequentially, so a later snapshot never
// arrives before an earlier one.
type Channel struct {
	registry *realtime.Registry
	broker   *realtime.Broker
	messages messageStore
	limit    int
}

func NewChannel(registry *realtime.Registry, broker *realtime.Broker, messages messageStore) *Channel {
	return &Channel{
		registry: registry,
		broker:   broker,
		messages: messages,
		limit:    DefaultHistoryLimit,
	}
}

func roomTopic(roomID string) string {
	return "room:" + roomID
}

// Subscribe attaches onUpdate to a room's feed through the listener registry,
// so a second Subscribe for the same room tears the first one down. A failed
// snapshot query degrades to an empty batch rather than killing the feed.
func (c *Channel) Subscribe(roomID string, onUpdate func([]models.GroupMessage)) (func(), error) {
	topic := roomTopic(roomID)
	return c.registry.Subscribe(topic, func() (func(), error) {
		cancel := c.broker.Subscribe(topic, func() {
			messages, err := c.Snapshot(context.Background(), roomID)
			if err != nil {
				log.Printf("chat: snapshot for room %s failed: %v", roomID, err)
				onUpdate([]models.GroupMessage{})
				return
			}
			onUpdate(messages)
		})
		return cancel, nil
	})
}

// Snapshot loads the room's recent history in display order: the newest
// messages are fetched descending and reversed, so the result is ascending
// by timestamp and always ends with the latest message.
func (c *Channel) Snapshot(ctx context.Context, roomID string) ([]models.GroupMessage, error) {
	messages, err := c.messages.ListRecentByRoom(ctx, roomID, c.limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Send persists a message to the room and wakes every room subscriber. The
// stored record, including the database-assigned timestamp, is returned.
func (c *Channel) Send(ctx context.Context, roomID string, sender *models.Profile, text string) (*models.GroupMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	message, err := c.messages.Create(ctx, repository.CreateGroupMessageInput{
		RoomID:     roomID,
		SenderID:   sender.UserID,
		SenderName: sender.DisplayName(),
		SenderRole: sender.Role,
		Text:       text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	c.broker.Publish(roomTopic(roomID))
	return message, nil
}

// Unsubscribe tears down the room's feed if one is live.
func (c *Channel) Unsubscribe(roomID string) {
	c.registry.Unsubscribe(roomTopic(roomID))
}
