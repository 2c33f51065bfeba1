// Package notify bridges list mutations to user-visible alerts. Messages
// fan out to open tabs over the WebSocket hub and to subscribed devices
// over Web Push. Delivery is strictly best-effort: without a hub client or
// a configured push service the bridge is a silent no-op, and per-device
// failures are logged, never surfaced to the mutation that fired them.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/addreeh/ph-shopping-list/internal/push"
	"github.com/addreeh/ph-shopping-list/internal/store"
	"github.com/addreeh/ph-shopping-list/internal/websocket"
)

// Service implements list.Notifier.
type Service struct {
	hub    *websocket.Hub
	pusher *push.Service // nil when VAPID keys are not configured
	subs   *store.PushStore
	logger *slog.Logger
}

func NewService(hub *websocket.Hub, pusher *push.Service, subs *store.PushStore, logger *slog.Logger) *Service {
	return &Service{hub: hub, pusher: pusher, subs: subs, logger: logger}
}

// Send broadcasts the alert to connected tabs and, in the background, to
// every push subscription. Expired subscriptions are pruned as they are
// discovered.
func (s *Service) Send(ctx context.Context, title, body, tag string) {
	s.hub.Broadcast(websocket.Event{Title: title, Body: body, Tag: tag})

	if s.pusher == nil {
		return
	}

	subs, err := s.subs.ListAll()
	if err != nil {
		s.logger.Error("list push subscriptions", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload := push.Payload{Title: title, Body: body, Tag: tag}
	go func() {
		for i := range subs {
			sub := subs[i]
			err := s.pusher.Send(&sub, payload)
			if err == nil {
				continue
			}
			if errors.Is(err, push.ErrExpired) {
				if err := s.subs.Delete(sub.ID); err != nil {
					s.logger.Error("prune expired subscription", "id", sub.ID, "error", err)
				}
				continue
			}
			s.logger.Error("send push", "id", sub.ID, "error", err)
		}
	}()
}
