package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/inovacc/fixedphrase/internal/replay"
	"github.com/inovacc/fixedphrase/internal/slack"
)

// PostMessage posts msg as userID and records it.
func (s *Service) PostMessage(ctx context.Context, userID string, msg model.PostMessage) (*slack.PostMessageResponse, error) {
	if msg.Channel == "" {
		return nil, errors.New("channel is required")
	}

	id, err := s.identity(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.PostMessage(ctx, id.Token, msg)
	if err != nil {
		return nil, err
	}

	if err := resp.Err("chat.postMessage"); err != nil {
		return resp, err
	}

	return resp, s.record(ctx, userID, msg)
}

// SetStatus sets userID's status and records it.
func (s *Service) SetStatus(ctx context.Context, userID string, status model.SetStatus) (*slack.SetProfileResponse, error) {
	id, err := s.identity(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.SetStatus(ctx, id.Token, status)
	if err != nil {
		return nil, err
	}

	if err := resp.Err("users.profile.set"); err != nil {
		return resp, err
	}

	return resp, s.record(ctx, userID, status)
}

// Replay re-issues the history entry at index for userID.
func (s *Service) Replay(ctx context.Context, userID string, index int) (replay.Result, error) {
	items := s.store.History.ListFor(ctx, userID)
	if index < 0 || index >= len(items) {
		return replay.Result{}, &HistoryIndexError{UserID: userID, Index: index, Len: len(items)}
	}

	return s.ReplayItem(ctx, items[index])
}

// ReplayItem re-issues item. Only a call Slack accepted is recorded again.
func (s *Service) ReplayItem(ctx context.Context, item model.HistoryItem) (replay.Result, error) {
	result, err := s.dispatcher.Replay(ctx, item)
	if err != nil {
		return replay.Result{}, err
	}

	if err := result.Err(); err != nil {
		return result, err
	}

	if s.recordReplays {
		if err := s.record(ctx, item.User, item.Call); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (s *Service) record(ctx context.Context, userID string, call model.Call) error {
	if err := s.store.History.AddFor(ctx, userID, model.HistoryItem{User: userID, Call: call}); err != nil {
		return fmt.Errorf("call succeeded but recording it failed: %w", err)
	}

	return nil
}
