package core

import (
	"context"
	"fmt"

	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/inovacc/fixedphrase/internal/slack"
)

// Connect authorizes a user through the browser with the app registered under
// clientID (the most recent app when empty) and stores the resulting identity.
func (s *Service) Connect(ctx context.Context, clientID string) (model.Identity, error) {
	app, err := s.application(ctx, clientID)
	if err != nil {
		return model.Identity{}, err
	}

	s.logger.Info("starting Slack authorization", "application", app.Name)

	access, err := slack.RunOAuthFlow(ctx, s.client, slack.OAuthConfig{
		Application: app,
		UserScope:   s.oauth.UserScope,
		RedirectURI: s.oauth.RedirectURI,
		Port:        s.oauth.Port,
		Timeout:     s.oauth.Timeout,
	}, s.openBrowser)
	if err != nil {
		return model.Identity{}, fmt.Errorf("authorization failed: %w", err)
	}

	token := access.AuthedUser.AccessToken
	if token == "" {
		return model.Identity{}, fmt.Errorf("authorization returned no user token")
	}

	user, err := s.client.UsersInfo(ctx, token, access.AuthedUser.ID)
	if err != nil {
		return model.Identity{}, err
	}

	if err := user.Err("users.info"); err != nil {
		return model.Identity{}, err
	}

	team, err := s.client.TeamInfo(ctx, token)
	if err != nil {
		return model.Identity{}, err
	}

	if err := team.Err("team.info"); err != nil {
		return model.Identity{}, err
	}

	identity := model.Identity{
		User:  user.User,
		Team:  team.Team,
		Token: token,
	}

	if err := s.store.Identities.Add(ctx, identity); err != nil {
		return model.Identity{}, fmt.Errorf("failed to save identity: %w", err)
	}

	s.logger.Info("identity connected", "user", identity.User.ID, "team", identity.Team.ID)

	return identity, nil
}

// Team looks up the team of userID's identity.
func (s *Service) Team(ctx context.Context, userID string) (model.Team, error) {
	id, err := s.identity(ctx, userID)
	if err != nil {
		return model.Team{}, err
	}

	resp, err := s.client.TeamInfo(ctx, id.Token)
	if err != nil {
		return model.Team{}, err
	}

	if err := resp.Err("team.info"); err != nil {
		return model.Team{}, err
	}

	return resp.Team, nil
}

// Profile looks up the current profile of userID.
func (s *Service) Profile(ctx context.Context, userID string) (model.User, error) {
	id, err := s.identity(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	resp, err := s.client.UsersInfo(ctx, id.Token, userID)
	if err != nil {
		return model.User{}, err
	}

	if err := resp.Err("users.info"); err != nil {
		return model.User{}, err
	}

	return resp.User, nil
}

// Channels lists the channels visible to userID.
func (s *Service) Channels(ctx context.Context, userID string) ([]model.Channel, error) {
	id, err := s.identity(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.ChannelsList(ctx, id.Token)
	if err != nil {
		return nil, err
	}

	if err := resp.Err("channels.list"); err != nil {
		return nil, err
	}

	return resp.Channels, nil
}

// Emoji lists the custom emoji of userID's team.
func (s *Service) Emoji(ctx context.Context, userID string, limit int) (map[string]string, error) {
	id, err := s.identity(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.EmojiList(ctx, id.Token, limit)
	if err != nil {
		return nil, err
	}

	if err := resp.Err("emoji.list"); err != nil {
		return nil, err
	}

	return resp.Emoji, nil
}
