/*
DESCRIPTION
  gauth.go provides an http.Client authorised to act on the user's google
  account, using a cached token where one exists.

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean)

  This file is part of ytup. ytup is free software: you can
  redistribute it and/or modify it under the terms of the GNU
  General Public License as published by the Free Software
  Foundation, either version 3 of the License, or (at your option)
  any later version.

  ytup is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see <http://www.gnu.org/licenses/>.
*/

// Package gauth authorises access to google APIs for an installed app.
// Client secrets and the token cache may each be a local file or a google
// storage bucket object (gs://<bucket>/<object>).
package gauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/ausocean/utils/logging"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Authoriser builds authorised HTTP clients.
type Authoriser struct {
	// Secrets is the location of the OAuth client secrets JSON.
	Secrets string

	// Token is the location of the token cache.
	Token string

	Scopes []string
	Log    logging.Logger

	// Prompt shows the consent page URL to the user during first-time
	// authorisation. If nil, the URL is printed to stderr.
	Prompt func(authURL string) error
}

// Client returns an http.Client authorised with the cached token, running
// the authorisation flow first if there is none. Refreshed tokens are written
// back to the cache.
func (a *Authoriser) Client(ctx context.Context) (*http.Client, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, err
	}

	tok, err := loadToken(ctx, a.Token)
	switch {
	case errors.Is(err, ErrNotExist):
		a.Log.Info("no cached token, authorising", "token", a.Token)
		tok, err = a.authorise(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("could not authorise: %w", err)
		}
		err = saveToken(ctx, tok, a.Token)
		if err != nil {
			return nil, fmt.Errorf("could not save new token: %w", err)
		}
		a.Log.Info("saved new token", "token", a.Token)
	case err != nil:
		return nil, fmt.Errorf("could not load token: %w", err)
	}

	save := func(t *oauth2.Token) error {
		a.Log.Debug("token refreshed", "expiry", t.Expiry)
		return saveToken(ctx, t, a.Token)
	}
	src := NewSmartTokenSource(cfg.TokenSource(ctx, tok), tok, save, a.Log)
	return oauth2.NewClient(ctx, src), nil
}

// config creates an oauth2.Config from the client secrets.
func (a *Authoriser) config(ctx context.Context) (*oauth2.Config, error) {
	secrets, err := Read(ctx, a.Secrets)
	if err != nil {
		return nil, fmt.Errorf("could not get client secrets: %w", err)
	}

	cfg, err := google.ConfigFromJSON(secrets, a.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("could not create config from client secrets: %w", err)
	}
	return cfg, nil
}

func (a *Authoriser) prompt(authURL string) error {
	if a.Prompt != nil {
		return a.Prompt(authURL)
	}
	_, err := fmt.Fprintf(os.Stderr, "Open this link in a browser to authorise ytup:\n\n%s\n\n", authURL)
	return err
}
