/*
DESCRIPTION
  callback.go provides the installed-app authorisation flow. The user is sent
  to google's consent page, which redirects back to a short-lived server on the
  loopback interface with the authorisation code.

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

package gauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Authorisation related constants.
const (
	callbackPath = "/"
	loopbackAddr = "127.0.0.1:0"
	doneMessage  = "ytup is authorised, you can close this window."
)

// ErrDenied is returned when the user declines the authorisation request.
var ErrDenied = errors.New("authorisation denied")

// callbackResult carries the outcome of the redirect to the callback server.
type callbackResult struct {
	code string
	err  error
}

// newCallbackApp returns the fiber app that receives the consent redirect.
// Requests whose state does not match are rejected and do not end the flow.
// The first valid redirect is sent on results, which must be buffered.
func newCallbackApp(state string, results chan<- callbackResult) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get(callbackPath, func(c *fiber.Ctx) error {
		if c.Query("state") != state {
			return c.Status(fiber.StatusBadRequest).SendString("state mismatch")
		}

		// Query values refer to fiber's request buffer, so they are copied
		// before leaving the handler.
		var res callbackResult
		switch {
		case c.Query("error") != "":
			res.err = fmt.Errorf("%w: %s", ErrDenied, strings.Clone(c.Query("error")))
		case c.Query("code") == "":
			return c.Status(fiber.StatusBadRequest).SendString("missing code")
		default:
			res.code = strings.Clone(c.Query("code"))
		}

		select {
		case results <- res:
		default:
		}
		if res.err != nil {
			return c.Status(fiber.StatusForbidden).SendString(res.err.Error())
		}
		return c.SendString(doneMessage)
	})
	return app
}

// authorise runs the installed-app flow for cfg and returns the new token.
func (a *Authoriser) authorise(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", loopbackAddr)
	if err != nil {
		return nil, fmt.Errorf("could not listen for authorisation callback: %w", err)
	}

	state := uuid.NewString()
	results := make(chan callbackResult, 1)
	app := newCallbackApp(state, results)
	go func() {
		err := app.Listener(ln)
		if err != nil {
			a.Log.Debug("callback server stopped", "error", err)
		}
	}()
	defer func() {
		err := app.Shutdown()
		if err != nil {
			a.Log.Warning("could not shut down callback server", "error", err)
		}
		ln.Close()
	}()

	flowCfg := *cfg
	flowCfg.RedirectURL = "http://" + ln.Addr().String() + callbackPath
	authURL := flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	a.Log.Info("waiting for authorisation", "redirect", flowCfg.RedirectURL)

	err = a.prompt(authURL)
	if err != nil {
		return nil, fmt.Errorf("could not prompt for authorisation: %w", err)
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := flowCfg.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("could not exchange authorisation code: %w", err)
	}
	return tok, nil
}
