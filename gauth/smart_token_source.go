/*
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
	"sync"

	"github.com/ausocean/utils/logging"
	"golang.org/x/oauth2"
)

// tokenNotifyFunc is a callback function signature for notifying when a token
// event happens.
type tokenNotifyFunc func(*oauth2.Token) error

// SmartTokenSource implements the TokenSource interface, with an additional
// callback function which is called when the underlying token is refreshed.
type SmartTokenSource struct {
	mu  sync.Mutex
	src oauth2.TokenSource
	log logging.Logger

	// Callback function which is called when the token is refreshed.
	RefreshNotifyFunc tokenNotifyFunc

	// Most recent known token.
	curr *oauth2.Token
}

// NewSmartTokenSource returns a SmartTokenSource that gets tokens from src,
// starting from tok. refreshCallback is called whenever the token changes.
func NewSmartTokenSource(src oauth2.TokenSource, tok *oauth2.Token, refreshCallback tokenNotifyFunc, log logging.Logger) *SmartTokenSource {
	return &SmartTokenSource{
		src:               src,
		log:               log,
		RefreshNotifyFunc: refreshCallback,
		curr:              tok,
	}
}

// Token returns a Token with a valid Access Token, calling the RefreshNotifyFunc
// callback if the token is refreshed.
func (s *SmartTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	if s.curr != nil && s.curr.AccessToken == tok.AccessToken {
		return s.curr, nil
	}
	s.curr = tok
	if s.RefreshNotifyFunc == nil {
		return s.curr, nil
	}

	// A failed notification does not stop the new token being used, but it
	// will not have been persisted.
	err = s.RefreshNotifyFunc(s.curr)
	if err != nil && s.log != nil {
		s.log.Error("error from refresh notify func", "error", err)
	}
	return s.curr, nil
}
