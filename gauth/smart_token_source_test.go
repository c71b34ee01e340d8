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
	"errors"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// seqSource returns its tokens in turn, repeating the last one.
type seqSource struct {
	toks []*oauth2.Token
	err  error
}

func (s *seqSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	tok := s.toks[0]
	if len(s.toks) > 1 {
		s.toks = s.toks[1:]
	}
	return tok, nil
}

func TestSmartTokenSource(t *testing.T) {
	first := &oauth2.Token{AccessToken: "first"}
	second := &oauth2.Token{AccessToken: "second"}
	src := &seqSource{toks: []*oauth2.Token{first, first, second, second}}

	var notified []string
	notify := func(tok *oauth2.Token) error {
		notified = append(notified, tok.AccessToken)
		return errors.New("disk full")
	}
	s := NewSmartTokenSource(src, first, notify, (*logging.TestLogger)(t))

	for _, want := range []string{"first", "first", "second", "second"} {
		tok, err := s.Token()
		require.NoError(t, err)
		assert.Equal(t, want, tok.AccessToken)
	}
	assert.Equal(t, []string{"second"}, notified)
}

func TestSmartTokenSourceNoInitialToken(t *testing.T) {
	src := &seqSource{toks: []*oauth2.Token{{AccessToken: "a"}}}
	var n int
	s := NewSmartTokenSource(src, nil, func(*oauth2.Token) error { n++; return nil }, (*logging.TestLogger)(t))

	_, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSmartTokenSourceError(t *testing.T) {
	wantErr := errors.New("refresh failed")
	s := NewSmartTokenSource(&seqSource{err: wantErr}, nil, nil, (*logging.TestLogger)(t))

	_, err := s.Token()
	assert.ErrorIs(t, err, wantErr)
}
