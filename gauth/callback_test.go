/*
DESCRIPTION
  callback_test.go tests the authorisation callback server and flow.

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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallback(t *testing.T) {
	const state = "7f3c9f8e-state"

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantDenied bool
		wantResult bool
	}{
		{name: "ok", query: "?state=" + state + "&code=4/abc", wantStatus: http.StatusOK, wantCode: "4/abc", wantResult: true},
		{name: "state mismatch", query: "?state=other&code=4/abc", wantStatus: http.StatusBadRequest},
		{name: "no state", query: "?code=4/abc", wantStatus: http.StatusBadRequest},
		{name: "missing code", query: "?state=" + state, wantStatus: http.StatusBadRequest},
		{name: "denied", query: "?state=" + state + "&error=access_denied", wantStatus: http.StatusForbidden, wantDenied: true, wantResult: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			app := newCallbackApp(state, results)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+test.query, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, test.wantStatus, resp.StatusCode)

			if !test.wantResult {
				assert.Empty(t, results)
				return
			}
			require.Len(t, results, 1)
			res := <-results
			if test.wantDenied {
				assert.ErrorIs(t, res.err, ErrDenied)
				return
			}
			require.NoError(t, res.err)
			assert.Equal(t, test.wantCode, res.code)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, doneMessage, string(body))
		})
	}
}

func TestCallbackFirstResultWins(t *testing.T) {
	results := make(chan callbackResult, 1)
	app := newCallbackApp("s", results)

	for _, code := range []string{"first", "second"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?state=s&code="+code, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.Len(t, results, 1)
	assert.Equal(t, "first", (<-results).code)
}
