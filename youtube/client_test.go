/*
DESCRIPTION
  client_test.go tests the YouTube client against a fake API server.

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

package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// fakeAPI serves canned YouTube API responses and records what it was sent.
type fakeAPI struct {
	status int    // Status for every response; 0 means 200.
	body   string // Body for every response.

	query    url.Values     // Query of the last request.
	video    *youtube.Video // Video metadata of the last insert.
	media    string         // Media of the last upload.
	thumbFor string         // Video id of the last thumbnail set.
	calls    []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.query = r.URL.Query()
	switch {
	case strings.HasPrefix(r.URL.Path, "/upload/") && strings.HasSuffix(r.URL.Path, "/videos"):
		f.calls = append(f.calls, "insert")
		f.readUpload(r)
	case strings.HasSuffix(r.URL.Path, "/thumbnails/set"):
		f.calls = append(f.calls, "thumbnail")
		f.thumbFor = r.URL.Query().Get("videoId")
		f.readUpload(r)
	case strings.HasSuffix(r.URL.Path, "/search"):
		f.calls = append(f.calls, "search")
	case strings.HasSuffix(r.URL.Path, "/videos"):
		f.calls = append(f.calls, "list")
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	io.WriteString(w, f.body)
}

// readUpload decodes a multipart/related upload into its metadata and media.
func (f *fakeAPI) readUpload(r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		b, _ := io.ReadAll(r.Body)
		f.media = string(b)
		return
	}
	mr := multipart.NewReader(r.Body, params["boundary"])
	meta, err := mr.NextPart()
	if err != nil {
		return
	}
	if strings.HasSuffix(r.URL.Path, "/videos") {
		f.video = &youtube.Video{}
		json.NewDecoder(meta).Decode(f.video)
	}
	media, err := mr.NextPart()
	if err != nil {
		// Media only uploads have a single part.
		b, _ := io.ReadAll(meta)
		f.media = string(b)
		return
	}
	b, _ := io.ReadAll(media)
	f.media = string(b)
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := New(
		context.Background(),
		(*logging.TestLogger)(t),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []VideoSummary
		wantErr error
	}{
		{
			name: "all usable",
			body: `{"items":[
				{"id":{"videoId":"a"},"snippet":{"title":"First"}},
				{"id":{"videoId":"b"},"snippet":{"title":"Second"}}]}`,
			want: []VideoSummary{{ID: "a", Title: "First"}, {ID: "b", Title: "Second"}},
		},
		{
			name: "malformed items skipped",
			body: `{"items":[
				{"id":{"videoId":"a"},"snippet":{"title":"First"}},
				{"snippet":{"title":"No id"}},
				{"id":{"videoId":"c"}},
				{"id":{"videoId":"d"},"snippet":{"title":""}},
				{"id":{"videoId":"e"},"snippet":{"title":"Last"}}]}`,
			want: []VideoSummary{{ID: "a", Title: "First"}, {ID: "e", Title: "Last"}},
		},
		{
			name: "empty items",
			body: `{"items":[]}`,
			want: []VideoSummary{},
		},
		{
			name:    "no items field",
			body:    `{"kind":"youtube#searchListResponse"}`,
			wantErr: ErrEmptyResult,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			api := &fakeAPI{body: test.body}
			got, err := newTestClient(t, api).Search(context.Background(), 5)
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)

			assert.Equal(t, "true", api.query.Get("forMine"))
			assert.Equal(t, "5", api.query.Get("maxResults"))
			assert.Equal(t, "date", api.query.Get("order"))
			assert.Equal(t, "video", api.query.Get("type"))
		})
	}
}

func TestSearchRemoteError(t *testing.T) {
	api := &fakeAPI{status: http.StatusForbidden, body: `{"error":{"code":403,"message":"quota"}}`}
	_, err := newTestClient(t, api).Search(context.Background(), 10)

	var rerr *RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "search", rerr.Op)
	assert.Equal(t, http.StatusForbidden, rerr.StatusCode())
}

func TestSearchInvalidLimit(t *testing.T) {
	for _, limit := range []int{0, -1, MaxSearchResults + 1} {
		api := &fakeAPI{}
		_, err := newTestClient(t, api).Search(context.Background(), limit)
		assert.Error(t, err, "limit %d", limit)
		assert.Empty(t, api.calls)
	}
}

func TestFetchMetadata(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      *VideoMetadata
		wantErr   error
		wantField string
	}{
		{
			name: "complete",
			body: `{"items":[{"id":"abc","snippet":{"title":"Demo","description":"d","tags":["x"],"categoryId":"22"}}]}`,
			want: &VideoMetadata{ID: "abc", Title: "Demo", Description: "d", Tags: []string{"x"}, Category: "22"},
		},
		{
			name: "no tags",
			body: `{"items":[{"id":"abc","snippet":{"title":"Demo","description":"d","categoryId":"22"}}]}`,
			want: &VideoMetadata{ID: "abc", Title: "Demo", Description: "d", Tags: []string{}, Category: "22"},
		},
		{
			name:    "not found",
			body:    `{"items":[]}`,
			wantErr: ErrNotFound,
		},
		{
			name:      "no snippet",
			body:      `{"items":[{"id":"abc"}]}`,
			wantField: "snippet",
		},
		{
			name:      "no title",
			body:      `{"items":[{"id":"abc","snippet":{"description":"d","categoryId":"22"}}]}`,
			wantField: "title",
		},
		{
			name:      "no category",
			body:      `{"items":[{"id":"abc","snippet":{"title":"Demo","description":"d"}}]}`,
			wantField: "category",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			api := &fakeAPI{body: test.body}
			got, err := newTestClient(t, api).FetchMetadata(context.Background(), "abc")
			switch {
			case test.wantErr != nil:
				assert.ErrorIs(t, err, test.wantErr)
			case test.wantField != "":
				var ierr *IncompleteMetadataError
				require.ErrorAs(t, err, &ierr)
				assert.Equal(t, test.wantField, ierr.Field)
				assert.Equal(t, "abc", ierr.ID)
			default:
				require.NoError(t, err)
				assert.Equal(t, test.want, got)
				assert.Equal(t, "abc", api.query.Get("id"))
			}
		})
	}
}

func TestUpload(t *testing.T) {
	api := &fakeAPI{body: `{"id":"xyz"}`}
	req := UploadRequest{
		Title:         "Demo",
		Description:   "d",
		Tags:          []string{"x", "y"},
		Category:      "22",
		PrivacyStatus: PrivacyPrivate,
		PublishAt:     "2024-03-11T00:00:00+01:00",
	}

	res, err := newTestClient(t, api).Upload(context.Background(), req, strings.NewReader("video data"))
	require.NoError(t, err)
	assert.Equal(t, "xyz", res.VideoID)

	require.NotNil(t, api.video)
	assert.Equal(t, "Demo", api.video.Snippet.Title)
	assert.Equal(t, "d", api.video.Snippet.Description)
	assert.Equal(t, []string{"x", "y"}, api.video.Snippet.Tags)
	assert.Equal(t, "22", api.video.Snippet.CategoryId)
	assert.Equal(t, "private", api.video.Status.PrivacyStatus)
	assert.Equal(t, "2024-03-10T23:00:00Z", api.video.Status.PublishAt)
	assert.Equal(t, "video data", api.media)
	assert.Equal(t, []string{"snippet", "status"}, api.query["part"])
}

func TestUploadMissingID(t *testing.T) {
	api := &fakeAPI{body: `{"kind":"youtube#video"}`}
	_, err := newTestClient(t, api).Upload(context.Background(), UploadRequest{Title: "t"}, strings.NewReader("v"))
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestUploadError(t *testing.T) {
	api := &fakeAPI{status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"invalid category"}}`}
	_, err := newTestClient(t, api).Upload(context.Background(), UploadRequest{Title: "t"}, strings.NewReader("v"))

	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusBadRequest, statusCode(err))
}

func TestNewVideo(t *testing.T) {
	tests := []struct {
		name          string
		req           UploadRequest
		wantTags      []string
		wantPublishAt string
	}{
		{
			name:          "unparsable publish time omitted",
			req:           UploadRequest{Tags: []string{"a"}, PublishAt: "tomorrow"},
			wantTags:      []string{"a"},
			wantPublishAt: "",
		},
		{
			name:          "empty publish time omitted",
			req:           UploadRequest{Tags: []string{"a"}},
			wantTags:      []string{"a"},
			wantPublishAt: "",
		},
		{
			name:          "empty tags omitted",
			req:           UploadRequest{Tags: []string{}, PublishAt: "2024-03-11T00:00:00Z"},
			wantTags:      nil,
			wantPublishAt: "2024-03-11T00:00:00Z",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v := newVideo(requestOptions(test.req)...)
			assert.Equal(t, test.wantTags, v.Snippet.Tags)
			assert.Equal(t, test.wantPublishAt, v.Status.PublishAt)
		})
	}
}

func TestAttachThumbnail(t *testing.T) {
	api := &fakeAPI{body: `{"items":[]}`}
	err := newTestClient(t, api).AttachThumbnail(context.Background(), "xyz", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "xyz", api.thumbFor)
	assert.Equal(t, "png", api.media)
}

func TestAttachThumbnailError(t *testing.T) {
	api := &fakeAPI{status: http.StatusForbidden, body: `{"error":{"code":403,"message":"not verified"}}`}
	err := newTestClient(t, api).AttachThumbnail(context.Background(), "xyz", strings.NewReader("png"))

	var terr *ThumbnailError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "xyz", terr.VideoID)
	assert.False(t, errors.Is(err, ErrMissingID))
}

func TestSanitiseCategory(t *testing.T) {
	assert.Equal(t, "28", SanitiseCategory("28"))
	assert.Equal(t, "28", SanitiseCategory("Science & Technology"))
	assert.Equal(t, "", SanitiseCategory("Underwater Basket Weaving"))
	assert.Equal(t, "People & Blogs", CategoryName("22"))
	assert.Equal(t, "", CategoryName("34"))
}
