/*
DESCRIPTION
  client.go provides a client for reading the authenticated user's videos
  from YouTube.

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

// Package youtube provides access to the YouTube Data API for listing,
// inspecting and uploading the authenticated user's videos.
package youtube

import (
	"context"
	"errors"
	"fmt"

	"github.com/ausocean/utils/logging"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// MaxSearchResults is the most videos a single search may return.
const MaxSearchResults = 50

// Scope is the OAuth scope needed for every Client call.
const Scope = youtube.YoutubeForceSslScope

// Client performs YouTube API calls on behalf of a single authenticated user.
type Client struct {
	svc *youtube.Service
	log logging.Logger
}

// New returns a Client using a service built from the given options,
// typically option.WithHTTPClient with an oauth2 client.
func New(ctx context.Context, log logging.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create youtube service: %w", err)
	}
	return NewFromService(svc, log), nil
}

// NewFromService returns a Client that uses svc for all calls.
func NewFromService(svc *youtube.Service, log logging.Logger) *Client {
	return &Client{svc: svc, log: log}
}

// Search returns up to limit of the user's videos, most recently published
// first. Items lacking an id or a title are skipped.
func (c *Client) Search(ctx context.Context, limit int) ([]VideoSummary, error) {
	if limit < 1 || limit > MaxSearchResults {
		return nil, fmt.Errorf("invalid search limit: %d, want 1 to %d", limit, MaxSearchResults)
	}

	resp, err := c.svc.Search.List([]string{"snippet", "id"}).
		ForMine(true).
		Type("video").
		Order("date").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &RemoteError{Op: "search", Err: err}
	}
	if resp.Items == nil {
		return nil, ErrEmptyResult
	}

	videos := make([]VideoSummary, 0, len(resp.Items))
	for i, item := range resp.Items {
		v, err := summary(item)
		if err != nil {
			c.log.Debug("skipping search result", "index", i, "error", err)
			continue
		}
		videos = append(videos, v)
	}
	c.log.Debug("searched videos", "items", len(resp.Items), "usable", len(videos))
	return videos, nil
}

// errIncompleteItem is returned by summary for an unusable search item.
var errIncompleteItem = errors.New("incomplete search result")

// summary converts a search result into a VideoSummary.
func summary(item *youtube.SearchResult) (VideoSummary, error) {
	if item == nil || item.Id == nil || item.Id.VideoId == "" {
		return VideoSummary{}, fmt.Errorf("%w: no video id", errIncompleteItem)
	}
	if item.Snippet == nil || item.Snippet.Title == "" {
		return VideoSummary{}, fmt.Errorf("%w: no title for video %s", errIncompleteItem, item.Id.VideoId)
	}
	return VideoSummary{ID: item.Id.VideoId, Title: item.Snippet.Title}, nil
}

// FetchMetadata returns the descriptive metadata of the video with the given
// id. Title and category are required; tags default to an empty list.
func (c *Client) FetchMetadata(ctx context.Context, id string) (*VideoMetadata, error) {
	resp, err := c.svc.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, &RemoteError{Op: "fetch", Err: err}
	}
	if len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s := resp.Items[0].Snippet
	switch {
	case s == nil:
		return nil, &IncompleteMetadataError{ID: id, Field: "snippet"}
	case s.Title == "":
		return nil, &IncompleteMetadataError{ID: id, Field: "title"}
	case s.CategoryId == "":
		return nil, &IncompleteMetadataError{ID: id, Field: "category"}
	}

	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}

	return &VideoMetadata{
		ID:          id,
		Title:       s.Title,
		Description: s.Description,
		Tags:        tags,
		Category:    s.CategoryId,
	}, nil
}
