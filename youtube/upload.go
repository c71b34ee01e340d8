/*
DESCRIPTION
  upload.go provides functionality for uploading videos and thumbnails to
  YouTube.

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
	"io"
	"time"

	"google.golang.org/api/youtube/v3"
)

// VideoUploadOption is a functional option type for configuring YouTube video
// uploads. Options copy values through unchecked; the API is left to reject
// anything it does not accept.
type VideoUploadOption func(*youtube.Video)

// WithTitle sets the title of the video being uploaded.
func WithTitle(title string) VideoUploadOption {
	return func(video *youtube.Video) { video.Snippet.Title = title }
}

// WithDescription sets the description of the video being uploaded.
func WithDescription(description string) VideoUploadOption {
	return func(video *youtube.Video) { video.Snippet.Description = description }
}

// WithCategory sets the category ID of the video being uploaded.
func WithCategory(categoryID string) VideoUploadOption {
	return func(video *youtube.Video) { video.Snippet.CategoryId = categoryID }
}

// WithPrivacy sets the privacy status of the video being uploaded.
func WithPrivacy(privacy string) VideoUploadOption {
	return func(video *youtube.Video) { video.Status.PrivacyStatus = privacy }
}

// WithTags sets the tags of the video being uploaded. An empty slice leaves
// the tags unset.
func WithTags(tags []string) VideoUploadOption {
	return func(video *youtube.Video) {
		// The API returns a 400 Bad Request response if tags is an empty string.
		if len(tags) == 0 {
			return
		}
		video.Snippet.Tags = tags
	}
}

// WithPublishAt schedules the video to be made public at the given RFC 3339
// time. A value that does not parse leaves the schedule unset, so the
// platform default applies.
func WithPublishAt(publishAt string) VideoUploadOption {
	return func(video *youtube.Video) {
		t, err := time.Parse(time.RFC3339, publishAt)
		if err != nil {
			return
		}
		video.Status.PublishAt = t.UTC().Format(time.RFC3339)
	}
}

// requestOptions returns the options describing req.
func requestOptions(req UploadRequest) []VideoUploadOption {
	return []VideoUploadOption{
		WithTitle(req.Title),
		WithDescription(req.Description),
		WithCategory(req.Category),
		WithTags(req.Tags),
		WithPrivacy(req.PrivacyStatus),
		WithPublishAt(req.PublishAt),
	}
}

// newVideo returns the video resource built by applying opts.
func newVideo(opts ...VideoUploadOption) *youtube.Video {
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{},
		Status:  &youtube.VideoStatus{},
	}
	for _, opt := range opts {
		opt(video)
	}
	return video
}

// Upload creates a new video from media described by req.
func (c *Client) Upload(ctx context.Context, req UploadRequest, media io.Reader) (*UploadResult, error) {
	video := newVideo(requestOptions(req)...)
	if req.PublishAt != "" && video.Status.PublishAt == "" {
		c.log.Warning("ignoring unparsable publish time", "publishAt", req.PublishAt)
	}

	vid, err := c.svc.Videos.Insert([]string{"snippet", "status"}, video).Media(media).Context(ctx).Do()
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	if vid.Id == "" {
		return nil, ErrMissingID
	}

	c.log.Info("inserted video", "id", vid.Id, "privacy", video.Status.PrivacyStatus, "publishAt", video.Status.PublishAt)
	return &UploadResult{VideoID: vid.Id}, nil
}

// AttachThumbnail sets the thumbnail of the video with the given id from
// media. A failure here leaves the video itself untouched.
func (c *Client) AttachThumbnail(ctx context.Context, videoID string, media io.Reader) error {
	_, err := c.svc.Thumbnails.Set(videoID).Media(media).Context(ctx).Do()
	if err != nil {
		return &ThumbnailError{VideoID: videoID, Err: err}
	}
	c.log.Info("set thumbnail", "id", videoID)
	return nil
}
