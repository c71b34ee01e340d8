/*
DESCRIPTION
  types.go defines the video data exchanged between the YouTube client, the
  metadata editor and the clone pipeline.

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

// Privacy statuses accepted by the YouTube API.
const (
	PrivacyPrivate  = "private"
	PrivacyUnlisted = "unlisted"
	PrivacyPublic   = "public"
)

// DefaultPrivacy is the privacy status a cloned upload starts with.
const DefaultPrivacy = PrivacyPrivate

// VideoSummary is a single entry of a search listing.
type VideoSummary struct {
	ID    string
	Title string
}

// String returns the title, which is what a user picks a video by.
func (v VideoSummary) String() string { return v.Title }

// VideoMetadata holds the descriptive fields of a published video.
type VideoMetadata struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Category    string
}

// UploadRequest describes a video to be uploaded. The yaml keys are the keys
// of the document the user edits.
type UploadRequest struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Tags          []string `yaml:"tags"`
	Category      string   `yaml:"category"`
	PrivacyStatus string   `yaml:"privacy_status"`
	PublishAt     string   `yaml:"publish_at"`
}

// UploadResult is what the platform hands back for a completed upload.
type UploadResult struct {
	VideoID string
}
