/*
DESCRIPTION
  document.go converts between upload requests and the YAML document the
  user edits.

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

// Package editor lets the user edit an upload request in an external text
// editor. The request is presented as a YAML document followed by a block of
// # comments, which is ignored when the document is read back.
package editor

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ausocean/ytup/youtube"
)

// Document keys, in the order they are written.
const (
	keyTitle       = "title"
	keyDescription = "description"
	keyTags        = "tags"
	keyCategory    = "category"
	keyPrivacy     = "privacy_status"
	keyPublishAt   = "publish_at"
)

var requiredKeys = []string{keyTitle, keyDescription, keyTags, keyCategory, keyPrivacy, keyPublishAt}

// MalformedDocumentError is returned by Parse for a document that does not
// have the shape of an upload request.
type MalformedDocumentError struct {
	Key    string // Offending key, empty if the whole document is at fault.
	Reason string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	msg := "malformed document"
	if e.Key != "" {
		msg += ": " + e.Key
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// NewRequest returns an upload request cloned from md, private and scheduled
// for publishAt.
func NewRequest(md *youtube.VideoMetadata, publishAt string) youtube.UploadRequest {
	tags := append([]string{}, md.Tags...)
	return youtube.UploadRequest{
		Title:         md.Title,
		Description:   md.Description,
		Tags:          tags,
		Category:      md.Category,
		PrivacyStatus: youtube.DefaultPrivacy,
		PublishAt:     publishAt,
	}
}

// BuildDocument returns the editable document for a request cloned from md.
func BuildDocument(md *youtube.VideoMetadata, publishAt string) ([]byte, error) {
	return Marshal(NewRequest(md, publishAt))
}

// Marshal returns req as an editable document, followed by the usage notes.
// Each string is written in a style that Parse reads back unchanged.
func Marshal(req youtube.UploadRequest) ([]byte, error) {
	tags := &yaml.Node{Kind: yaml.SequenceNode}
	for _, t := range req.Tags {
		tags.Content = append(tags.Content, strNode(t))
	}

	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, kv := range []struct {
		k string
		v *yaml.Node
	}{
		{keyTitle, strNode(req.Title)},
		{keyDescription, strNode(req.Description)},
		{keyTags, tags},
		{keyCategory, strNode(req.Category)},
		{keyPrivacy, strNode(req.PrivacyStatus)},
		{keyPublishAt, strNode(req.PublishAt)},
	} {
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: kv.k}, kv.v)
	}

	b, err := encode(m)
	if err != nil {
		return nil, err
	}
	return append(b, commentary()...), nil
}

func encode(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("could not encode request: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("could not close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// strNode returns a string node for s. The encoder's choice of style is kept
// only if it reads back as s when followed by blank lines and comments;
// otherwise s is double quoted, which always reads back exactly.
func strNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if !readsBack(n, s) {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

func readsBack(n *yaml.Node, s string) bool {
	m := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{{Kind: yaml.ScalarNode, Value: "v"}, n}}
	b, err := encode(m)
	if err != nil {
		return false
	}
	b = append(b, "\n# note\n"...)

	var got struct {
		V *string `yaml:"v"`
	}
	err = yaml.Unmarshal(head(b), &got)
	return err == nil && got.V != nil && *got.V == s
}

// commentary returns the usage notes appended to every document.
func commentary() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("# ytup - YouTube Uploader\n")
	b.WriteString("# * Edit the video details above, then save and close the editor\n")
	b.WriteString("# * Leave `publish_at` empty to avoid scheduling the video\n")
	b.WriteString("# * `privacy_status` is one of private, unlisted or public\n")
	b.WriteString("# * Use the mapping below to set the `category` field\n")
	b.WriteString("#\n")
	for _, c := range youtube.Categories() {
		fmt.Fprintf(&b, "#     %-24s %s\n", strconv.Quote(c.Name)+":", c.ID)
	}
	return b.String()
}

// Parse reads an upload request from an edited document. Only the shape of
// the document is checked: each required key must be present, tags must be a
// list of scalars and every other value a scalar. Values are not validated.
func Parse(doc []byte) (youtube.UploadRequest, error) {
	var req youtube.UploadRequest

	var root yaml.Node
	if err := yaml.Unmarshal(head(doc), &root); err != nil {
		return req, &MalformedDocumentError{Reason: "invalid yaml", Err: err}
	}
	if len(root.Content) == 0 {
		return req, &MalformedDocumentError{Key: keyTitle, Reason: "missing"}
	}
	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return req, &MalformedDocumentError{Reason: "not a mapping of keys to values"}
	}

	values := make(map[string]*yaml.Node, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		values[m.Content[i].Value] = m.Content[i+1]
	}
	for _, k := range requiredKeys {
		n, ok := values[k]
		if !ok {
			return req, &MalformedDocumentError{Key: k, Reason: "missing"}
		}
		if err := checkShape(k, n); err != nil {
			return req, err
		}
	}

	if err := m.Decode(&req); err != nil {
		return req, &MalformedDocumentError{Reason: "could not decode", Err: err}
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	return req, nil
}

// checkShape checks that the value n of key k has the expected kind.
func checkShape(k string, n *yaml.Node) error {
	if k != keyTags {
		if n.Kind != yaml.ScalarNode {
			return &MalformedDocumentError{Key: k, Reason: "want a single value"}
		}
		return nil
	}

	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		return &MalformedDocumentError{Key: k, Reason: "want a list"}
	}
	for i, item := range n.Content {
		if item.Kind != yaml.ScalarNode || isNull(item) {
			return &MalformedDocumentError{Key: k, Reason: fmt.Sprintf("item %d is not a single value", i+1)}
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// head returns doc without its trailing block of comments. Comment lines
// start in the first column; indented lines may belong to a block scalar and
// are kept. Blank lines before the block are kept, since they may belong to a
// block scalar that keeps its trailing line breaks.
func head(doc []byte) []byte {
	lines := bytes.SplitAfter(doc, []byte("\n"))
	end := len(lines)
	cut := end
	for end > 0 {
		l := lines[end-1]
		if len(bytes.TrimSpace(l)) == 0 {
			end--
			continue
		}
		if l[0] != '#' {
			break
		}
		end--
		cut = end
	}
	return bytes.Join(lines[:cut], nil)
}
