package obsidian

import (
	"context"
	"net/http"
	"strings"
)

// ActiveFileService handles interaction with the file currently open in
// the Obsidian UI.
type ActiveFileService struct {
	client *Client
}

// GetNote returns the active file parsed as a Note struct.
func (s *ActiveFileService) GetNote(ctx context.Context) (*Note, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.client.url("active/").String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.olrapi.note+json")

	var note Note
	err = s.client.do(req, &note)
	return &note, err
}

// Append appends content to the end of the active file.
func (s *ActiveFileService) Append(ctx context.Context, content string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", s.client.url("active/").String(), strings.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/markdown")

	return s.client.do(req, nil)
}

// Patch updates a targeted section of the active file.
func (s *ActiveFileService) Patch(ctx context.Context, op PatchOperation, targetType TargetType, target, content string) error {
	req, err := http.NewRequestWithContext(ctx, "PATCH", s.client.url("active/").String(), strings.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Operation", string(op))
	req.Header.Set("Target-Type", string(targetType))
	req.Header.Set("Target", target)
	req.Header.Set("Content-Type", "text/markdown")

	return s.client.do(req, nil)
}
