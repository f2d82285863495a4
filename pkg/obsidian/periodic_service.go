package obsidian

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// PeriodicService handles periodic notes (daily, weekly, monthly,
// quarterly, yearly).
type PeriodicService struct {
	client *Client
}

// GetCurrentNote returns the current periodic note for the given period
// parsed as a Note struct.
func (s *PeriodicService) GetCurrentNote(ctx context.Context, period string) (*Note, error) {
	u := s.client.url(fmt.Sprintf("periodic/%s/", period))
	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.olrapi.note+json")

	var note Note
	err = s.client.do(req, &note)
	return &note, err
}

// AppendToCurrent appends content to the current periodic note.
func (s *PeriodicService) AppendToCurrent(ctx context.Context, period, content string) error {
	u := s.client.url(fmt.Sprintf("periodic/%s/", period))
	req, err := http.NewRequestWithContext(ctx, "POST", u.String(), strings.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/markdown")

	return s.client.do(req, nil)
}
