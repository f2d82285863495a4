package obsidian

import (
	"context"
	"net/http"
)

// OpenService opens files in the Obsidian UI.
type OpenService struct {
	client *Client
}

// File opens the given file in Obsidian. With newLeaf the file opens in
// a new leaf (tab).
func (s *OpenService) File(ctx context.Context, filename string, newLeaf bool) error {
	u := s.client.url("open/" + filename)
	if newLeaf {
		q := u.Query()
		q.Set("newLeaf", "true")
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "POST", u.String(), nil)
	if err != nil {
		return err
	}

	return s.client.do(req, nil)
}
