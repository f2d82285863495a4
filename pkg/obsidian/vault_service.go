package obsidian

import (
	"context"
	"net/http"
	"strings"
)

// VaultService handles interaction with files in the vault.
type VaultService struct {
	client *Client
}

// List lists the entries of a directory (root when path is empty).
// Subdirectory entries carry a trailing slash.
func (s *VaultService) List(ctx context.Context, path string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.client.url("vault/"+path).String(), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Files []string `json:"files"`
	}
	err = s.client.do(req, &resp)
	return resp.Files, err
}

// Get returns the raw content of a file in the vault.
func (s *VaultService) Get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.client.url("vault/"+path).String(), nil)
	if err != nil {
		return "", err
	}

	var content string
	err = s.client.do(req, &content)
	return content, err
}

// GetNote returns the file parsed as a Note struct, including
// frontmatter, tags and file stats.
func (s *VaultService) GetNote(ctx context.Context, path string) (*Note, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.client.url("vault/"+path).String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.olrapi.note+json")

	var note Note
	err = s.client.do(req, &note)
	return &note, err
}

// Create creates a new file or replaces an existing one.
func (s *VaultService) Create(ctx context.Context, path, content string) error {
	req, err := http.NewRequestWithContext(ctx, "PUT", s.client.url("vault/"+path).String(), strings.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/markdown")

	return s.client.do(req, nil)
}

// Append appends content to the end of an existing file, creating it
// when absent.
func (s *VaultService) Append(ctx context.Context, path, content string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", s.client.url("vault/"+path).String(), strings.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/markdown")

	return s.client.do(req, nil)
}

// Delete deletes a file in the vault.
func (s *VaultService) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", s.client.url("vault/"+path).String(), nil)
	if err != nil {
		return err
	}

	return s.client.do(req, nil)
}
