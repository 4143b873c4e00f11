package api

import (
	"context"
	"fmt"
	"net/url"
)

// GetDirectoryEntry fetches the public profile fields of an identity.
func (c *Client) GetDirectoryEntry(ctx context.Context, identity string) (map[string]string, error) {
	path := fmt.Sprintf("/api/directory/%s", url.PathEscape(identity))

	var result struct {
		Fields map[string]string `json:"fields"`
	}
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return result.Fields, nil
}

// UpsertDirectoryEntry merges fields into an identity's record. The backend
// applies merge semantics: fields absent from the request are preserved.
func (c *Client) UpsertDirectoryEntry(ctx context.Context, identity string, fields map[string]string) error {
	path := fmt.Sprintf("/api/directory/%s", url.PathEscape(identity))

	body := struct {
		Fields map[string]string `json:"fields"`
	}{Fields: fields}

	return c.Do(ctx, "PATCH", path, body, nil)
}
