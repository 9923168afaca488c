package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const maxFetchSize = 4 << 20

// Fetch reads a project from a share link, or from a URL serving either
// a project document or a single source file.
func Fetch(ctx context.Context, client *http.Client, rawURL string) (*Project, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Fragment != "" {
		return DecodeShare(u.Fragment)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", rawURL, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return nil, err
	}

	var p Project
	if err := json.Unmarshal(body, &p); err == nil && len(p.Files) > 0 {
		p.normalize()
		return &p, nil
	}
	name := path.Base(u.Path)
	if !strings.HasSuffix(name, ".py") {
		name = DefaultMainFile
	}
	return &Project{
		Files: map[string]string{
			name: string(body),
		},
		Active: name,
	}, nil
}
