package projects

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const sharePrefix = "v1:"

// EncodeShare packs a project into a string fit for a URL fragment.
func EncodeShare(p *Project) (string, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return sharePrefix + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeShare unpacks EncodeShare output. Uncompressed standard base64
// payloads are accepted too.
func DecodeShare(hash string) (*Project, error) {
	hash = strings.TrimPrefix(strings.TrimSpace(hash), "#")
	var payload []byte
	if rest, ok := strings.CutPrefix(hash, sharePrefix); ok {
		compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(rest, "="))
		if err != nil {
			return nil, fmt.Errorf("decode share: %w", err)
		}
		r, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, fmt.Errorf("decode share: %w", err)
		}
		payload, err = io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("decode share: %w", err)
		}
	} else {
		var err error
		payload, err = base64.StdEncoding.DecodeString(hash)
		if err != nil {
			return nil, fmt.Errorf("decode share: %w", err)
		}
	}

	var p Project
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode share: %w", err)
	}
	if p.Files == nil {
		return nil, fmt.Errorf("decode share: no files")
	}
	p.normalize()
	return &p, nil
}
