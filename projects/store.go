package projects

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps a project in a JSON file.
type Store struct {
	Path string
}

// Load reads the stored project. A missing file gives a new project.
func (s Store) Load() (*Project, error) {
	content, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	var p Project
	if err := json.Unmarshal(content, &p); err != nil {
		return nil, err
	}
	p.normalize()
	return &p, nil
}

// Save writes the project atomically.
func (s Store) Save(p *Project) error {
	content, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

// LoadDir builds a project from the .py files of a directory.
func LoadDir(dir string) (*Project, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	p := &Project{
		Files: make(map[string]string),
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".py") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		p.Files[entry.Name()] = string(content)
	}
	p.Active = DefaultMainFile
	p.normalize()
	return p, nil
}

// SaveDir writes every file of the project into dir.
func SaveDir(dir string, p *Project) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for name, content := range p.Files {
		if name != filepath.Base(name) {
			return &fs.PathError{
				Op:   "save",
				Path: name,
				Err:  fs.ErrInvalid,
			}
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
