package projects

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

const DefaultMainFile = "main.py"

var (
	ErrFileNotFound = errors.New("file not found")
	ErrFileExists   = errors.New("file already exists")
	ErrBadFileName  = errors.New("file name must end with .py")
	ErrLastFile     = errors.New("a project needs at least one file")
)

// Project is a set of named source files, one of them being edited.
type Project struct {
	Files  map[string]string `json:"files"`
	Active string            `json:"active"`
}

// New returns a project with one empty main file.
func New() *Project {
	return &Project{
		Files: map[string]string{
			DefaultMainFile: "",
		},
		Active: DefaultMainFile,
	}
}

// Names returns the file names, sorted.
func (p *Project) Names() []string {
	return slices.Sorted(maps.Keys(p.Files))
}

// MainFile is the entry point of a run: main.py when present, the active
// file otherwise.
func (p *Project) MainFile() string {
	if _, ok := p.Files[DefaultMainFile]; ok {
		return DefaultMainFile
	}
	return p.Active
}

func (p *Project) Read(name string) (string, error) {
	content, ok := p.Files[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrFileNotFound)
	}
	return content, nil
}

func (p *Project) Write(name, content string) {
	if p.Files == nil {
		p.Files = make(map[string]string)
	}
	p.Files[name] = content
}

func checkName(name string) error {
	if !strings.HasSuffix(name, ".py") {
		return fmt.Errorf("%s: %w", name, ErrBadFileName)
	}
	return nil
}

// Add creates an empty file and makes it active.
func (p *Project) Add(name string) error {
	name = strings.TrimSpace(name)
	if err := checkName(name); err != nil {
		return err
	}
	if _, ok := p.Files[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrFileExists)
	}
	p.Write(name, "")
	p.Active = name
	return nil
}

// Rename moves the content of from to to. Renaming to the same name does
// nothing.
func (p *Project) Rename(from, to string) error {
	to = strings.TrimSpace(to)
	if to == "" || to == from {
		return nil
	}
	content, err := p.Read(from)
	if err != nil {
		return err
	}
	if err := checkName(to); err != nil {
		return err
	}
	if _, ok := p.Files[to]; ok {
		return fmt.Errorf("%s: %w", to, ErrFileExists)
	}
	delete(p.Files, from)
	p.Files[to] = content
	if p.Active == from {
		p.Active = to
	}
	return nil
}

// Delete removes a file. The last file can not be removed.
func (p *Project) Delete(name string) error {
	if _, ok := p.Files[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrFileNotFound)
	}
	if len(p.Files) == 1 {
		return ErrLastFile
	}
	delete(p.Files, name)
	if p.Active == name {
		p.Active = p.Names()[0]
	}
	return nil
}

// normalize fixes up a decoded project.
func (p *Project) normalize() {
	if len(p.Files) == 0 {
		p.Files = map[string]string{
			DefaultMainFile: "",
		}
	}
	if _, ok := p.Files[p.Active]; !ok {
		p.Active = p.Names()[0]
	}
}

var turtlePattern = regexp.MustCompile(`\bfrom\s+turtle\b|\bimport\s+turtle\b|\bturtle\.`)

// UsesTurtle reports whether any file mentions the turtle module.
func (p *Project) UsesTurtle() bool {
	for _, content := range p.Files {
		if turtlePattern.MatchString(content) {
			return true
		}
	}
	return false
}
