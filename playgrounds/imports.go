package playgrounds

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlarkstruct"
)

var (
	ErrUnknownModule     = errors.New("no module named")
	ErrUnsupportedImport = errors.New("unsupported import")
	ErrImportInBlock     = errors.New("project modules can only be imported at top level")
	ErrNameNotFound      = errors.New("cannot import name")
)

var (
	importLine = regexp.MustCompile(`^(\s*)import\s+(.+)$`)
	fromLine   = regexp.MustCompile(`^(\s*)from\s+(\S+)\s+import\s+(.+)$`)
	identifier = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// imports decides what an import statement means. Modules are host
// modules bound as globals; files are project files reachable with load.
type imports struct {
	modules map[string]*starlarkstruct.Module
	// globalMembers lists modules whose members are globals already.
	globalMembers map[string]bool
	hasFile       func(name string) bool
}

type importName struct {
	name  string
	alias string
}

func (n importName) bound() string {
	if n.alias != "" {
		return n.alias
	}
	return n.name
}

// rewrite turns Python import statements into Starlark, one line for one
// line so that positions in errors stay right.
func (im imports) rewrite(src string) (string, error) {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		var (
			stmts []string
			err   error
			match []string
		)
		if match = importLine.FindStringSubmatch(line); match != nil {
			stmts, err = im.importStmt(match[1], match[2])
		} else if match = fromLine.FindStringSubmatch(line); match != nil {
			stmts, err = im.fromStmt(match[1], match[2], match[3])
		} else {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("line %d: %w", i+1, err)
		}
		indent := match[1]
		switch {
		case len(stmts) > 0:
			lines[i] = indent + strings.Join(stmts, "; ")
		case indent != "":
			lines[i] = indent + "pass"
		default:
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (im imports) importStmt(indent, spec string) (stmts []string, err error) {
	names, err := parseNames(spec, false)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if _, ok := im.modules[n.name]; ok {
			if n.bound() != n.name {
				stmts = append(stmts, n.alias+" = "+n.name)
			}
			continue
		}
		file, err := im.file(indent, n.name)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, loadStmt(file, []importName{{
			name:  n.name,
			alias: n.bound(),
		}}))
	}
	return
}

func (im imports) fromStmt(indent, module, spec string) (stmts []string, err error) {
	if module == "__future__" {
		return nil, nil
	}
	names, err := parseNames(spec, true)
	if err != nil {
		return nil, err
	}

	if mod, ok := im.modules[module]; ok {
		global := im.globalMembers[module]
		for _, n := range names {
			if n.name == "*" {
				if global {
					continue
				}
				for _, name := range slices.Sorted(maps.Keys(mod.Members)) {
					stmts = append(stmts, name+" = "+module+"."+name)
				}
				continue
			}
			if _, ok := mod.Members[n.name]; !ok {
				return nil, fmt.Errorf("%w %s from %s", ErrNameNotFound, n.name, module)
			}
			if global && n.bound() == n.name {
				continue
			}
			stmts = append(stmts, n.bound()+" = "+module+"."+n.name)
		}
		return
	}

	file, err := im.file(indent, module)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if n.name == "*" {
			return nil, fmt.Errorf("%w: from %s import *", ErrUnsupportedImport, module)
		}
	}
	return []string{loadStmt(file, names)}, nil
}

func (im imports) file(indent, module string) (string, error) {
	if strings.Contains(module, ".") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImport, module)
	}
	file := module + ".py"
	if im.hasFile == nil || !im.hasFile(file) {
		return "", fmt.Errorf("%w %s", ErrUnknownModule, module)
	}
	if indent != "" {
		return "", ErrImportInBlock
	}
	return file, nil
}

func loadStmt(file string, names []importName) string {
	var b strings.Builder
	b.WriteString("load(")
	b.WriteString(strconv.Quote(file))
	for _, n := range names {
		b.WriteString(", ")
		if n.alias != "" && n.alias != n.name {
			b.WriteString(n.alias)
			b.WriteString("=")
		}
		b.WriteString(strconv.Quote(n.name))
	}
	b.WriteString(")")
	return b.String()
}

// parseNames reads "a, b as c", with optional parentheses and a trailing
// comment.
func parseNames(spec string, allowStar bool) ([]importName, error) {
	if i := strings.Index(spec, "#"); i >= 0 {
		spec = spec[:i]
	}
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "(") && strings.HasSuffix(spec, ")") {
		spec = strings.TrimSpace(spec[1 : len(spec)-1])
	}
	var ret []importName
	for part := range strings.SplitSeq(spec, ",") {
		fields := strings.Fields(part)
		var n importName
		switch {
		case len(fields) == 0:
			continue
		case len(fields) == 1:
			n.name = fields[0]
		case len(fields) == 3 && fields[1] == "as":
			n.name = fields[0]
			n.alias = fields[2]
			if !identifier.MatchString(n.alias) {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedImport, strings.TrimSpace(part))
			}
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImport, strings.TrimSpace(part))
		}
		switch {
		case n.name == "*" && allowStar && n.alias == "":
		case identifier.MatchString(n.name):
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImport, strings.TrimSpace(part))
		}
		ret = append(ret, n)
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: empty import", ErrUnsupportedImport)
	}
	return ret, nil
}
