// Package config implements project-root discovery and suppression-list
// parsing: the set of downstream compiler error codes to suppress, read
// from a sibling project configuration file found by walking parent
// directories.
package config

import (
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates no project configuration file was found while
// walking parent directories from startDir.
var ErrNotFound = errors.New("no project configuration file found")

// projectFile is the recognized shape of the sibling project configuration
// file: a <Project> root whose <PropertyGroup> children may each carry a
// <NoWarn> node; every such node is read, semicolon/comma separated.
// encoding/xml is the correct idiomatic choice for this single small
// nested-element read.
type projectFile struct {
	XMLName    xml.Name    `xml:"Project"`
	ItemGroups []itemGroup `xml:"PropertyGroup"`
}

type itemGroup struct {
	NoWarn string `xml:"NoWarn"`
}

// candidateFileNames are sibling project-configuration file names searched
// for at each ascended directory, in order.
var candidateFileNames = []string{"*.csproj", "*.xcsproj"}

// FindProjectFile walks startDir and its parents looking for a project
// configuration file matching one of candidateFileNames, returning the
// first match and the directory it was found in.
func FindProjectFile(startDir string) (path string, root string, err error) {
	dir := startDir
	for {
		for _, pattern := range candidateFileNames {
			matches, _ := filepath.Glob(filepath.Join(dir, pattern))
			if len(matches) > 0 {
				return matches[0], dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", ErrNotFound
		}
		dir = parent
	}
}

// LoadSuppressions reads the project configuration file found by walking
// parent directories from startDir and returns the normalized set of
// suppressed downstream-compiler error codes. The recognized node is
// NoWarn; its text is split on ';' and ','; each entry is normalized to
// CS<digits> if it starts with digits, else kept as-is.
func LoadSuppressions(startDir string) (map[string]bool, error) {
	path, _, err := FindProjectFile(startDir)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	return LoadSuppressionsFromFile(path)
}

// LoadSuppressionsFromFile parses a single project configuration file at
// path into a normalized suppression set.
func LoadSuppressionsFromFile(path string) (map[string]bool, error) {
	//nolint:gosec // reads a project-local config file path discovered by directory ascent.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf projectFile
	if err := xml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, g := range pf.ItemGroups {
		for _, code := range splitCodes(g.NoWarn) {
			out[normalizeCode(code)] = true
		}
	}
	return out, nil
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	replaced := strings.ReplaceAll(s, ",", ";")
	parts := strings.Split(replaced, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeCode(code string) string {
	if code == "" {
		return code
	}
	if code[0] >= '0' && code[0] <= '9' {
		return "CS" + code
	}
	return code
}
