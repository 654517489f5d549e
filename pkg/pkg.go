// Package pkg holds the identity of the calc module: its name, version and
// authors.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version embedded from the VERSION file.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and in the default
	// config and cache paths.
	Name = "calc"
	// Description summarizes the command in help output.
	Description = "Stateful line calculator"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary authors.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
