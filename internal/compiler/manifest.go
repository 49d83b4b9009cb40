package compiler

import (
	"fmt"
	"strings"
)

// manifest renders Cargo.toml. The entry file decides between a binary and a
// library target.
func (c *Compiler) manifest(entry string, crates []string) string {
	crate := c.cfg.Crate
	var sb strings.Builder
	sb.WriteString("[package]\n")
	fmt.Fprintf(&sb, "name = %q\n", crate.Name)
	fmt.Fprintf(&sb, "version = %q\n", crate.Version)
	fmt.Fprintf(&sb, "authors = [%q]\n", crate.Author)
	fmt.Fprintf(&sb, "edition = %q\n", crate.Edition)
	sb.WriteString("\n")

	if entry == mainFile {
		sb.WriteString("[[bin]]\n")
		fmt.Fprintf(&sb, "name = %q\n", crate.Name)
	} else {
		sb.WriteString("[lib]\n")
	}
	fmt.Fprintf(&sb, "path = %q\n", entry)
	sb.WriteString("\n")

	sb.WriteString("[dependencies]\n")
	for _, name := range crates {
		fmt.Fprintf(&sb, "%s = %q\n", name, c.cfg.DependencyVersion(name))
	}
	return sb.String()
}
