package store

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var ddlFile string

// DDLStatements returns the CREATE TABLE / INDEX statements from
// schema.sql, split on semicolons with blank fragments dropped.
func DDLStatements() []string {
	var out []string
	for _, p := range strings.Split(ddlFile, ";") {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
