// Package migrations embeds the service schema.
package migrations

import "embed"

// FS holds the *.up.sql files applied at startup in lexical order.
//
//go:embed *.up.sql
var FS embed.FS
