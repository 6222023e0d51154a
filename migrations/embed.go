// Package migrations expone los scripts goose embebidos en el binario.
package migrations

import "embed"

// FS contiene los archivos *.sql versionados.
//
//go:embed *.sql
var FS embed.FS
