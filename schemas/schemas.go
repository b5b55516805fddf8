// Package schemas содержит встроенные JSON-схемы контрактов:
// наборы правил агентств и версионированные события очередей.
package schemas

import "embed"

//go:embed rulesets events
var SchemasFS embed.FS
