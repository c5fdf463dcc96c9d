package sqlassets

import _ "embed"

//go:embed schema/core.sql
var CoreSchemaSQL string
