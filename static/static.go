// Package static embeds the API documentation page and the OpenAPI
// document it renders, so the binary serves them from any working
// directory.
package static

import "embed"

//go:embed openapi.html openapi.json
var FS embed.FS
