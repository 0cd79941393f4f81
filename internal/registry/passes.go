// Package registry aggregates the blank imports that register generation
// passes. Importing it from main makes every pass available by name.
package registry

import (
	_ "sharpgen/internal/codegen/pinvoke" // Register the pinvoke pass
)
