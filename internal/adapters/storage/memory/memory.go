// Package memory implementa los repos en memoria, para dev y tests.
// Misma semántica que los repos de Postgres, sin DSN.
package memory

import "errors"

var ErrNotFound = errors.New("not found")
