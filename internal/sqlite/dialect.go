package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Dialect renders statements for SQLite: "?" placeholders and
// double-quoted identifiers.
type Dialect struct{}

func (Dialect) Name() string { return types.BackendSQLite }

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// translateError maps constraint violations (foreign key, unique, primary
// key, not null) to types.ErrConflict.
func translateError(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %v", types.ErrConflict, err)
	}
	return err
}
