// Package migrations holds the goose Go migrations for the fixture schema.
//
// Each file registers its up/down pair from init(); goose takes the version
// from the file name, so files must keep the <version>_<name>.go form.
// Import the package for its side effects:
//
//	_ "github.com/MosinFAM/arfixture/internal/migrations"
package migrations

import "database/sql"

// exec runs statements in order inside a migration transaction.
func exec(tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
