package sqlite

import "database/sql"

// schema sets up the single-slot layout. The whole ledger lives in one row
// of the slots table, keyed by name; updated_at records the last overwrite.
const schema = `
CREATE TABLE IF NOT EXISTS slots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
