// Liveness probe: verifies the settings store is reachable and holds at
// least one row. Exits 0 when healthy, 1 otherwise.
package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

func main() {
	dbPath := os.Getenv("DEXKEEPER_DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/dexkeeper.db"
	}

	if _, err := os.Stat(dbPath); err != nil {
		fail("database not found at %s", dbPath)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		fail("open database: %v", err)
	}
	defer db.Close()

	var one int
	if err := db.QueryRow("SELECT 1 FROM settings LIMIT 1").Scan(&one); err != nil {
		fail("settings probe: %v", err)
	}

	fmt.Println("healthcheck passed")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "healthcheck failed: "+format+"\n", args...)
	os.Exit(1)
}
