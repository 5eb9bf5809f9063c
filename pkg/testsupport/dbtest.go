package testsupport

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
)

var memoryDBCounter atomic.Int64

// NewSQLiteMemoryDB opens a private in-memory sqlite database.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	name := fmt.Sprintf("file:navsync_test_%d?mode=memory&cache=shared", memoryDBCounter.Add(1))
	return sql.Open("sqlite3", name)
}
