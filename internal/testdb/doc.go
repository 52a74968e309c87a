// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Tests are skipped unless LUSO_TEST_DATABASE_URL is set. Each test can run in
// its own transaction that is rolled back when the test completes:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        // use tx
//	    })
//	}
package testdb
