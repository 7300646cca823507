// Package catalogtest provides a conformance test suite for catalog implementations.
//
// All catalog backends (memory, gormdb, badger) should pass these tests:
//
//	func TestConformance(t *testing.T) {
//	    catalogtest.RunConformanceSuite(t, func(t *testing.T) catalog.Catalog {
//	        return memory.New()
//	    })
//	}
//
// The factory receives *testing.T so it can call t.TempDir() for catalogs
// that need filesystem paths and t.Cleanup for teardown.
package catalogtest
