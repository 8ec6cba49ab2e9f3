// Package snaptest connects the snapshot engine to Go tests.
//
// One Suite serves one test file. Create it in TestMain, assert with Match
// inside tests and let Run finish the suite after every test has completed:
//
//	var snaps *snaptest.Suite
//
//	func TestMain(m *testing.M) {
//	    cfg, err := config.Load("")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    snaps, err = snaptest.Open(context.Background(), cfg, "cart_test.go")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    os.Exit(snaptest.Run(m, snaps))
//	}
//
//	func TestCartTotal(t *testing.T) {
//	    snaps.Match(t, cart.Total())
//	}
//
// To accept changed snapshots run the tests with SNAPKIT_UPDATE=all. With
// CI=true missing snapshots fail instead of being recorded.
package snaptest
