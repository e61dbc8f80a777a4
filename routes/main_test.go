package routes

import (
	"os"
	"testing"

	"github.com/gurukul/gurukul-backend/testutil"
)

func TestMain(m *testing.M) {
	testutil.ConfigureAuth()
	os.Exit(m.Run())
}
