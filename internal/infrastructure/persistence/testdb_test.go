package persistence

import (
	"testing"

	"gorm.io/gorm"

	"github.com/ferreteria/backoffice/internal/testutil"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t)
}
