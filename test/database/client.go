// Package database provides test database clients backed by testcontainers
// locally and a service container in CI.
package database

import (
	"testing"

	"github.com/droverhq/drover/pkg/database"
	"github.com/droverhq/drover/test/util"
)

// NewTestClient creates a test database client against a fresh schema.
// The schema and connections are cleaned up when the test ends.
func NewTestClient(t *testing.T) *database.Client {
	entClient, db := util.SetupTestDatabase(t)
	return database.NewClientFromEnt(entClient, db)
}
