package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/northstar/internal/profile"
	"github.com/hrygo/northstar/store"
	"github.com/hrygo/northstar/store/db/postgres"
	"github.com/hrygo/northstar/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite backs dev and demo modes; PostgreSQL is the production driver.
// Both drivers share one schema and one query shape.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
