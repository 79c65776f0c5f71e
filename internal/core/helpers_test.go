package core

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/coregx/dmlkit/internal/dialects"
	"github.com/coregx/dmlkit/internal/meta"
)

// mockDB creates a minimal DB for SQL generation testing
func mockDB(dialectName string) *DB {
	return &DB{
		dialect: dialects.GetDialect(dialectName),
	}
}

// execDB creates a DB backed by sqlmock for execution testing. The dialect is
// selected independently of the mock driver.
func execDB(t *testing.T, dialectName string) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return WrapDB(sqlDB, dialectName), mock
}

// userModel builds a flat test model with a many-to-many field that must
// never be updatable through SET.
func userModel() *meta.Model {
	m := meta.New("User", "users")
	m.AddField(&meta.Field{Name: "ID", Column: "id", PrimaryKey: true, Concrete: true})
	m.AddField(&meta.Field{Name: "Name", Column: "name", Concrete: true})
	m.AddField(&meta.Field{Name: "Email", Column: "email", Concrete: true})
	m.AddField(&meta.Field{Name: "Views", Column: "views", Concrete: true})
	m.AddField(&meta.Field{Name: "Groups", Column: "groups", ManyToMany: true})
	return m
}

// restaurantModel builds a two-level inheritance chain: Restaurant rows store
// their own columns in "restaurants" while inherited columns live in "places".
func restaurantModel() (restaurant, place *meta.Model) {
	place = meta.New("Place", "places")
	place.AddField(&meta.Field{Name: "ID", Column: "id", PrimaryKey: true, Concrete: true})
	place.AddField(&meta.Field{Name: "Name", Column: "name", Concrete: true})
	place.AddField(&meta.Field{Name: "Address", Column: "address", Concrete: true})

	restaurant = meta.New("Restaurant", "restaurants")
	restaurant.AddParent(place)
	restaurant.AddField(&meta.Field{Name: "ServesPizza", Column: "serves_pizza", Concrete: true})
	restaurant.PK = place.PK
	return restaurant, place
}
