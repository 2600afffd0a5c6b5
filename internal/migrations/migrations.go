// Package migrations holds the versioned schema history of the application.
// Each step carries its own frozen copy of the models it touches so that
// later changes to internal/domain never rewrite history.
package migrations

import (
	"fmt"
	"sort"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

const tableName = "schema_migrations"

var options = &gormigrate.Options{
	TableName:                 tableName,
	IDColumnName:              "id",
	IDColumnSize:              255,
	UseTransaction:            false,
	ValidateUnknownMigrations: true,
}

// All returns the migration history in application order.
func All() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createUsersAndTodos(),
		addUserPhoneNumber(),
	}
}

func createUsersAndTodos() *gormigrate.Migration {
	type user struct {
		ID             uint   `gorm:"primaryKey"`
		Email          string `gorm:"uniqueIndex;not null"`
		Username       string `gorm:"uniqueIndex;not null"`
		FirstName      string
		LastName       string
		HashedPassword string `gorm:"not null"`
		IsActive       bool   `gorm:"not null;default:true"`
		Role           string
	}
	type todo struct {
		ID          uint   `gorm:"primaryKey"`
		Title       string `gorm:"not null"`
		Description string `gorm:"not null"`
		Priority    int    `gorm:"not null"`
		Complete    bool   `gorm:"not null;default:false"`
		OwnerID     uint   `gorm:"not null;index"`
		Owner       user   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	}

	return &gormigrate.Migration{
		ID: "0001_create_users_and_todos",
		Migrate: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&user{}, &todo{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("todos", "users")
		},
	}
}

type userPhoneNumber struct {
	PhoneNumber *string
}

func (userPhoneNumber) TableName() string { return "users" }

// Revision 5e294708136d in the history this schema was ported from.
func addUserPhoneNumber() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "0002_add_users_phone_number",
		Migrate: func(tx *gorm.DB) error {
			return tx.Migrator().AddColumn(&userPhoneNumber{}, "PhoneNumber")
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropColumn(&userPhoneNumber{}, "PhoneNumber")
		},
	}
}

// New builds a migrator over the full history.
func New(db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, options, All())
}

// Up applies every pending migration.
func Up(db *gorm.DB) error {
	if err := New(db).Migrate(); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// UpTo applies pending migrations up to and including id.
func UpTo(db *gorm.DB, id string) error {
	if err := New(db).MigrateTo(id); err != nil {
		return fmt.Errorf("migrate up to %s: %w", id, err)
	}
	return nil
}

// Down reverts the most recently applied migration.
func Down(db *gorm.DB) error {
	if err := New(db).RollbackLast(); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Status is one row of the migration history.
type Status struct {
	ID      string
	Applied bool
}

// List reports every known migration and whether it has been applied.
func List(db *gorm.DB) ([]Status, error) {
	applied := map[string]bool{}
	if db.Migrator().HasTable(tableName) {
		var ids []string
		if err := db.Table(tableName).Pluck("id", &ids).Error; err != nil {
			return nil, fmt.Errorf("read %s: %w", tableName, err)
		}
		for _, id := range ids {
			applied[id] = true
		}
	}

	all := All()
	out := make([]Status, 0, len(all))
	for _, m := range all {
		out = append(out, Status{ID: m.ID, Applied: applied[m.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
