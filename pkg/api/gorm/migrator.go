package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/migrator"
)

// Migrator is the generic GORM migrator with SQLite catalog lookups.
type Migrator struct {
	migrator.Migrator
}

func newMigrator(db *gorm.DB, d *Dialector) Migrator {
	return Migrator{migrator.Migrator{Config: migrator.Config{
		DB:                          db,
		Dialector:                   d,
		CreateIndexAfterCreateTable: true,
	}}}
}

// AutoMigrate creates the tables that do not exist yet. Existing tables
// are left as they are.
func (m Migrator) AutoMigrate(values ...interface{}) error {
	for _, value := range values {
		if m.HasTable(value) {
			continue
		}
		if err := m.CreateTable(value); err != nil {
			return err
		}
	}
	return nil
}

// HasTable looks the table up in sqlite_master.
func (m Migrator) HasTable(value interface{}) bool {
	var count int64
	m.RunWithValue(value, func(stmt *gorm.Statement) error {
		return m.DB.Raw("SELECT count(*) FROM sqlite_master WHERE type = ? AND name = ?", "table", stmt.Table).Row().Scan(&count)
	})
	return count > 0
}

// GetTables lists user tables.
func (m Migrator) GetTables() (tableList []string, err error) {
	err = m.DB.Raw("SELECT name FROM sqlite_master WHERE type = ? AND name NOT LIKE ?", "table", "sqlite_%").Scan(&tableList).Error
	return tableList, err
}

// CurrentDatabase returns the schema name of the main database.
func (m Migrator) CurrentDatabase() string {
	return "main"
}
