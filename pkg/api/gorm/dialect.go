// Package gorm drives a modernc.org/sqlite database/sql pool through GORM.
package gorm

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"gorm.io/gorm"
	"gorm.io/gorm/callbacks"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/kasuganosora/sga/pkg/api"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Dialector wraps an open SQLite pool as a GORM dialect.
type Dialector struct {
	Conn *sql.DB
}

// NewDialector returns a dialect over conn.
func NewDialector(conn *sql.DB) gorm.Dialector {
	return &Dialector{Conn: conn}
}

// Open opens the SQLite database at path with a single connection and
// returns it as a GORM handle. A nil logger silences GORM.
func Open(path string, l api.Logger) (*gorm.DB, error) {
	conn, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, api.WrapError(err, api.ErrCodeIO, fmt.Sprintf("open sqlite %s", path))
	}
	// single writer
	conn.SetMaxOpenConns(1)

	db, err := gorm.Open(NewDialector(conn), &gorm.Config{
		Logger:                 NewLogger(l),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		conn.Close()
		return nil, api.WrapError(err, api.ErrCodeIO, fmt.Sprintf("open sqlite %s", path))
	}
	return db, nil
}

// Name returns the dialect name.
func (d *Dialector) Name() string {
	return "sqlite"
}

// Initialize installs the default CRUD callbacks and the connection pool.
func (d *Dialector) Initialize(db *gorm.DB) error {
	callbacks.RegisterDefaultCallbacks(db, &callbacks.Config{})
	db.ConnPool = d.Conn
	return nil
}

// Migrator returns the SQLite migrator.
func (d *Dialector) Migrator(db *gorm.DB) gorm.Migrator {
	return newMigrator(db, d)
}

// DataTypeOf maps schema types onto SQLite storage classes.
func (d *Dialector) DataTypeOf(field *schema.Field) string {
	switch field.DataType {
	case schema.Bool:
		return "numeric"
	case schema.Int, schema.Uint:
		return "integer"
	case schema.Float:
		return "real"
	case schema.String:
		return "text"
	case schema.Time:
		return "datetime"
	case schema.Bytes:
		return "blob"
	default:
		return string(field.DataType)
	}
}

// DefaultValueOf is used for fields with a default and no value.
func (d *Dialector) DefaultValueOf(field *schema.Field) clause.Expression {
	return clause.Expr{SQL: "NULL"}
}

// BindVarTo writes a positional placeholder.
func (d *Dialector) BindVarTo(writer clause.Writer, stmt *gorm.Statement, v interface{}) {
	writer.WriteByte('?')
}

// QuoteTo double-quotes each dotted part of an identifier.
func (d *Dialector) QuoteTo(writer clause.Writer, str string) {
	for i, part := range strings.Split(str, ".") {
		if i > 0 {
			writer.WriteByte('.')
		}
		writer.WriteByte('"')
		writer.WriteString(strings.ReplaceAll(part, `"`, `""`))
		writer.WriteByte('"')
	}
}

// Explain inlines vars into sql for logging.
func (d *Dialector) Explain(sql string, vars ...interface{}) string {
	return logger.ExplainSQL(sql, nil, `"`, vars...)
}
