package gorm

import (
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/kasuganosora/sga/pkg/api"
)

// slowQuery is the threshold above which GORM logs a statement.
const slowQuery = 200 * time.Millisecond

type printfWriter struct {
	l api.Logger
}

func (w printfWriter) Printf(format string, args ...interface{}) {
	w.l.Warn(format, args...)
}

// NewLogger routes GORM warnings, errors and slow statements to l.
// A nil l discards everything.
func NewLogger(l api.Logger) gormlogger.Interface {
	if l == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(printfWriter{l: api.WithPrefix(l, "gorm: ")}, gormlogger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
