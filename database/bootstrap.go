// database/bootstrap.go
package database

import (
	"github.com/glebarez/sqlite" // CGO-free driver
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kisansetu/entities"
)

// Models is every table the server owns, in migration order.
var Models = []interface{}{
	&entities.CommunityPost{},
	&entities.CommunityReply{},
	&entities.KBDocument{},
	&entities.KBChunk{},
	&entities.EquipmentBooking{},
	&entities.ChatLog{},
}

// OpenSQLite opens path and migrates every model. ":memory:" works for tests.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	lvl := logger.Silent
	if debug {
		lvl = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(lvl)})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// sqlite allows one writer; a single connection also keeps ":memory:" shared
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, errors.Wrap(err, "automigrate")
	}
	return db, nil
}

// MustOpenMemory is OpenSQLite(":memory:") for tests.
func MustOpenMemory() *gorm.DB {
	db, err := OpenSQLite(":memory:", false)
	if err != nil {
		panic(err)
	}
	return db
}

// IsEmpty reports whether the table behind model has no rows; seeders use it.
func IsEmpty(db *gorm.DB, model interface{}) (bool, error) {
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		return false, err
	}
	return n == 0, nil
}
