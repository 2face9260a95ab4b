package db

import (
	"ingest/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init() {
	var (
		db  *gorm.DB
		err error
	)
	options := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if config.MYSQL_DSN != "" {
		db, err = gorm.Open(mysql.Open(config.MYSQL_DSN), options)
	} else if config.SQLITE_FILE != "" {
		db, err = gorm.Open(sqlite.Open(config.SQLITE_FILE), options)
	} else {
		panic("no database configured: set MYSQL_DSN or SQLITE_FILE")
	}
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}
