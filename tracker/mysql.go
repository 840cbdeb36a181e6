package tracker

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// MySQLTrackerConfig represents the MySQLTracker connection config structure.
type MySQLTrackerConfig struct {
	Host     string `validate:"required"`
	Database string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`
	Port     string `validate:"required"`
}

// NewMySQLTracker returns a new instance of the MySQLTracker.
func NewMySQLTracker(conn MySQLTrackerConfig, cfg GORMTrackerConfig) *MySQLTracker {
	return &MySQLTracker{
		GORMTracker: GORMTracker{Cfg: cfg},
		Conn:        conn,
	}
}

// MySQLTracker represents a tracker that stores the history of runs inside a MySQL database.
type MySQLTracker struct {
	GORMTracker
	Conn MySQLTrackerConfig
}

// Setup contains the storage preparations like connection etc. Is called only once at the very
// beginning of the work with the storage. As for the MySQLTracker, it creates the database if it
// doesn't exist yet, tests the connection and migrates the tables.
func (t *MySQLTracker) Setup() error {
	db, err := gorm.Open(mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/?%s", t.Conn.User, t.Conn.Password, t.Conn.Host, t.Conn.Port, "parseTime=true")), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		return err
	}
	err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`  DEFAULT CHARACTER SET = `utf8mb4` DEFAULT COLLATE = `utf8mb4_unicode_ci`;", t.Conn.Database)).Error
	if err != nil {
		return err
	}
	mdb, err := db.DB()
	if err != nil {
		return err
	}
	mdb.Close()
	db, err = gorm.Open(mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", t.Conn.User, t.Conn.Password, t.Conn.Host, t.Conn.Port, t.Conn.Database, "parseTime=true")), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		return err
	}
	db = db.Set("gorm:table_options", "CHARSET=utf8mb4 ENGINE=InnoDB COLLATE=utf8mb4_unicode_ci")
	return t.init(db)
}
