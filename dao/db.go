package dao

import (
	"fmt"
	"github.com/btcsuite/btclog"
	"github.com/go-sql-driver/mysql"
	"github.com/sinder-app/sinder/constants"
	sinderLog "github.com/sinder-app/sinder/log"
	gormMysqlDriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"time"
)

// DB is a struct that embeds gorm.DB to provide additional database functionality.
type DB struct {
	*gorm.DB
}

// DBOptions is a struct that holds the configuration options for the database.
type DBOptions struct {
	addr     string
	user     string
	password string
	dbName   string

	log               btclog.Logger
	autoMigrateTables []interface{}
}

// DBOption is a function type that modifies DBOptions.
type DBOption func(*DBOptions)

// WithAddr returns a DBOption that sets the address of the database.
func WithAddr(addr string) DBOption {
	return func(o *DBOptions) {
		o.addr = addr
	}
}

// WithUser returns a DBOption that sets the user of the database.
func WithUser(user string) DBOption {
	return func(o *DBOptions) {
		o.user = user
	}
}

// WithPassword returns a DBOption that sets the password of the database.
func WithPassword(password string) DBOption {
	return func(o *DBOptions) {
		o.password = password
	}
}

// WithDBName returns a DBOption that sets the name of the database.
func WithDBName(dbName string) DBOption {
	return func(o *DBOptions) {
		o.dbName = dbName
	}
}

// WithLogger returns a DBOption that sets the logger used for SQL tracing.
func WithLogger(log btclog.Logger) DBOption {
	return func(o *DBOptions) {
		o.log = log
	}
}

// WithAutoMigrateTables returns a DBOption that sets the tables to be auto migrated in the database.
func WithAutoMigrateTables(tables ...interface{}) DBOption {
	return func(o *DBOptions) {
		o.autoMigrateTables = tables
	}
}

func newDBOptions(opts ...DBOption) *DBOptions {
	options := &DBOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.addr == "" {
		options.addr = constants.DefaultDBAddr
	}
	if options.user == "" {
		options.user = constants.DefaultDBUser
	}
	if options.dbName == "" {
		options.dbName = constants.DefaultDBName
	}
	if options.log == nil {
		options.log = sinderLog.Gorm
	}
	return options
}

// DSN builds the driver connection string for dbName, which may be empty to
// connect without selecting a database.
func (o *DBOptions) DSN(dbName string) string {
	cfg := mysql.NewConfig()
	cfg.User = o.user
	cfg.Passwd = o.password
	cfg.Net = "tcp"
	cfg.Addr = o.addr
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// NewDB connects to MySQL, creates the database when missing and migrates
// the configured tables.
func NewDB(opts ...DBOption) (*DB, error) {
	options := newDBOptions(opts...)

	db, err := gorm.Open(gormMysqlDriver.Open(options.DSN("")), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("gorm open :%v", err)
	}
	createDb := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`;", options.dbName)
	if err = db.Exec(createDb).Error; err != nil {
		return nil, fmt.Errorf("gorm create database :%v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	db, err = gorm.Open(gormMysqlDriver.Open(options.DSN(options.dbName)), &gorm.Config{
		Logger: &GormLogger{Logger: options.log},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open :%v", err)
	}
	if err := db.AutoMigrate(options.autoMigrateTables...); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm db :%v", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)

	return &DB{
		DB: db,
	}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
