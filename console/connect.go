// Package console reads the subscription console database that maps tenant
// domains to customers.
package console

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobtrack.com/jobtrack/infrastructure/devops"
)

const databaseName = "console"

// Connect opens the console database. An empty dsn is resolved from the
// "console" entry of the SSM databases parameter.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		entry, err := devops.LookupDatabase(ctx, databaseName)
		if err != nil {
			return nil, fmt.Errorf("console database parameter: %w", err)
		}
		dsn = entry.DSN(devops.DriverMySQL, entry.Name)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
