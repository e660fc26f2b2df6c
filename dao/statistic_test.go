package dao

import (
	"github.com/sinder-app/sinder/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormMysqlDriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"testing"
)

func dryRunDB(t *testing.T) *DB {
	db, err := gorm.Open(gormMysqlDriver.New(gormMysqlDriver.Config{
		DSN:                       "root@tcp(127.0.0.1:3306)/sinder",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: logger.Discard})
	require.NoError(t, err)
	return &DB{DB: db}
}

func TestIncrementStatisticUpsert(t *testing.T) {
	d := dryRunDB(t)
	stmt := d.Clauses(incrementOnConflict(3)).
		Create(&tables.Statistic{Name: tables.StatisticHealthChecks, Count: 3}).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "INSERT INTO `statistic`")
	assert.Contains(t, sql, "ON DUPLICATE KEY UPDATE `count`=count + ?")
	assert.Equal(t, uint64(3), stmt.Vars[len(stmt.Vars)-1])

	assert.NoError(t, d.IncrementStatistic(tables.StatisticHealthChecks, 3))
	assert.NoError(t, d.IncrementStatistic(tables.StatisticHealthChecks, 0))
}

func TestIncrementOnConflict(t *testing.T) {
	c := incrementOnConflict(5)
	require.Len(t, c.Columns, 1)
	assert.Equal(t, "name", c.Columns[0].Name)
	require.Len(t, c.DoUpdates, 1)
	assert.Equal(t, "count", c.DoUpdates[0].Column.Name)
	assert.Equal(t, gorm.Expr("count + ?", uint64(5)), c.DoUpdates[0].Value)
}
