package dao

import (
	"github.com/sinder-app/sinder/tables"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IncrementStatistic adds count to the named counter, creating it on first use.
// Insert and increment are a single upsert on the unique name.
func (d *DB) IncrementStatistic(name tables.StatisticType, count uint64) error {
	if count == 0 {
		return nil
	}
	return d.Clauses(incrementOnConflict(count)).
		Create(&tables.Statistic{Name: name, Count: count}).Error
}

func incrementOnConflict(count uint64) clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("count + ?", count),
		}),
	}
}
