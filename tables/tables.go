package tables

// Tables is the auto-migrate set for the statistics database.
var Tables = []interface{}{
	&Statistic{},
}
