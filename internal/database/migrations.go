package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type indexSpec struct {
	table   string
	name    string
	columns string
}

// compositeIndexes backs the ordered selects issued by the reference loaders.
var compositeIndexes = []indexSpec{
	{"track_positions", "idx_track_positions_track_order", "track_id, order_index"},
	{"career_tracks", "idx_career_tracks_department_name", "department_id, name"},
	{"team_members", "idx_team_members_user_id", "user_id"},
	{"development_plan_items", "idx_plan_items_plan_horizon", "plan_id, horizon, sort_order"},
	{"consensus_meetings", "idx_consensus_cycle_employee", "cycle_id, employee_id"},
}

// AddIndexes creates the composite indexes that struct tags cannot express.
func AddIndexes(db *gorm.DB, log *logrus.Logger) error {
	for _, idx := range compositeIndexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{
			"index":   idx.name,
			"table":   idx.table,
			"columns": idx.columns,
		}).Info("Created index")
	}

	return nil
}
