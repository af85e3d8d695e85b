package lookuphistory

import (
	"time"

	"github.com/yigitech/x-wrapped/internal/db"
)

// Create records a completed lookup.
func Create(conns *db.Connections, record *db.LookupRecord) error {
	return conns.DB.Create(record).Error
}

// TopScores returns the highest-scoring lookups, most recent first within
// equal scores. Only the latest record per handle is considered so repeat
// lookups do not flood the board.
func TopScores(conns *db.Connections, limit int) ([]db.LookupRecord, error) {
	var records []db.LookupRecord
	subQuery := conns.DB.Model(&db.LookupRecord{}).
		Select("MAX(id)").
		Group("handle")
	err := conns.DB.
		Where("id IN (?)", subQuery).
		Order("score DESC, fetched_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// DeleteOlderThan removes records older than the retention period.
func DeleteOlderThan(conns *db.Connections, retention time.Duration) error {
	cutoff := time.Now().Add(-retention)
	return conns.DB.Where("fetched_at < ?", cutoff).Delete(&db.LookupRecord{}).Error
}
