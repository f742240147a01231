package history

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/cliquecount/pkg/model"
)

// runRecordRow represents the run_records table: one row per completed
// engine run.
type runRecordRow struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Dataset         string    `gorm:"column:dataset;type:varchar(256);index"`
	NumRanks        int       `gorm:"column:num_ranks"`
	DonationEnabled bool      `gorm:"column:donation_enabled"`
	Threshold       int       `gorm:"column:threshold"`
	Counts          JSONField `gorm:"column:counts;type:json"`
	TotalCliques    int64     `gorm:"column:total_cliques"`
	HelpSent        int64     `gorm:"column:help_sent"`
	HelpAccepted    int64     `gorm:"column:help_accepted"`
	HelpRejected    int64     `gorm:"column:help_rejected"`
	ElapsedSeconds  float64   `gorm:"column:elapsed_seconds"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName returns the table name for runRecordRow.
func (runRecordRow) TableName() string {
	return "run_records"
}

func (r *runRecordRow) toSummary() (*model.RunSummary, error) {
	counts := make(map[int]int64)
	if r.Counts != nil {
		if err := json.Unmarshal(r.Counts, &counts); err != nil {
			return nil, err
		}
	}
	return &model.RunSummary{
		Dataset:         r.Dataset,
		NumRanks:        r.NumRanks,
		DonationEnabled: r.DonationEnabled,
		Threshold:       r.Threshold,
		Counts:          counts,
		TotalCliques:    r.TotalCliques,
		HelpSent:        r.HelpSent,
		HelpAccepted:    r.HelpAccepted,
		HelpRejected:    r.HelpRejected,
		ElapsedSeconds:  r.ElapsedSeconds,
		CreatedAt:       r.CreatedAt,
	}, nil
}

func fromSummary(s *model.RunSummary) (*runRecordRow, error) {
	countsJSON, err := json.Marshal(s.Counts)
	if err != nil {
		return nil, err
	}
	return &runRecordRow{
		Dataset:         s.Dataset,
		NumRanks:        s.NumRanks,
		DonationEnabled: s.DonationEnabled,
		Threshold:       s.Threshold,
		Counts:          JSONField(countsJSON),
		TotalCliques:    s.TotalCliques,
		HelpSent:        s.HelpSent,
		HelpAccepted:    s.HelpAccepted,
		HelpRejected:    s.HelpRejected,
		ElapsedSeconds:  s.ElapsedSeconds,
	}, nil
}

// JSONField is a custom type for handling JSON fields in GORM.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}
