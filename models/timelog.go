package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MillisPerHour converts log durations to hours for cost computation.
const MillisPerHour = 3600000

// GeoPoint is a captured geolocation, stored as a jsonb column.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Value implements the driver.Valuer interface
func (g GeoPoint) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements the sql.Scanner interface
func (g *GeoPoint) Scan(value interface{}) error {
	return scanJSON(value, g)
}

// TimeLog represents the time_logs table. A log with no ClockOut is "open";
// DurationMs and Cost are set when the log closes. Cost uses the user's hourly
// rate in effect at close time. InvoiceID is set while an invoice line item
// claims the log.
type TimeLog struct {
	TimeLogID      int              `gorm:"primaryKey;column:time_log_id" json:"time_log_id"`
	UserID         int              `gorm:"column:user_id;index" json:"user_id"`
	ProjectID      int              `gorm:"column:project_id;index" json:"project_id"`
	ClockIn        time.Time        `gorm:"column:clock_in" json:"clock_in"`
	ClockOut       *time.Time       `gorm:"column:clock_out" json:"clock_out,omitempty"`
	DurationMs     *int64           `gorm:"column:duration_ms" json:"duration_ms,omitempty"`
	Cost           *decimal.Decimal `gorm:"column:cost;type:decimal(20,4)" json:"cost,omitempty"`
	ClockInCoords  *GeoPoint        `gorm:"column:clock_in_coords;type:jsonb" json:"clock_in_coords,omitempty"`
	ClockOutCoords *GeoPoint        `gorm:"column:clock_out_coords;type:jsonb" json:"clock_out_coords,omitempty"`
	ClockInMapKey  string           `gorm:"column:clock_in_map_key" json:"clock_in_map_key,omitempty"`
	ClockOutMapKey string           `gorm:"column:clock_out_map_key" json:"clock_out_map_key,omitempty"`
	InvoiceID      *int             `gorm:"column:invoice_id;index" json:"invoice_id,omitempty"`
}

// TableName overrides the table name for TimeLog
func (TimeLog) TableName() string {
	return "time_logs"
}

// IsOpen reports whether the log has a clock-in but no clock-out yet.
func (t *TimeLog) IsOpen() bool {
	return t.ClockOut == nil
}

// ManualTimeLogRequest is the payload for a manually entered log. It bypasses
// the clock state machine but still gets duration and cost computed from the
// given pair and the user's current hourly rate.
type ManualTimeLogRequest struct {
	UserID    int       `json:"user_id" binding:"required"`
	ProjectID int       `json:"project_id" binding:"required"`
	ClockIn   time.Time `json:"clock_in" binding:"required"`
	ClockOut  time.Time `json:"clock_out" binding:"required"`
}

// TimeLogUpdateRequest adjusts the clock-in/out pair of a closed log; duration
// and cost are recomputed.
type TimeLogUpdateRequest struct {
	ProjectID *int       `json:"project_id,omitempty"`
	ClockIn   *time.Time `json:"clock_in,omitempty"`
	ClockOut  *time.Time `json:"clock_out,omitempty"`
}
