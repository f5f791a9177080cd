package store

import (
	"time"

	"gorm.io/datatypes"
)

// HandRecord 保存一手规范化后的牌局。时间列使用 unix 毫秒。
type HandRecord struct {
	ID            string         `gorm:"column:id;primaryKey;size:36"`
	Source        string         `gorm:"column:source;index"`
	RawText       string         `gorm:"column:raw_text;type:TEXT"`
	HandJSON      datatypes.JSON `gorm:"column:hand_json;type:TEXT"`
	ActionCount   int            `gorm:"column:action_count"`
	BlindsApplied bool           `gorm:"column:blinds_applied"`
	CreatedAtUnix int64          `gorm:"column:created_at;index"`

	CreatedAt time.Time `gorm:"-"`
}

func (HandRecord) TableName() string { return "hands" }

// AnalysisRecord caches a vision reply by image hash and provider.
type AnalysisRecord struct {
	CacheKey      string         `gorm:"column:cache_key;primaryKey"`
	HHText        string         `gorm:"column:hh_text;type:TEXT"`
	ParsedJSON    datatypes.JSON `gorm:"column:parsed_json;type:TEXT"`
	CreatedAtUnix int64          `gorm:"column:created_at"`
	UpdatedAtUnix int64          `gorm:"column:updated_at"`
}

func (AnalysisRecord) TableName() string { return "analysis_cache" }

func (r *HandRecord) fillTimes() {
	if r.CreatedAtUnix > 0 {
		r.CreatedAt = time.UnixMilli(r.CreatedAtUnix)
	}
}
