package data

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setting is one row of the settings table.
type Setting struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:64;not null;uniqueIndex"`
	Value  string `gorm:"type:text;not null"`
	Active uint8  `gorm:"not null;default:1"`
}

// LoadSettings reads the active rows of the settings table into a map.
func LoadSettings(db *gorm.DB) (map[string]string, error) {
	var settings []Setting
	if err := db.Where("active = ?", 1).Find(&settings).Error; err != nil {
		return nil, err
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Name] = s.Value
	}
	return out, nil
}

// ReadSettings opens dsn, loads the active settings and closes the pool.
func ReadSettings(dsn string, log *zap.Logger) (map[string]string, error) {
	db, err := ConnectMySQL(dsn, log)
	if err != nil {
		return nil, err
	}
	defer func() { _ = Close(db) }()
	return LoadSettings(db)
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
