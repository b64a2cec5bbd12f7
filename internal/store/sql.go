package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klauern/hookgate/internal/constants"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Property is a single global property row
type Property struct {
	Key       string    `gorm:"column:prop_key;primaryKey;size:512"`
	Value     string    `gorm:"column:text_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName specifies the table name for GORM
func (*Property) TableName() string {
	return constants.SQLPropertiesTable
}

// SQLStore keeps properties in a relational database through GORM.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLStore connects to sqlite or postgres and migrates the properties table.
func OpenSQLStore(driver, dsn string, loggers ldlog.Loggers) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s property store requires a dsn", driver)
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	// ParameterizedQueries keeps stored values out of the logs
	gormLogger := logger.New(
		loggers.ForLevel(ldlog.Warn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return NewSQLStore(db)
}

// NewSQLStore wraps an open connection and migrates the properties table.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Property{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s table: %w", constants.SQLPropertiesTable, err)
	}
	return &SQLStore{db: db}, nil
}

// GetGlobalProperty returns the stored value
func (s *SQLStore) GetGlobalProperty(ctx context.Context, key string) (string, bool, error) {
	var p Property
	err := s.db.WithContext(ctx).Where("prop_key = ?", key).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to select property %s: %w", key, err)
	}
	return p.Value, true, nil
}

// SetGlobalProperty inserts or updates the row for key
func (s *SQLStore) SetGlobalProperty(ctx context.Context, key, value string) error {
	p := Property{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prop_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"text_value", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("failed to save property %s: %w", key, err)
	}
	return nil
}

// DeleteGlobalProperty removes the row for key
func (s *SQLStore) DeleteGlobalProperty(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("prop_key = ?", key).Delete(&Property{}).Error; err != nil {
		return fmt.Errorf("failed to delete property %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
