// internals/features/schools/directory/service/gorm_store.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dirModel "educa_backend/internals/features/schools/directory/model"
	schoolModel "educa_backend/internals/features/schools/schools/model"
	studentModel "educa_backend/internals/features/schools/students/model"
)

const batchSize = 100

// GormStore persists the directory in any GORM dialect (SQLite locally, PostgreSQL in production).
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// Models lists the tables owned by the store, for AutoMigrate.
func Models() []any {
	return []any{
		&schoolModel.SchoolModel{},
		&studentModel.StudentModel{},
		&dirModel.SettingModel{},
	}
}

func (s *GormStore) Migrate() error {
	if err := s.DB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate directory: %w", err)
	}
	return nil
}

/* ===================== FLAGS ===================== */

func (s *GormStore) IsInitialized(ctx context.Context) (bool, error) {
	v, ok, err := getSetting(s.DB.WithContext(ctx), dirModel.SettingInitialized)
	if err != nil || !ok {
		return false, err
	}
	b, _ := strconv.ParseBool(v)
	return b, nil
}

func (s *GormStore) SetInitialized(ctx context.Context, v bool) error {
	return putSetting(s.DB.WithContext(ctx), dirModel.SettingInitialized, strconv.FormatBool(v))
}

func (s *GormStore) LastBackup(ctx context.Context) (*time.Time, error) {
	v, ok, err := getSetting(s.DB.WithContext(ctx), dirModel.SettingLastBackup)
	if err != nil || !ok {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", dirModel.SettingLastBackup, err)
	}
	return &t, nil
}

func (s *GormStore) SetLastBackup(ctx context.Context, at time.Time) error {
	return putSetting(s.DB.WithContext(ctx), dirModel.SettingLastBackup, at.UTC().Format(time.RFC3339Nano))
}

func (s *GormStore) ClearLastBackup(ctx context.Context) error {
	return deleteSetting(s.DB.WithContext(ctx), dirModel.SettingLastBackup)
}

/* ===================== SCHOOLS ===================== */

func (s *GormStore) ListSchools(ctx context.Context) ([]schoolModel.SchoolModel, error) {
	var rows []schoolModel.SchoolModel
	if err := s.DB.WithContext(ctx).Order("school_created_at ASC, school_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return rows, nil
}

func (s *GormStore) PutSchool(ctx context.Context, m schoolModel.SchoolModel) error {
	if err := upsert(s.DB.WithContext(ctx)).Create(&m).Error; err != nil {
		return fmt.Errorf("put school %s: %w", m.SchoolID, err)
	}
	return nil
}

func (s *GormStore) PutSchools(ctx context.Context, rows []schoolModel.SchoolModel) error {
	if len(rows) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx).CreateInBatches(&rows, batchSize).Error; err != nil {
			return fmt.Errorf("bulk put schools: %w", err)
		}
		return nil
	})
}

func (s *GormStore) DeleteSchool(ctx context.Context, id string) error {
	if err := s.DB.WithContext(ctx).Delete(&schoolModel.SchoolModel{}, "school_id = ?", id).Error; err != nil {
		return fmt.Errorf("delete school %s: %w", id, err)
	}
	return nil
}

/* ===================== STUDENTS ===================== */

func (s *GormStore) ListStudents(ctx context.Context) ([]studentModel.StudentModel, error) {
	var rows []studentModel.StudentModel
	if err := s.DB.WithContext(ctx).Order("student_created_at ASC, student_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return rows, nil
}

func (s *GormStore) PutStudent(ctx context.Context, m studentModel.StudentModel) error {
	if err := upsert(s.DB.WithContext(ctx)).Create(&m).Error; err != nil {
		return fmt.Errorf("put student %s: %w", m.StudentID, err)
	}
	return nil
}

func (s *GormStore) PutStudents(ctx context.Context, rows []studentModel.StudentModel) error {
	if len(rows) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx).CreateInBatches(&rows, batchSize).Error; err != nil {
			return fmt.Errorf("bulk put students: %w", err)
		}
		return nil
	})
}

func (s *GormStore) DeleteStudent(ctx context.Context, id string) error {
	if err := s.DB.WithContext(ctx).Delete(&studentModel.StudentModel{}, "student_id = ?", id).Error; err != nil {
		return fmt.Errorf("delete student %s: %w", id, err)
	}
	return nil
}

/* ===================== LIFECYCLE ===================== */

func (s *GormStore) Reseed(ctx context.Context, schools []schoolModel.SchoolModel, students []studentModel.StudentModel) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearTables(tx, &schoolModel.SchoolModel{}, &studentModel.StudentModel{}); err != nil {
			return err
		}
		if len(schools) > 0 {
			if err := tx.CreateInBatches(&schools, batchSize).Error; err != nil {
				return fmt.Errorf("seed schools: %w", err)
			}
		}
		if len(students) > 0 {
			if err := tx.CreateInBatches(&students, batchSize).Error; err != nil {
				return fmt.Errorf("seed students: %w", err)
			}
		}
		if err := deleteSetting(tx, dirModel.SettingLastBackup); err != nil {
			return err
		}
		return putSetting(tx, dirModel.SettingInitialized, "true")
	})
}

func (s *GormStore) Wipe(ctx context.Context) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return clearTables(tx,
			&schoolModel.SchoolModel{},
			&studentModel.StudentModel{},
			&dirModel.SettingModel{},
		)
	})
}

/* ===================== helpers ===================== */

func upsert(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.OnConflict{UpdateAll: true})
}

func clearTables(tx *gorm.DB, models ...any) error {
	for _, m := range models {
		if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	return nil
}

func getSetting(db *gorm.DB, key string) (string, bool, error) {
	var row dirModel.SettingModel
	err := db.Where("setting_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	return row.SettingValue, true, nil
}

func putSetting(db *gorm.DB, key, value string) error {
	row := dirModel.SettingModel{SettingKey: key, SettingValue: value}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "setting_updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

func deleteSetting(db *gorm.DB, key string) error {
	if err := db.Delete(&dirModel.SettingModel{}, "setting_key = ?", key).Error; err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}
