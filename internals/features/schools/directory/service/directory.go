// internals/features/schools/directory/service/directory.go
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"educa_backend/internals/features/schools/availability"
	schoolModel "educa_backend/internals/features/schools/schools/model"
	studentModel "educa_backend/internals/features/schools/students/model"
	"educa_backend/internals/helpers/fuzzy"
	seedSchool "educa_backend/internals/seeds/schools/schools"
)

var _ Store = (*GormStore)(nil)

// Directory is the in-memory view of every school and student and the only writer of
// that view. Mutations hit the Store first; the cache changes only after the write succeeds.
type Directory struct {
	store Store
	seed  seedSchool.Dataset
	log   *zap.Logger
	now   func() time.Time

	// held across store write + cache update so the two never interleave between requests
	mu         sync.RWMutex
	schools    []schoolModel.SchoolModel
	students   []studentModel.StudentModel
	lastBackup *time.Time
	loaded     bool
}

type Option func(*Directory)

func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}

func NewDirectory(store Store, seed seedSchool.Dataset, opts ...Option) *Directory {
	d := &Directory{
		store: store,
		seed:  seed,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

/* ===================== LIFECYCLE ===================== */

// Load seeds an uninitialized store exactly once; afterwards it mirrors what the store holds.
func (d *Directory) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadLocked(ctx)
}

func (d *Directory) loadLocked(ctx context.Context) error {
	initialized, err := d.store.IsInitialized(ctx)
	if err != nil {
		return fmt.Errorf("check initialized flag: %w", err)
	}

	if !initialized {
		d.log.Info("first run detected, seeding directory",
			zap.Int("schools", len(d.seed.Schools)),
			zap.Int("students", len(d.seed.Students)))

		ds := d.seed.Clone()
		if err := d.store.Reseed(ctx, ds.Schools, ds.Students); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		ds = d.seed.Clone()
		d.schools, d.students, d.lastBackup = ds.Schools, ds.Students, nil
		d.loaded = true
		return nil
	}

	var (
		schools  []schoolModel.SchoolModel
		students []studentModel.StudentModel
		backup   *time.Time
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		schools, err = d.store.ListSchools(gctx)
		return err
	})
	g.Go(func() (err error) {
		students, err = d.store.ListStudents(gctx)
		return err
	})
	g.Go(func() (err error) {
		backup, err = d.store.LastBackup(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load directory: %w", err)
	}

	d.log.Info("directory loaded from store",
		zap.Int("schools", len(schools)),
		zap.Int("students", len(students)))

	d.schools, d.students, d.lastBackup = schools, students, backup
	d.loaded = true
	return nil
}

// Reset restores the seed dataset and forgets the backup timestamp.
func (d *Directory) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds := d.seed.Clone()
	if err := d.store.Reseed(ctx, ds.Schools, ds.Students); err != nil {
		return fmt.Errorf("reset directory: %w", err)
	}
	ds = d.seed.Clone()
	d.schools, d.students, d.lastBackup = ds.Schools, ds.Students, nil
	d.loaded = true
	d.log.Info("directory reset to factory dataset")
	return nil
}

// Wipe erases every record and flag, then loads again as a first run.
func (d *Directory) Wipe(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe store: %w", err)
	}
	d.schools, d.students, d.lastBackup, d.loaded = nil, nil, nil, false
	d.log.Warn("local data wiped")
	return d.loadLocked(ctx)
}

// RegisterBackup only records when the last backup happened; no data is exported.
func (d *Directory) RegisterBackup(ctx context.Context) (time.Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	at := d.now().UTC()
	if err := d.store.SetLastBackup(ctx, at); err != nil {
		return time.Time{}, fmt.Errorf("register backup: %w", err)
	}
	d.lastBackup = &at
	return at, nil
}

func (d *Directory) LastBackup() *time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.lastBackup == nil {
		return nil
	}
	t := *d.lastBackup
	return &t
}

func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

/* ===================== SCHOOL MUTATIONS ===================== */

// AddSchool inserts or replaces a school by id. An empty id gets a fresh uuid.
func (d *Directory) AddSchool(ctx context.Context, s schoolModel.SchoolModel) (schoolModel.SchoolModel, error) {
	s, err := prepareSchool(s)
	if err != nil {
		return schoolModel.SchoolModel{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.PutSchool(ctx, s); err != nil {
		d.log.Error("persist school failed", zap.String("school_id", s.SchoolID), zap.Error(err))
		return schoolModel.SchoolModel{}, fmt.Errorf("save school: %w", err)
	}
	d.schools = slices.DeleteFunc(d.schools, func(x schoolModel.SchoolModel) bool { return x.SchoolID == s.SchoolID })
	d.schools = append(d.schools, s.Clone())
	return s, nil
}

// UpdateSchools bulk-upserts; existing entries keep their position, new ones are appended.
func (d *Directory) UpdateSchools(ctx context.Context, rows []schoolModel.SchoolModel) ([]schoolModel.SchoolModel, error) {
	prepared := make([]schoolModel.SchoolModel, 0, len(rows))
	for _, r := range rows {
		p, err := prepareSchool(r)
		if err != nil {
			return nil, fmt.Errorf("school %q: %w", r.SchoolName, err)
		}
		prepared = append(prepared, p)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.PutSchools(ctx, prepared); err != nil {
		d.log.Error("bulk persist schools failed", zap.Int("count", len(prepared)), zap.Error(err))
		return nil, fmt.Errorf("update schools: %w", err)
	}
	d.schools = mergeByID(d.schools, prepared, func(s schoolModel.SchoolModel) string { return s.SchoolID }, schoolModel.SchoolModel.Clone)
	return prepared, nil
}

func (d *Directory) RemoveSchool(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !slices.ContainsFunc(d.schools, func(x schoolModel.SchoolModel) bool { return x.SchoolID == id }) {
		return ErrNotFound
	}
	if err := d.store.DeleteSchool(ctx, id); err != nil {
		d.log.Error("delete school failed", zap.String("school_id", id), zap.Error(err))
		return fmt.Errorf("remove school: %w", err)
	}
	d.schools = slices.DeleteFunc(d.schools, func(x schoolModel.SchoolModel) bool { return x.SchoolID == id })
	return nil
}

/* ===================== STUDENT MUTATIONS ===================== */

func (d *Directory) AddStudent(ctx context.Context, s studentModel.StudentModel) (studentModel.StudentModel, error) {
	s, err := prepareStudent(s)
	if err != nil {
		return studentModel.StudentModel{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.PutStudent(ctx, s); err != nil {
		d.log.Error("persist student failed", zap.String("student_id", s.StudentID), zap.Error(err))
		return studentModel.StudentModel{}, fmt.Errorf("save student: %w", err)
	}
	d.students = slices.DeleteFunc(d.students, func(x studentModel.StudentModel) bool { return x.StudentID == s.StudentID })
	d.students = append(d.students, s)
	return s, nil
}

func (d *Directory) UpdateStudents(ctx context.Context, rows []studentModel.StudentModel) ([]studentModel.StudentModel, error) {
	prepared := make([]studentModel.StudentModel, 0, len(rows))
	for _, r := range rows {
		p, err := prepareStudent(r)
		if err != nil {
			return nil, fmt.Errorf("student %q: %w", r.StudentName, err)
		}
		prepared = append(prepared, p)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.PutStudents(ctx, prepared); err != nil {
		d.log.Error("bulk persist students failed", zap.Int("count", len(prepared)), zap.Error(err))
		return nil, fmt.Errorf("update students: %w", err)
	}
	d.students = mergeByID(d.students, prepared, func(s studentModel.StudentModel) string { return s.StudentID }, func(s studentModel.StudentModel) studentModel.StudentModel { return s })
	return prepared, nil
}

func (d *Directory) RemoveStudent(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !slices.ContainsFunc(d.students, func(x studentModel.StudentModel) bool { return x.StudentID == id }) {
		return ErrNotFound
	}
	if err := d.store.DeleteStudent(ctx, id); err != nil {
		d.log.Error("delete student failed", zap.String("student_id", id), zap.Error(err))
		return fmt.Errorf("remove student: %w", err)
	}
	d.students = slices.DeleteFunc(d.students, func(x studentModel.StudentModel) bool { return x.StudentID == id })
	return nil
}

/* ===================== QUERIES ===================== */

// Schools returns a copy of the cached school list.
func (d *Directory) Schools() []schoolModel.SchoolModel {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]schoolModel.SchoolModel, len(d.schools))
	for i, s := range d.schools {
		out[i] = s.Clone()
	}
	return out
}

func (d *Directory) Students() []studentModel.StudentModel {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.students)
}

func (d *Directory) SchoolByID(id string) (schoolModel.SchoolModel, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.schools {
		if s.SchoolID == id {
			return s.Clone(), true
		}
	}
	return schoolModel.SchoolModel{}, false
}

func (d *Directory) StudentByID(id string) (studentModel.StudentModel, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.students {
		if s.StudentID == id {
			return s, true
		}
	}
	return studentModel.StudentModel{}, false
}

// FindSchool resolves a deep-link key: school id first, then registry code.
func (d *Directory) FindSchool(key string) (schoolModel.SchoolModel, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return schoolModel.SchoolModel{}, false
	}
	if s, ok := d.SchoolByID(key); ok {
		return s, true
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.schools {
		if code := s.RegistryCode(); code != "" && code == key {
			return s.Clone(), true
		}
	}
	return schoolModel.SchoolModel{}, false
}

// Roster lists the students whose school name equals schoolName after normalization.
// Exact on the normalized form, never fuzzy.
func (d *Directory) Roster(schoolName string) []studentModel.StudentModel {
	key := rosterKey(schoolName)
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []studentModel.StudentModel
	for _, st := range d.students {
		if rosterKey(st.StudentSchool) == key {
			out = append(out, st)
		}
	}
	return out
}

func (d *Directory) EnrolledCount(schoolName string) int {
	n := 0
	for _, st := range d.Roster(schoolName) {
		if st.StudentStatus == studentModel.StudentStatusEnrolled {
			n++
		}
	}
	return n
}

func (d *Directory) Availability(s schoolModel.SchoolModel) availability.Availability {
	return availability.Compute(s.SchoolAvailableSlots, d.EnrolledCount(s.SchoolName))
}

func (d *Directory) Counts() (schools, students int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.schools), len(d.students)
}

/* ===================== helpers ===================== */

func rosterKey(name string) string {
	return fuzzy.Normalize(strings.TrimSpace(name))
}

func prepareSchool(s schoolModel.SchoolModel) (schoolModel.SchoolModel, error) {
	s = s.Clone()
	s.SchoolName = strings.TrimSpace(s.SchoolName)
	s.SchoolAddress = strings.TrimSpace(s.SchoolAddress)
	if s.SchoolName == "" {
		return s, ErrMissingName
	}
	if s.SchoolAvailableSlots < 0 {
		return s, ErrInvalidCapacity
	}
	if strings.TrimSpace(s.SchoolID) == "" {
		s.SchoolID = uuid.NewString()
	}
	if s.SchoolTypes == nil {
		s.SchoolTypes = []string{}
	}
	return s, nil
}

func prepareStudent(s studentModel.StudentModel) (studentModel.StudentModel, error) {
	s.StudentName = strings.TrimSpace(s.StudentName)
	if s.StudentName == "" {
		return s, ErrMissingName
	}
	if s.StudentStatus == "" {
		s.StudentStatus = studentModel.StudentStatusPending
	}
	if !s.StudentStatus.Valid() {
		return s, ErrInvalidStatus
	}
	if strings.TrimSpace(s.StudentID) == "" {
		s.StudentID = uuid.NewString()
	}
	return s, nil
}

func mergeByID[T any](current, updates []T, id func(T) string, clone func(T) T) []T {
	pos := make(map[string]int, len(current))
	out := make([]T, len(current), len(current)+len(updates))
	for i, c := range current {
		out[i] = c
		pos[id(c)] = i
	}
	for _, u := range updates {
		if i, ok := pos[id(u)]; ok {
			out[i] = clone(u)
			continue
		}
		pos[id(u)] = len(out)
		out = append(out, clone(u))
	}
	return out
}
