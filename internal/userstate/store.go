package userstate

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/store"
)

// Store owns the current UserState and persists it after every change.
// Persistence failures never surface to callers: reads fall back to the
// default state and failed writes leave the in-memory state authoritative.
type Store struct {
	repo    store.StateRepo
	journal store.ActivityRepo
	logger  *zap.Logger

	mu      sync.Mutex
	current UserState
}

// New creates a Store over repo. A nil repo keeps state in memory only.
func New(repo store.StateRepo, logger *zap.Logger) *Store {
	if repo == nil {
		repo = store.NewMemoryRepo()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		repo:    repo,
		logger:  logger.Named("userstate"),
		current: Default(),
	}
}

// WithJournal records every lesson and session action in j.
func (s *Store) WithJournal(j store.ActivityRepo) *Store {
	s.journal = j
	return s
}

// Activity returns up to limit journaled actions, newest first. It is
// empty without a journal or when the journal cannot be read.
func (s *Store) Activity(ctx context.Context, limit int) []store.Activity {
	if s.journal == nil {
		return nil
	}
	out, err := s.journal.Recent(ctx, limit)
	if err != nil {
		s.logger.Warn("read activity failed", zap.Error(err))
		return nil
	}
	return out
}

func (s *Store) record(ctx context.Context, action, courseKey, lessonID string) {
	if s.journal == nil {
		return
	}
	_, err := s.journal.Append(ctx, store.Activity{
		Action:    action,
		CourseKey: courseKey,
		LessonID:  lessonID,
	})
	if err != nil {
		s.logger.Warn("journal action failed", zap.String("action", action), zap.Error(err))
	}
}

// Load reads the persisted state and makes it current. An absent,
// unreadable, malformed or mis-shaped entry yields the default state.
func (s *Store) Load(ctx context.Context) UserState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.read(ctx)
	return s.current.Clone()
}

func (s *Store) read(ctx context.Context) UserState {
	raw, err := s.repo.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("read persisted state failed, using default", zap.Error(err))
		return Default()
	}
	if raw == nil {
		s.logger.Debug("no persisted state, using default")
		return Default()
	}
	if err := validateBlob(raw); err != nil {
		s.logger.Warn("persisted state rejected, using default", zap.Error(err))
		return Default()
	}

	var st UserState
	if err := json.Unmarshal(raw, &st); err != nil {
		s.logger.Warn("decode persisted state failed, using default", zap.Error(err))
		return Default()
	}
	if st.Progress == nil {
		st.Progress = UserProgress{}
	}
	return st
}

// Current returns a copy of the current state.
func (s *Store) Current() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Update merges patch over the current state, persists the merged state
// and returns it.
func (s *Store) Update(ctx context.Context, patch Patch) UserState {
	return s.apply(ctx, func(UserState) Patch { return patch })
}

// apply builds a patch from the latest snapshot and commits it while
// holding the lock, so sequential updates compose instead of overwriting
// each other.
func (s *Store) apply(ctx context.Context, build func(prev UserState) Patch) UserState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := build(s.current.Clone()).Apply(s.current)
	s.current = next
	s.persist(ctx, next)
	return next.Clone()
}

func (s *Store) persist(ctx context.Context, st UserState) {
	b, err := json.Marshal(st)
	if err != nil {
		s.logger.Error("encode state failed", zap.Error(err))
		return
	}
	if err := s.repo.Put(ctx, StorageKey, b); err != nil {
		s.logger.Warn("persist state failed, keeping in-memory state", zap.Error(err))
	}
}

// Reset removes the persisted entry and reverts to the default state.
func (s *Store) Reset(ctx context.Context) UserState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, StorageKey); err != nil {
		s.logger.Warn("delete persisted state failed", zap.Error(err))
	}
	s.current = Default()
	s.record(ctx, store.ActionReset, "", "")
	return s.current.Clone()
}

// MarkComplete adds lesson to the course's completed set and makes it the
// last lesson. Calling it twice with the same arguments is a no-op the
// second time.
func (s *Store) MarkComplete(ctx context.Context, course catalog.Course, lesson catalog.Lesson) UserState {
	s.checkMembership(course, lesson)
	st := s.apply(ctx, func(prev UserState) Patch {
		rec := prev.Progress[course.Key].WithCompleted(lesson.ID)
		progress := prev.Progress.With(course.Key, rec)
		return Patch{Progress: &progress}
	})
	s.record(ctx, store.ActionComplete, course.Key, lesson.ID)
	return st
}

// JumpTo makes lesson the course's last lesson without completing it.
// Any lesson may be jumped to; there is no gating.
func (s *Store) JumpTo(ctx context.Context, course catalog.Course, lesson catalog.Lesson) UserState {
	s.checkMembership(course, lesson)
	st := s.apply(ctx, func(prev UserState) Patch {
		rec := prev.Progress[course.Key].WithLast(lesson.ID)
		progress := prev.Progress.With(course.Key, rec)
		return Patch{Progress: &progress}
	})
	s.record(ctx, store.ActionJump, course.Key, lesson.ID)
	return st
}

// Login signs the demo profile in and grants the demo purchases.
func (s *Store) Login(ctx context.Context) UserState {
	loggedIn := true
	purchased := append([]string{}, DemoPurchased...)
	st := s.Update(ctx, Patch{LoggedIn: &loggedIn, Purchased: &purchased})
	s.record(ctx, store.ActionLogin, "", "")
	return st
}

// Logout signs the demo profile out. Purchases and progress are kept.
func (s *Store) Logout(ctx context.Context) UserState {
	loggedIn := false
	st := s.Update(ctx, Patch{LoggedIn: &loggedIn})
	s.record(ctx, store.ActionLogout, "", "")
	return st
}

// checkMembership logs lessons recorded against a course they do not
// belong to. The mutation still happens; membership is the caller's
// responsibility.
func (s *Store) checkMembership(course catalog.Course, lesson catalog.Lesson) {
	if !course.HasLesson(lesson.ID) {
		s.logger.Warn("lesson does not belong to course",
			zap.String("course", course.Key),
			zap.String("lesson", lesson.ID))
	}
}
