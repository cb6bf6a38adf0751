// Package testsupport opens throwaway databases for package tests.
package testsupport

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storyhub/database"
	"storyhub/entities"
	"storyhub/pkg/auth"
)

// Logger discards output unless the test runs verbose.
func Logger(t testing.TB) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	if testing.Verbose() {
		l.SetOutput(testWriter{t})
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

type testWriter struct{ t testing.TB }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// OpenDB returns a migrated SQLite database inside t.TempDir().
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	return OpenDBAt(t, filepath.Join(t.TempDir(), "storyhub.db"))
}

// OpenDBAt opens its own handle on path, like a second process would.
func OpenDBAt(t testing.TB, path string) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(path, Logger(t))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func MustCreateUser(t testing.TB, db *gorm.DB, username string, roles ...string) auth.Actor {
	t.Helper()
	u := entities.User{Username: username, Roles: roles}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return auth.FromUser(&u)
}

// MustCreateStory stores a DRAFT story with paragraphs built from texts (one paragraph each).
func MustCreateStory(t testing.TB, db *gorm.DB, title string, texts ...string) *entities.Story {
	t.Helper()
	ctx := context.Background()
	var src, dst entities.Language
	if err := db.WithContext(ctx).Where(entities.Language{Code: "en"}).Attrs(entities.Language{Name: "English"}).FirstOrCreate(&src).Error; err != nil {
		t.Fatalf("language: %v", err)
	}
	if err := db.WithContext(ctx).Where(entities.Language{Code: "ru"}).Attrs(entities.Language{Name: "Russian"}).FirstOrCreate(&dst).Error; err != nil {
		t.Fatalf("language: %v", err)
	}
	s := entities.Story{
		Title:              title,
		Slug:               fmt.Sprintf("%s-%d", title, len(title)),
		OriginalLanguageID: src.LanguageID,
		TargetLanguageID:   dst.LanguageID,
		Status:             entities.StoryDraft,
		ParagraphsCount:    len(texts),
	}
	if err := db.WithContext(ctx).Create(&s).Error; err != nil {
		t.Fatalf("create story: %v", err)
	}
	for i, text := range texts {
		p := entities.Paragraph{StoryID: s.StoryID, Index: i + 1, OriginalText: text}
		if err := db.WithContext(ctx).Create(&p).Error; err != nil {
			t.Fatalf("create paragraph: %v", err)
		}
	}
	return &s
}

func MustParagraphs(t testing.TB, db *gorm.DB, storyID uint) []entities.Paragraph {
	t.Helper()
	var out []entities.Paragraph
	if err := db.Where("story_id = ?", storyID).Order("index_no ASC").Find(&out).Error; err != nil {
		t.Fatalf("paragraphs: %v", err)
	}
	return out
}

func MustReload(t testing.TB, db *gorm.DB, storyID uint) *entities.Story {
	t.Helper()
	var s entities.Story
	if err := db.Where("story_id = ?", storyID).First(&s).Error; err != nil {
		t.Fatalf("reload story %d: %v", storyID, err)
	}
	return &s
}
