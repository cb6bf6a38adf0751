// database/bootstrap.go
package database

import (
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storyhub/entities"
	"storyhub/pkg/slug"
)

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Language{},
		&entities.Tag{},
		&entities.Story{},
		&entities.Chapter{},
		&entities.Paragraph{},
		&entities.Illustration{},
		&entities.Translation{},
		&entities.TranslatorAssignment{},
		&entities.ParagraphNote{},
	}
}

// DSN adds the pragmas the workflow relies on to a SQLite path.
// Transactions begin IMMEDIATE so a second process sharing the file waits on
// busy_timeout at BEGIN instead of failing its first write.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// OpenSQLite opens the database, backfills legacy rows and migrates the schema.
func OpenSQLite(path string, log logrus.FieldLogger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	// one writer at a time; transactions queue on the pool instead of failing with SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	// must run BEFORE AutoMigrate adds the unique slug index
	n, err := backfillEmptySlugs(db)
	if err != nil {
		return nil, fmt.Errorf("backfill slugs: %w", err)
	}
	if n > 0 && log != nil {
		log.WithField("stories", n).Info("backfilled empty story slugs")
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	// at most one ACTIVE assignment per story
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_assignment
		ON translator_assignments(story_id) WHERE status = 'ACTIVE'`).Error; err != nil {
		return nil, fmt.Errorf("active assignment index: %w", err)
	}
	return db, nil
}

// backfillEmptySlugs gives stories imported before slugs existed a unique slug.
func backfillEmptySlugs(db *gorm.DB) (int, error) {
	if !db.Migrator().HasTable(&entities.Story{}) || !db.Migrator().HasColumn(&entities.Story{}, "slug") {
		// fresh DB, nothing to do
		return 0, nil
	}
	type row struct {
		StoryID uint
		Title   string
	}
	var rows []row
	if err := db.Raw(`SELECT story_id, title FROM stories WHERE slug IS NULL OR slug = '' ORDER BY story_id`).Scan(&rows).Error; err != nil {
		return 0, fmt.Errorf("scan stories: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	// do it in a transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			base := slug.Make(r.Title, 240)
			if base == "" {
				base = "story"
			}
			s, err := slug.Unique(base, func(c string) (bool, error) {
				var n int64
				err := tx.Raw(`SELECT COUNT(*) FROM stories WHERE slug = ? AND story_id <> ?`, c, r.StoryID).Scan(&n).Error
				return n > 0, err
			})
			if err != nil {
				return err
			}
			if err := tx.Exec(`UPDATE stories SET slug = ? WHERE story_id = ?`, s, r.StoryID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return len(rows), err
}
