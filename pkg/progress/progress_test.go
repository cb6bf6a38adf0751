package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storyhub/entities"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/story/repositoryImp"
	"storyhub/pkg/testsupport"
)

// recordingRepo counts UpdateStory calls and forwards everything else.
type recordingRepo struct {
	repository.StoryRepository
	updates []map[string]any
}

func (r *recordingRepo) UpdateStory(ctx context.Context, id uint, fields map[string]any) error {
	r.updates = append(r.updates, fields)
	return r.StoryRepository.UpdateStory(ctx, id, fields)
}

func finalize(t *testing.T, db *gorm.DB, storyID, translatorID uint, finalized bool) {
	t.Helper()
	for _, p := range testsupport.MustParagraphs(t, db, storyID) {
		tr := entities.Translation{ParagraphID: p.ParagraphID, TranslatorID: translatorID, Text: "done", IsFinalized: finalized}
		require.NoError(t, db.Create(&tr).Error)
	}
}

func assign(t *testing.T, db *gorm.DB, story *entities.Story, translatorID uint) {
	t.Helper()
	require.NoError(t, db.Model(&entities.Story{}).Where("story_id = ?", story.StoryID).
		Updates(map[string]any{"assigned_to": translatorID, "status": entities.StoryInTranslation}).Error)
	story.AssignedTo = &translatorID
	story.Status = entities.StoryInTranslation
}

func TestCount_UnassignedStoryIsZero(t *testing.T) {
	db := testsupport.OpenDB(t)
	alice := testsupport.MustCreateUser(t, db, "alice", entities.RoleTranslator)
	story := testsupport.MustCreateStory(t, db, "fox", "one", "two")
	finalize(t, db, story.StoryID, alice.UserID, true)

	repo := &recordingRepo{StoryRepository: repositoryImp.New(db)}
	tracker := NewTracker(testsupport.Logger(t))

	n, err := tracker.Count(context.Background(), repo, story)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = tracker.Recompute(context.Background(), repo, story)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, repo.updates)
	assert.Equal(t, 0, testsupport.MustReload(t, db, story.StoryID).TranslatedCount)
}

func TestCount_OnlyAssignedTranslatorsFinalizedRows(t *testing.T) {
	db := testsupport.OpenDB(t)
	alice := testsupport.MustCreateUser(t, db, "alice", entities.RoleTranslator)
	bob := testsupport.MustCreateUser(t, db, "bob", entities.RoleTranslator)
	story := testsupport.MustCreateStory(t, db, "fox", "one", "two", "three")
	assign(t, db, story, alice.UserID)

	ps := testsupport.MustParagraphs(t, db, story.StoryID)
	for _, tr := range []entities.Translation{
		{ParagraphID: ps[0].ParagraphID, TranslatorID: alice.UserID, Text: "a", IsFinalized: true},
		{ParagraphID: ps[1].ParagraphID, TranslatorID: alice.UserID, Text: "b", IsFinalized: false},
		{ParagraphID: ps[2].ParagraphID, TranslatorID: bob.UserID, Text: "c", IsFinalized: true},
	} {
		require.NoError(t, db.Create(&tr).Error)
	}

	n, err := NewTracker(nil).Count(context.Background(), repositoryImp.New(db), story)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecompute_WritesOnlyOnChange(t *testing.T) {
	db := testsupport.OpenDB(t)
	alice := testsupport.MustCreateUser(t, db, "alice", entities.RoleTranslator)
	story := testsupport.MustCreateStory(t, db, "fox", "one", "two")
	assign(t, db, story, alice.UserID)
	finalize(t, db, story.StoryID, alice.UserID, true)

	repo := &recordingRepo{StoryRepository: repositoryImp.New(db)}
	tracker := NewTracker(testsupport.Logger(t))
	ctx := context.Background()

	n, err := tracker.Recompute(ctx, repo, story)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, story.TranslatedCount)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, map[string]any{"translated_count": 2}, repo.updates[0])
	assert.Equal(t, 2, testsupport.MustReload(t, db, story.StoryID).TranslatedCount)

	// unchanged value, no write
	n, err = tracker.Recompute(ctx, repo, story)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.updates, 1)
}

func TestCount_CappedAtParagraphsCount(t *testing.T) {
	db := testsupport.OpenDB(t)
	alice := testsupport.MustCreateUser(t, db, "alice", entities.RoleTranslator)
	story := testsupport.MustCreateStory(t, db, "fox", "one", "two")
	assign(t, db, story, alice.UserID)
	finalize(t, db, story.StoryID, alice.UserID, true)
	story.ParagraphsCount = 1

	n, err := NewTracker(nil).Count(context.Background(), repositoryImp.New(db), story)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
