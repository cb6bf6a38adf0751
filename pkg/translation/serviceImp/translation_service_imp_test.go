package serviceImp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/auth"
	"storyhub/pkg/progress"
	"storyhub/pkg/story/repository"
	"storyhub/pkg/story/repositoryImp"
	"storyhub/pkg/testsupport"
	"storyhub/pkg/translation/service"
)

type fixture struct {
	db    *gorm.DB
	repo  repository.StoryRepository
	svc   service.TranslationService
	admin auth.Actor
	alice auth.Actor
	bob   auth.Actor
	story *entities.Story
	paras []entities.Paragraph
}

// newFixture prepares a two-paragraph story assigned to alice.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testsupport.OpenDB(t)
	repo := repositoryImp.New(db)
	log := testsupport.Logger(t)
	f := &fixture{
		db:    db,
		repo:  repo,
		svc:   NewTranslationService(repo, progress.NewTracker(log), log),
		admin: testsupport.MustCreateUser(t, db, "admin", entities.RoleAdmin),
		alice: testsupport.MustCreateUser(t, db, "alice", entities.RoleTranslator),
		bob:   testsupport.MustCreateUser(t, db, "bob", entities.RoleTranslator),
	}
	f.story = testsupport.MustCreateStory(t, db, "fox", "one", "two")
	require.NoError(t, db.Model(&entities.Story{}).Where("story_id = ?", f.story.StoryID).
		Updates(map[string]any{"assigned_to": f.alice.UserID, "status": entities.StoryInTranslation}).Error)
	f.paras = testsupport.MustParagraphs(t, db, f.story.StoryID)
	return f
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestRecord_CreatesThenUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.paras[0].ParagraphID

	res, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: pid, Text: strp("draft")}, f.alice)
	require.NoError(t, err)
	assert.True(t, res.Created())
	assert.Equal(t, 0, res.TranslatedCount)

	res, err = f.svc.Record(ctx, service.RecordInput{ParagraphID: pid, IsFinalized: boolp(true)}, f.alice)
	require.NoError(t, err)
	assert.False(t, res.Created())
	assert.Equal(t, "draft", res.Translation.Text)
	assert.True(t, res.Translation.IsFinalized)
	assert.Equal(t, 1, res.TranslatedCount)
	assert.Equal(t, 1, testsupport.MustReload(t, f.db, f.story.StoryID).TranslatedCount)
}

func TestRecord_CountNeverExceedsParagraphs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		for _, p := range f.paras {
			_, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: p.ParagraphID, Text: strp("t"), IsFinalized: boolp(true)}, f.alice)
			require.NoError(t, err)
		}
	}
	got := testsupport.MustReload(t, f.db, f.story.StoryID)
	assert.Equal(t, 2, got.TranslatedCount)
	assert.LessOrEqual(t, got.TranslatedCount, got.ParagraphsCount)
}

func TestRecord_UnfinalizeDecrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, p := range f.paras {
		_, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: p.ParagraphID, Text: strp("t"), IsFinalized: boolp(true)}, f.alice)
		require.NoError(t, err)
	}
	res, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: f.paras[1].ParagraphID, IsFinalized: boolp(false)}, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TranslatedCount)
}

func TestRecord_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.paras[0].ParagraphID

	_, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: pid}, f.alice)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Record(ctx, service.RecordInput{ParagraphID: pid, Text: strp("  "), IsFinalized: boolp(true)}, f.alice)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Record(ctx, service.RecordInput{ParagraphID: 9999, Text: strp("x")}, f.alice)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecord_FinalizeEmptyWhenOriginalIsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// zipping a longer machine text leaves paragraphs with no original side
	extra := entities.Paragraph{StoryID: f.story.StoryID, Index: 3, MachineText: "tail"}
	require.NoError(t, f.db.Create(&extra).Error)
	require.NoError(t, f.db.Model(&entities.Story{}).Where("story_id = ?", f.story.StoryID).
		Update("paragraphs_count", 3).Error)

	res, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: extra.ParagraphID, IsFinalized: boolp(true)}, f.alice)
	require.NoError(t, err)
	assert.True(t, res.Translation.IsFinalized)
	assert.Empty(t, res.Translation.Text)
	assert.Equal(t, 1, res.TranslatedCount)

	_, err = f.svc.Record(ctx, service.RecordInput{ParagraphID: f.paras[0].ParagraphID, IsFinalized: boolp(true)}, f.alice)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRecord_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.paras[0].ParagraphID

	_, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: pid, Text: strp("x")}, f.bob)
	assert.ErrorIs(t, err, apperr.ErrPermission)

	_, err = f.svc.Record(ctx, service.RecordInput{ParagraphID: pid, Text: strp("x")}, auth.Actor{})
	assert.ErrorIs(t, err, apperr.ErrPermission)

	// admins may edit, but only the assigned translator's work counts
	res, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: pid, Text: strp("x"), IsFinalized: boolp(true)}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 0, res.TranslatedCount)
}

func TestDelete_DecrementsByOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, p := range f.paras {
		_, err := f.svc.Record(ctx, service.RecordInput{ParagraphID: p.ParagraphID, Text: strp("t"), IsFinalized: boolp(true)}, f.alice)
		require.NoError(t, err)
	}

	story, err := f.svc.Delete(ctx, f.paras[0].ParagraphID, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 1, story.TranslatedCount)
	assert.Equal(t, 1, testsupport.MustReload(t, f.db, f.story.StoryID).TranslatedCount)

	_, err = f.svc.Delete(ctx, f.paras[0].ParagraphID, f.alice)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEditor_FallsBackToMachineText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.paras[0]
	require.NoError(t, f.db.Model(&entities.Paragraph{}).Where("paragraph_id = ?", p.ParagraphID).
		Update("machine_text", "machine").Error)

	view, err := f.svc.Editor(ctx, p.ParagraphID, f.alice)
	require.NoError(t, err)
	assert.Equal(t, "machine", view.Text)
	assert.False(t, view.IsFinalized)

	_, err = f.svc.Record(ctx, service.RecordInput{ParagraphID: p.ParagraphID, Text: strp("mine"), IsFinalized: boolp(true)}, f.alice)
	require.NoError(t, err)
	view, err = f.svc.Editor(ctx, p.ParagraphID, f.alice)
	require.NoError(t, err)
	assert.Equal(t, "mine", view.Text)
	assert.True(t, view.IsFinalized)

	_, err = f.svc.Editor(ctx, p.ParagraphID, f.bob)
	assert.ErrorIs(t, err, apperr.ErrPermission)
}

func TestSelectIllustration_SingleSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.paras[0].ParagraphID
	ills := make([]entities.Illustration, 3)
	for i := range ills {
		ills[i] = entities.Illustration{ParagraphID: pid, Position: i + 1, ImageURL: "u"}
		require.NoError(t, f.db.Create(&ills[i]).Error)
	}

	_, err := f.svc.SelectIllustration(ctx, ills[0].IllustrationID, true, f.alice)
	require.NoError(t, err)
	got, err := f.svc.SelectIllustration(ctx, ills[2].IllustrationID, true, f.alice)
	require.NoError(t, err)
	assert.True(t, got.IsSelected)

	var selected []entities.Illustration
	require.NoError(t, f.db.Where("paragraph_id = ? AND is_selected = ?", pid, true).Find(&selected).Error)
	require.Len(t, selected, 1)
	assert.Equal(t, ills[2].IllustrationID, selected[0].IllustrationID)

	_, err = f.svc.SelectIllustration(ctx, ills[2].IllustrationID, false, f.alice)
	require.NoError(t, err)
	var n int64
	require.NoError(t, f.db.Model(&entities.Illustration{}).Where("paragraph_id = ? AND is_selected = ?", pid, true).Count(&n).Error)
	assert.Zero(t, n)

	_, err = f.svc.SelectIllustration(ctx, ills[1].IllustrationID, true, f.bob)
	assert.ErrorIs(t, err, apperr.ErrPermission)
}

func TestNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.paras[0].ParagraphID

	_, err := f.svc.AddNote(ctx, pid, " ", f.alice)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	note, err := f.svc.AddNote(ctx, pid, "check idiom", f.alice)
	require.NoError(t, err)
	assert.Equal(t, f.alice.UserID, note.AuthorID)

	_, err = f.svc.AddNote(ctx, pid, "nope", f.bob)
	assert.ErrorIs(t, err, apperr.ErrPermission)

	adminNote, err := f.svc.AddNote(ctx, pid, "reviewed", f.admin)
	require.NoError(t, err)

	updated, err := f.svc.UpdateNote(ctx, note.NoteID, service.NotePatch{Resolved: boolp(true)}, f.alice)
	require.NoError(t, err)
	assert.True(t, updated.Resolved)
	assert.Equal(t, "check idiom", updated.Text)

	_, err = f.svc.UpdateNote(ctx, adminNote.NoteID, service.NotePatch{Text: strp("mine now")}, f.alice)
	assert.ErrorIs(t, err, apperr.ErrPermission)

	_, err = f.svc.UpdateNote(ctx, note.NoteID, service.NotePatch{Text: strp("edited")}, f.admin)
	require.NoError(t, err)

	notes, err := f.svc.ListNotes(ctx, pid, f.alice)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	_, err = f.svc.ListNotes(ctx, pid, f.bob)
	assert.ErrorIs(t, err, apperr.ErrPermission)
}
