package services

import (
	"os"
	"strings"
	"testing"

	"guidelines-cms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	ts := newTestStack(t)
	ts.mustCreateTag(t, "resus")

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:       "Adult ALS algorithm",
		Summary:     "Cardiac arrest management",
		Content:     "Shockable vs non-shockable rhythms.",
		Tags:        []string{"resus"},
		IsGuideline: true,
	})

	assert.True(t, post.IsGuideline)
	require.NotNil(t, post.LatestRevisionID)
	require.NotNil(t, post.LatestRevision)
	assert.Equal(t, *post.LatestRevisionID, post.LatestRevision.ID)
	assert.Equal(t, "Adult ALS algorithm", post.LatestRevision.Title)
	require.Len(t, post.LatestRevision.Tags, 1)
	assert.Equal(t, "resus", post.LatestRevision.Tags[0].Name)
}

func TestCreatePostValidation(t *testing.T) {
	ts := newTestStack(t)

	cases := map[string]models.CreatePostRequest{
		"missing title":    {Summary: "s", Content: "c"},
		"missing summary":  {Title: "t", Content: "c"},
		"missing content":  {Title: "t", Summary: "s"},
		"title too long":   {Title: strings.Repeat("t", models.MaxTitleLength+1), Summary: "s", Content: "c"},
		"summary too long": {Title: "t", Summary: strings.Repeat("s", models.MaxSummaryLength+1), Content: "c"},
	}

	for name, req := range cases {
		_, err := ts.posts.CreatePost(req, nil, testExtensions)
		assert.IsType(t, models.ErrorValidation{}, err, name)
	}
}

func TestCreatePostLengthLimitsCountCharacters(t *testing.T) {
	ts := newTestStack(t)

	// Multibyte text at the limit: 120 runes is far more than 120 bytes.
	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   strings.Repeat("心", models.MaxTitleLength),
		Summary: strings.Repeat("肺", models.MaxSummaryLength),
		Content: "Body",
	})
	assert.NotZero(t, post.ID)

	_, err := ts.posts.CreatePost(models.CreatePostRequest{
		Title:   strings.Repeat("心", models.MaxTitleLength+1),
		Summary: "s",
		Content: "c",
	}, nil, testExtensions)
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestCreatePostUnknownTagPersistsNothing(t *testing.T) {
	ts := newTestStack(t)

	_, err := ts.posts.CreatePost(models.CreatePostRequest{
		Title:   "Orphan",
		Summary: "Should never land",
		Content: "Body",
		Tags:    []string{"no-such-tag"},
	}, nil, testExtensions)
	require.Error(t, err)
	assert.IsType(t, models.ErrorValidation{}, err)

	posts, err := ts.posts.GetPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)

	n, err := ts.postRepo.CountAllRevisions()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreatePostWithBadFilePersistsNothing(t *testing.T) {
	ts := newTestStack(t)

	files := []FileUpload{{Name: "script.sh", Content: strings.NewReader("#!/bin/sh")}}
	_, err := ts.posts.CreatePost(models.CreatePostRequest{
		Title:   "Has bad attachment",
		Summary: "Upload must fail the whole create",
		Content: "Body",
	}, files, testExtensions)
	require.Error(t, err)

	posts, err := ts.posts.GetPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCreatePostBadFileLeavesNoStoredBytes(t *testing.T) {
	ts := newTestStack(t)

	// The first upload is valid and its bytes land before the second one
	// fails validation. The rollback must take those bytes back out.
	files := []FileUpload{
		{Name: "good.pdf", Content: strings.NewReader("pdf body")},
		{Name: "bad.exe", Content: strings.NewReader("MZ")},
	}
	_, err := ts.posts.CreatePost(models.CreatePostRequest{
		Title:   "Mixed batch",
		Summary: "Second upload is disallowed",
		Content: "Body",
	}, files, testExtensions)
	require.Error(t, err)

	entries, err := os.ReadDir(ts.storeDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddRevisionBadFileLeavesNoStoredBytes(t *testing.T) {
	ts := newTestStack(t)
	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "Sepsis bundle",
		Summary: "Initial version",
		Content: "Body",
	})

	files := []FileUpload{
		{Name: "chart.png", Content: strings.NewReader("png body")},
		{Name: "macro.exe", Content: strings.NewReader("MZ")},
	}
	_, err := ts.posts.AddRevision(post.ID, models.CreateRevisionRequest{
		Title:   "Sepsis bundle v2",
		Summary: "Second version",
		Content: "Body",
	}, files, testExtensions)
	require.Error(t, err)

	entries, err := os.ReadDir(ts.storeDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddRevisionMovesLatestPointer(t *testing.T) {
	ts := newTestStack(t)

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "Version one",
		Summary: "First",
		Content: "Original",
	})
	firstRevID := *post.LatestRevisionID

	rev, err := ts.posts.AddRevision(post.ID, models.CreateRevisionRequest{
		Title:   "Version two",
		Summary: "Second",
		Content: "Updated",
	}, nil, testExtensions)
	require.NoError(t, err)
	assert.NotEqual(t, firstRevID, rev.ID)

	reloaded, err := ts.posts.GetPost(post.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LatestRevisionID)
	assert.Equal(t, rev.ID, *reloaded.LatestRevisionID)

	revs, err := ts.posts.GetRevisions(post.ID)
	require.NoError(t, err)
	assert.Len(t, revs, 2)
}

func TestAddRevisionResolvesQuestions(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "when to anticoagulate?")

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "AF guideline",
		Summary: "Atrial fibrillation",
		Content: "Rate versus rhythm control.",
	})

	_, err := ts.posts.AddRevision(post.ID, models.CreateRevisionRequest{
		Title:    "AF guideline v2",
		Summary:  "Covers anticoagulation",
		Content:  "CHA2DS2-VASc scoring.",
		Resolves: []uint{q.ID},
	}, nil, testExtensions)
	require.NoError(t, err)

	got, err := ts.questions.GetQuestion(q.ID)
	require.NoError(t, err)
	assert.True(t, got.Resolved)
	require.NotNil(t, got.ResolvedByID)
	assert.Equal(t, post.ID, *got.ResolvedByID)
}

func TestAddRevisionBadResolveBatchPersistsNothing(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "real question")

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "Guide",
		Summary: "Summary",
		Content: "Body",
	})

	_, err := ts.posts.AddRevision(post.ID, models.CreateRevisionRequest{
		Title:    "Guide v2",
		Summary:  "Summary",
		Content:  "Body",
		Resolves: []uint{q.ID, 999},
	}, nil, testExtensions)
	require.Error(t, err)

	// No revision landed and the valid question stays unresolved.
	revs, err := ts.posts.GetRevisions(post.ID)
	require.NoError(t, err)
	assert.Len(t, revs, 1)

	got, err := ts.questions.GetQuestion(q.ID)
	require.NoError(t, err)
	assert.False(t, got.Resolved)
}

func TestDeleteSoleRevisionDeletesPost(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "resolved then orphaned")

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "Short lived",
		Summary: "Single revision",
		Content: "Body",
	})
	_, err := ts.questions.ResolveDirect(q.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, ts.posts.DeleteRevision(*post.LatestRevisionID))

	_, err = ts.posts.GetPost(post.ID)
	assert.IsType(t, models.ErrorNotFound{}, err)

	// The question reverts to unresolved rather than pointing at a ghost.
	got, err := ts.questions.GetQuestion(q.ID)
	require.NoError(t, err)
	assert.False(t, got.Resolved)
	assert.Nil(t, got.ResolvedByID)
}

func TestDeleteLatestRevisionReassignsPointer(t *testing.T) {
	ts := newTestStack(t)

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "v1",
		Summary: "first",
		Content: "one",
	})

	rev2, err := ts.posts.AddRevision(post.ID, models.CreateRevisionRequest{
		Title: "v2", Summary: "second", Content: "two",
	}, nil, testExtensions)
	require.NoError(t, err)

	rev3, err := ts.posts.AddRevision(post.ID, models.CreateRevisionRequest{
		Title: "v3", Summary: "third", Content: "three",
	}, nil, testExtensions)
	require.NoError(t, err)

	require.NoError(t, ts.posts.DeleteRevision(rev3.ID))

	reloaded, err := ts.posts.GetPost(post.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LatestRevisionID)
	assert.Equal(t, rev2.ID, *reloaded.LatestRevisionID)

	revs, err := ts.posts.GetRevisions(post.ID)
	require.NoError(t, err)
	assert.Len(t, revs, 2)
}

func TestDeleteOlderRevisionKeepsPointer(t *testing.T) {
	ts := newTestStack(t)

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "v1",
		Summary: "first",
		Content: "one",
	})
	firstRevID := *post.LatestRevisionID

	rev2, err := ts.posts.AddRevision(post.ID, models.CreateRevisionRequest{
		Title: "v2", Summary: "second", Content: "two",
	}, nil, testExtensions)
	require.NoError(t, err)

	require.NoError(t, ts.posts.DeleteRevision(firstRevID))

	reloaded, err := ts.posts.GetPost(post.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LatestRevisionID)
	assert.Equal(t, rev2.ID, *reloaded.LatestRevisionID)
}

func TestDeletePostCascades(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "to be unlinked")

	files := []FileUpload{{Name: "appendix.pdf", Content: strings.NewReader("appendix")}}
	post, err := ts.posts.CreatePost(models.CreatePostRequest{
		Title:   "Doomed",
		Summary: "Everything must go",
		Content: "Body",
	}, files, testExtensions)
	require.NoError(t, err)
	require.Len(t, post.LatestRevision.Files, 1)
	storageKey := post.LatestRevision.Files[0].StorageKey

	_, err = ts.questions.ResolveDirect(q.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, ts.posts.DeletePost(post.ID))

	_, err = ts.posts.GetPost(post.ID)
	assert.IsType(t, models.ErrorNotFound{}, err)

	n, err := ts.postRepo.CountAllRevisions()
	require.NoError(t, err)
	assert.Zero(t, n)

	nf, err := ts.fileRepo.Count()
	require.NoError(t, err)
	assert.Zero(t, nf)

	// Stored bytes cleaned up after commit.
	_, err = ts.store.Open(storageKey)
	assert.Error(t, err)

	got, err := ts.questions.GetQuestion(q.ID)
	require.NoError(t, err)
	assert.False(t, got.Resolved)
	assert.Nil(t, got.ResolvedByID)
}

func TestGetLatestWithoutRevisions(t *testing.T) {
	ts := newTestStack(t)

	_, err := ts.posts.GetLatest(77)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestGetRevisionsOrderedNewestFirst(t *testing.T) {
	ts := newTestStack(t)

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "v1",
		Summary: "first",
		Content: "one",
	})
	for _, title := range []string{"v2", "v3"} {
		_, err := ts.posts.AddRevision(post.ID, models.CreateRevisionRequest{
			Title: title, Summary: "s", Content: "c",
		}, nil, testExtensions)
		require.NoError(t, err)
	}

	revs, err := ts.posts.GetRevisions(post.ID)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, "v3", revs[0].Title)
	assert.Equal(t, "v2", revs[1].Title)
	assert.Equal(t, "v1", revs[2].Title)
}
