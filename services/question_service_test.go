package services

import (
	"testing"

	"guidelines-cms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testStack) seedVocabulary(t *testing.T) {
	t.Helper()
	require.NoError(t, ts.siteRepo.Create(&models.Site{Name: "General Hospital"}))
	require.NoError(t, ts.subjectRepo.Create(&models.Subject{Name: "Cardiology"}))
}

func (ts *testStack) mustCreateQuestion(t *testing.T, text string) models.Question {
	t.Helper()
	created, err := ts.questions.CreateQuestions(models.CreateQuestionsRequest{
		Site:      "General Hospital",
		Grade:     models.GradeConsultant,
		Specialty: "medicine",
		Questions: []models.QuestionItem{{Subject: "Cardiology", Text: text}},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	return created[0]
}

func TestCreateQuestionsBatch(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)

	created, err := ts.questions.CreateQuestions(models.CreateQuestionsRequest{
		Site:      "General Hospital",
		Grade:     models.GradeFY1,
		Specialty: "medicine",
		Questions: []models.QuestionItem{
			{Subject: "Cardiology", Text: "What is the target INR?"},
			{Subject: "Cardiology", Text: "When to load amiodarone?"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, q := range created {
		assert.False(t, q.Resolved)
		assert.Nil(t, q.ResolvedByID)
		require.NotNil(t, q.Site)
		assert.Equal(t, "General Hospital", q.Site.Name)
		require.NotNil(t, q.Subject)
		assert.Equal(t, "Cardiology", q.Subject.Name)
	}
}

func TestCreateQuestionsValidation(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)

	cases := map[string]models.CreateQuestionsRequest{
		"missing site": {
			Grade: models.GradeFY1, Specialty: "medicine",
			Questions: []models.QuestionItem{{Subject: "Cardiology", Text: "q"}},
		},
		"invalid grade": {
			Site: "General Hospital", Grade: "registrar", Specialty: "medicine",
			Questions: []models.QuestionItem{{Subject: "Cardiology", Text: "q"}},
		},
		"missing specialty": {
			Site: "General Hospital", Grade: models.GradeFY1,
			Questions: []models.QuestionItem{{Subject: "Cardiology", Text: "q"}},
		},
		"no questions": {
			Site: "General Hospital", Grade: models.GradeFY1, Specialty: "medicine",
		},
		"unknown site": {
			Site: "Nowhere", Grade: models.GradeFY1, Specialty: "medicine",
			Questions: []models.QuestionItem{{Subject: "Cardiology", Text: "q"}},
		},
		"unknown subject": {
			Site: "General Hospital", Grade: models.GradeFY1, Specialty: "medicine",
			Questions: []models.QuestionItem{{Subject: "Astrology", Text: "q"}},
		},
		"empty text": {
			Site: "General Hospital", Grade: models.GradeFY1, Specialty: "medicine",
			Questions: []models.QuestionItem{{Subject: "Cardiology", Text: ""}},
		},
	}

	for name, req := range cases {
		_, err := ts.questions.CreateQuestions(req)
		assert.IsType(t, models.ErrorValidation{}, err, name)
	}

	// None of the rejected batches may have written rows.
	all, err := ts.questions.GetQuestions()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateQuestionsBadBatchWritesNothing(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)

	_, err := ts.questions.CreateQuestions(models.CreateQuestionsRequest{
		Site:      "General Hospital",
		Grade:     models.GradeFY1,
		Specialty: "medicine",
		Questions: []models.QuestionItem{
			{Subject: "Cardiology", Text: "valid"},
			{Subject: "Astrology", Text: "invalid subject"},
		},
	})
	require.Error(t, err)

	all, err := ts.questions.GetQuestions()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateQuestionsUnknownUser(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)

	missing := uint(404)
	_, err := ts.questions.CreateQuestions(models.CreateQuestionsRequest{
		User:      &missing,
		Site:      "General Hospital",
		Grade:     models.GradeFY1,
		Specialty: "medicine",
		Questions: []models.QuestionItem{{Subject: "Cardiology", Text: "q"}},
	})
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestUpdateQuestionText(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "original")

	updated, err := ts.questions.UpdateText(q.ID, "amended")
	require.NoError(t, err)
	assert.Equal(t, "amended", updated.Text)

	_, err = ts.questions.UpdateText(q.ID, "")
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestDeleteQuestion(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "ephemeral")

	require.NoError(t, ts.questions.DeleteQuestion(q.ID))

	_, err := ts.questions.GetQuestion(q.ID)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestResolveDirect(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "what dose?")

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "Dosing guide",
		Summary: "Answers the dosing question",
		Content: "5mg twice daily.",
	})

	resolved, err := ts.questions.ResolveDirect(q.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	require.NotNil(t, resolved.ResolvedByID)
	assert.Equal(t, post.ID, *resolved.ResolvedByID)
}

func TestResolveDirectInvalidPost(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "dangling")

	_, err := ts.questions.ResolveDirect(q.ID, 999)
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestResolveTwiceFails(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "answered once")

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "Answer",
		Summary: "First resolution",
		Content: "Done.",
	})

	_, err := ts.questions.ResolveDirect(q.ID, post.ID)
	require.NoError(t, err)

	_, err = ts.questions.ResolveDirect(q.ID, post.ID)
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestResolveBatchFailsClosedOnMissingID(t *testing.T) {
	ts := newTestStack(t)
	ts.seedVocabulary(t)
	q := ts.mustCreateQuestion(t, "only one exists")

	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "Answer",
		Summary: "Partial batches must not apply",
		Content: "All or nothing.",
	})

	_, err := ts.questions.Resolve(ts.db, []uint{q.ID, 999}, post.ID)
	require.Error(t, err)

	// The existing question must stay unresolved.
	got, err := ts.questions.GetQuestion(q.ID)
	require.NoError(t, err)
	assert.False(t, got.Resolved)
}
