package services

import (
	"io"
	"strings"
	"testing"

	"guidelines-cms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testStack) mustCreateRevisionID(t *testing.T) uint {
	t.Helper()
	post := ts.mustCreatePost(t, models.CreatePostRequest{
		Title:   "Anticoagulation",
		Summary: "Warfarin reversal pathway",
		Content: "Vitamin K dosing and PCC thresholds.",
	})
	return *post.LatestRevisionID
}

func TestAttachAndOpen(t *testing.T) {
	ts := newTestStack(t)
	revID := ts.mustCreateRevisionID(t)

	up := FileUpload{Name: "pathway.pdf", Content: strings.NewReader("pdf bytes")}
	file, err := ts.files.AttachToRevision(revID, up, testExtensions)
	require.NoError(t, err)
	assert.Equal(t, "pathway.pdf", file.DisplayName)
	assert.NotEmpty(t, file.StorageKey)

	rc, meta, err := ts.files.Open(file.ID)
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(content))
	assert.Equal(t, "pathway.pdf", meta.DisplayName)
}

func TestAttachRejectsDisallowedExtension(t *testing.T) {
	ts := newTestStack(t)
	revID := ts.mustCreateRevisionID(t)

	up := FileUpload{Name: "malware.exe", Content: strings.NewReader("nope")}
	_, err := ts.files.AttachToRevision(revID, up, testExtensions)
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestAttachExtensionCheckIsCaseInsensitive(t *testing.T) {
	ts := newTestStack(t)
	revID := ts.mustCreateRevisionID(t)

	up := FileUpload{Name: "protocol.PDF", Content: strings.NewReader("ok")}
	_, err := ts.files.AttachToRevision(revID, up, testExtensions)
	assert.NoError(t, err)
}

func TestAttachRejectsNameWithoutExtension(t *testing.T) {
	ts := newTestStack(t)
	revID := ts.mustCreateRevisionID(t)

	for _, name := range []string{"noextension", "trailingdot."} {
		up := FileUpload{Name: name, Content: strings.NewReader("x")}
		_, err := ts.files.AttachToRevision(revID, up, testExtensions)
		assert.IsType(t, models.ErrorValidation{}, err, name)
	}
}

func TestAttachRejectsLongName(t *testing.T) {
	ts := newTestStack(t)
	revID := ts.mustCreateRevisionID(t)

	name := strings.Repeat("a", models.MaxFileNameLength) + ".pdf"
	up := FileUpload{Name: name, Content: strings.NewReader("x")}
	_, err := ts.files.AttachToRevision(revID, up, testExtensions)
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestAttachNameLengthCountsCharacters(t *testing.T) {
	ts := newTestStack(t)
	revID := ts.mustCreateRevisionID(t)

	name := strings.Repeat("図", models.MaxFileNameLength-4) + ".pdf"
	up := FileUpload{Name: name, Content: strings.NewReader("x")}
	file, err := ts.files.AttachToRevision(revID, up, testExtensions)
	require.NoError(t, err)
	assert.Equal(t, name, file.DisplayName)
}

func TestAttachToMissingRevision(t *testing.T) {
	ts := newTestStack(t)

	up := FileUpload{Name: "doc.pdf", Content: strings.NewReader("x")}
	_, err := ts.files.AttachToRevision(12345, up, testExtensions)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestDetachRemovesBytesAndMetadata(t *testing.T) {
	ts := newTestStack(t)
	revID := ts.mustCreateRevisionID(t)

	up := FileUpload{Name: "doc.pdf", Content: strings.NewReader("x")}
	file, err := ts.files.AttachToRevision(revID, up, testExtensions)
	require.NoError(t, err)

	require.NoError(t, ts.files.Detach(file.ID))

	_, _, err = ts.files.Open(file.ID)
	assert.IsType(t, models.ErrorNotFound{}, err)

	_, err = ts.store.Open(file.StorageKey)
	assert.Error(t, err)
}

func TestDetachNotFound(t *testing.T) {
	ts := newTestStack(t)

	err := ts.files.Detach(999)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestStorageKeysDifferForSameName(t *testing.T) {
	ts := newTestStack(t)
	revID := ts.mustCreateRevisionID(t)

	a, err := ts.files.AttachToRevision(revID, FileUpload{Name: "doc.pdf", Content: strings.NewReader("a")}, testExtensions)
	require.NoError(t, err)
	b, err := ts.files.AttachToRevision(revID, FileUpload{Name: "doc.pdf", Content: strings.NewReader("b")}, testExtensions)
	require.NoError(t, err)

	assert.NotEqual(t, a.StorageKey, b.StorageKey)
}
