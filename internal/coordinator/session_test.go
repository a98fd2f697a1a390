package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/speakpost/speakpost-backend/internal/common"
)

func readyCoordinator(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.record(t)
	assert.NoError(t, h.coord.ProcessTranscription(context.Background(), "post to twitter about coffee"))
	return h
}

func TestTextEdit_CommitAppliesBuffer(t *testing.T) {
	h := readyCoordinator(t)

	buffer, err := h.coord.BeginTextEdit()
	assert.NoError(t, err)
	assert.Equal(t, "post to twitter about coffee", buffer)

	// the draft is untouched while the session is open
	assert.NoError(t, h.coord.CommitTextEdit("Fresh coffee, fresh start"))
	assert.Equal(t, "Fresh coffee, fresh start", h.coord.Snapshot().Draft.Content.Text)
}

func TestTextEdit_SecondBeginRejected(t *testing.T) {
	h := readyCoordinator(t)

	_, err := h.coord.BeginTextEdit()
	assert.NoError(t, err)

	_, err = h.coord.BeginTextEdit()
	assert.ErrorIs(t, err, common.ErrSessionOpen)
}

func TestTextEdit_CancelDiscardsBuffer(t *testing.T) {
	h := readyCoordinator(t)

	_, err := h.coord.BeginTextEdit()
	assert.NoError(t, err)
	assert.NoError(t, h.coord.CancelTextEdit())

	// nothing changed, and a new session can open
	assert.Equal(t, "post to twitter about coffee", h.coord.Snapshot().Draft.Content.Text)
	_, err = h.coord.BeginTextEdit()
	assert.NoError(t, err)
}

func TestTextEdit_CommitWithoutSession(t *testing.T) {
	h := readyCoordinator(t)

	assert.ErrorIs(t, h.coord.CommitTextEdit("anything"), common.ErrNoSession)
	assert.ErrorIs(t, h.coord.CancelTextEdit(), common.ErrNoSession)
}

func TestTextEdit_CommitWhileBusy(t *testing.T) {
	h := readyCoordinator(t)
	_, err := h.coord.BeginTextEdit()
	assert.NoError(t, err)

	assert.True(t, h.coord.transition.tryAcquire())
	defer h.coord.transition.release()

	assert.ErrorIs(t, h.coord.CommitTextEdit("blocked"), common.ErrBusy)
}

func TestTextEdit_CommitEmptyTextRecomputesState(t *testing.T) {
	h := readyCoordinator(t)

	_, err := h.coord.BeginTextEdit()
	assert.NoError(t, err)
	assert.NoError(t, h.coord.CommitTextEdit(""))

	// no text, no media: back to Idle
	assert.Equal(t, StateIdle, h.coord.State())
}

func TestHashtagEdit_CommitNormalizesTags(t *testing.T) {
	h := readyCoordinator(t)

	_, err := h.coord.BeginHashtagEdit()
	assert.NoError(t, err)
	assert.NoError(t, h.coord.CommitHashtagEdit([]string{"#Coffee", "coffee time!", "Coffee", ""}))

	tags := h.coord.Snapshot().Draft.Content.Hashtags
	assert.Equal(t, []string{"Coffee", "coffeetime"}, tags)
}

func TestHashtagEdit_IndependentOfTextSession(t *testing.T) {
	h := readyCoordinator(t)

	_, err := h.coord.BeginTextEdit()
	assert.NoError(t, err)

	// one text session and one hashtag session may coexist
	tags, err := h.coord.BeginHashtagEdit()
	assert.NoError(t, err)
	assert.NotNil(t, tags)

	assert.NoError(t, h.coord.CommitHashtagEdit([]string{"morning"}))
	assert.NoError(t, h.coord.CommitTextEdit("still committed"))
}

func TestHashtagEdit_BufferIsACopy(t *testing.T) {
	h := readyCoordinator(t)

	buffer, err := h.coord.BeginHashtagEdit()
	assert.NoError(t, err)
	if len(buffer) > 0 {
		buffer[0] = "mutated"
	}
	assert.NoError(t, h.coord.CancelHashtagEdit())

	assert.NotContains(t, h.coord.Snapshot().Draft.Content.Hashtags, "mutated")
}

func TestNormalizeTags_DropsDuplicatesAndEmpty(t *testing.T) {
	got := normalizeTags([]string{"#go", "go", "  ", "go lang", "go_lang"})

	assert.Equal(t, []string{"go", "golang", "go_lang"}, got)
}

func TestSanitizeTag(t *testing.T) {
	assert.Equal(t, "sunset", sanitizeTag("#sunset"))
	assert.Equal(t, "beachday", sanitizeTag("beach day!"))
	assert.Equal(t, "snake_case", sanitizeTag("snake_case"))
	assert.Equal(t, "", sanitizeTag("###"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "line one\nline two", sanitizeText("line one\nline two"))
	assert.Equal(t, "clean", sanitizeText("\x07clean\x00"))
	assert.Equal(t, "trimmed", sanitizeText("  trimmed\t"))
}

func TestReset_ClosesOpenSessions(t *testing.T) {
	h := readyCoordinator(t)
	_, err := h.coord.BeginTextEdit()
	assert.NoError(t, err)

	assert.NoError(t, h.coord.Reset())

	// the session died with the draft it was editing
	assert.ErrorIs(t, h.coord.CommitTextEdit("stale"), common.ErrNoSession)
}
