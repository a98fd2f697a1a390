package coordinator

import (
	"github.com/speakpost/speakpost-backend/internal/common"
)

// Editing sessions hand the caller a snapshot buffer to mutate freely.
// Nothing touches the draft until the explicit commit; cancel discards
// the buffer. At most one text session and one hashtag session may be
// open at a time.

// BeginTextEdit opens a text editing session and returns the buffer
func (c *Coordinator) BeginTextEdit() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.textEditing {
		return "", common.ErrSessionOpen
	}
	c.textEditing = true
	return c.draft.Content.Text, nil
}

// CommitTextEdit writes the edited text back into the draft
func (c *Coordinator) CommitTextEdit(text string) error {
	if !c.transition.tryAcquire() {
		return common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	if !c.textEditing {
		c.mu.Unlock()
		return common.ErrNoSession
	}
	c.textEditing = false
	c.draft.Content.Text = sanitizeText(text)
	c.refreshTerminalStateLocked()
	c.mu.Unlock()

	c.notify(EventDraftChanged)
	return nil
}

// CancelTextEdit discards the text editing buffer
func (c *Coordinator) CancelTextEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.textEditing {
		return common.ErrNoSession
	}
	c.textEditing = false
	return nil
}

// BeginHashtagEdit opens a hashtag editing session and returns the buffer
func (c *Coordinator) BeginHashtagEdit() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hashtagEditing {
		return nil, common.ErrSessionOpen
	}
	c.hashtagEditing = true
	return append([]string(nil), c.draft.Content.Hashtags...), nil
}

// CommitHashtagEdit writes the edited hashtag list back into the draft
func (c *Coordinator) CommitHashtagEdit(tags []string) error {
	if !c.transition.tryAcquire() {
		return common.ErrBusy
	}
	defer c.transition.release()

	c.mu.Lock()
	if !c.hashtagEditing {
		c.mu.Unlock()
		return common.ErrNoSession
	}
	c.hashtagEditing = false
	c.draft.Content.Hashtags = normalizeTags(tags)
	c.mu.Unlock()

	c.notify(EventDraftChanged)
	return nil
}

// CancelHashtagEdit discards the hashtag editing buffer
func (c *Coordinator) CancelHashtagEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hashtagEditing {
		return common.ErrNoSession
	}
	c.hashtagEditing = false
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = sanitizeTag(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
