package buffer

// Snapshot is an immutable view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the
// original buffer is modified. Restoring a snapshot reverts every
// mutation made since it was taken.
type Snapshot struct {
	content    string
	revisionID RevisionID
	lineEnding LineEnding
}

// Snapshot captures the current buffer state.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		content:    b.content,
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
	}
}

// Restore reverts the buffer to the state captured by the snapshot.
// The buffer receives a fresh revision ID; restoring is itself a mutation.
func (b *Buffer) Restore(s *Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = s.content
	b.lineEnding = s.lineEnding
	b.rebuildIndex()
	b.revisionID = NewRevisionID()
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return s.content
}

// Len returns the byte length of the snapshot content.
func (s *Snapshot) Len() ByteOffset {
	return len(s.content)
}

// RevisionID returns the revision the snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}
