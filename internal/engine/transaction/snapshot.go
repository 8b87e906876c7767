package transaction

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/grip/internal/core/ports"
	"go.trai.ch/zerr"
)

// snapshot journals every mutation of one transaction so a failed apply can
// be undone. Removed and overwritten files are moved into a stash directory
// under the environment root; created files and record changes are tracked
// in memory. Restore replays the journal in reverse: created files go away,
// new records are erased, stashed files move back, old records return.
type snapshot struct {
	root     string
	stashDir string

	stashed  []stashedFile
	created  []string
	recorded []domain.Name
	erased   []domain.InstalledDistribution

	next int
}

type stashedFile struct {
	// rel is the file's path relative to the environment root.
	rel string
	// stash is the absolute path the file was moved to.
	stash string
}

func newSnapshot(root string) (*snapshot, error) {
	parent := filepath.Join(root, ".grip")
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return nil, zerr.Wrap(err, "failed to create transaction directory")
	}
	stashDir, err := os.MkdirTemp(parent, "tx-*")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create transaction stash")
	}
	return &snapshot{root: root, stashDir: stashDir}, nil
}

// stashFile moves root/rel into the stash. Missing files are not an error:
// an install record may list files a user already deleted by hand.
func (s *snapshot) stashFile(rel string) error {
	src := filepath.Join(s.root, filepath.FromSlash(rel))
	if _, err := os.Lstat(src); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to inspect file"), "file", rel)
	}

	stash := filepath.Join(s.stashDir, fmt.Sprintf("%04d", s.next))
	s.next++
	if err := os.Rename(src, stash); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stash file"), "file", rel)
	}
	s.stashed = append(s.stashed, stashedFile{rel: rel, stash: stash})
	return nil
}

func (s *snapshot) trackCreated(rel string) {
	s.created = append(s.created, rel)
}

func (s *snapshot) trackRecorded(name domain.Name) {
	s.recorded = append(s.recorded, name)
}

func (s *snapshot) trackErased(dist domain.InstalledDistribution) {
	s.erased = append(s.erased, dist)
}

// restore undoes every journaled mutation. A failure here means the
// environment could not be returned to its pre-transaction state.
func (s *snapshot) restore(store ports.InstalledStore) error {
	for i := len(s.created) - 1; i >= 0; i-- {
		rel := s.created[i]
		path := filepath.Join(s.root, filepath.FromSlash(rel))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return s.integrity(err, "file", rel)
		}
	}
	for i := len(s.recorded) - 1; i >= 0; i-- {
		name := s.recorded[i]
		if err := store.Erase(name); err != nil {
			return s.integrity(err, "package", name.String())
		}
	}
	for i := len(s.stashed) - 1; i >= 0; i-- {
		f := s.stashed[i]
		dest := filepath.Join(s.root, filepath.FromSlash(f.rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return s.integrity(err, "file", f.rel)
		}
		if err := os.Rename(f.stash, dest); err != nil {
			return s.integrity(err, "file", f.rel)
		}
	}
	for i := len(s.erased) - 1; i >= 0; i-- {
		dist := s.erased[i]
		if err := store.Record(dist); err != nil {
			return s.integrity(err, "package", dist.Name.String())
		}
	}
	return os.RemoveAll(s.stashDir)
}

func (s *snapshot) integrity(cause error, key, value string) error {
	err := zerr.Wrap(domain.ErrTransactionIntegrity, cause.Error())
	return zerr.With(err, key, value)
}

// commit discards the journal, making the transaction's changes permanent.
func (s *snapshot) commit() error {
	if err := os.RemoveAll(s.stashDir); err != nil {
		return zerr.Wrap(err, "failed to remove transaction stash")
	}
	return nil
}
