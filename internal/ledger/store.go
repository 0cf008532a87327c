package ledger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Store persists the full ledger as a JSON array at a fixed path. Saves
// overwrite the whole file; there is no append log. The file is assumed to be
// owned exclusively by the single running invocation, so no locking.
type Store struct {
	path string
	log  *slog.Logger
}

func NewStore(path string, log *slog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the ledger. A missing file is the normal first-run case and
// yields an empty ledger; any other read or decode failure is logged and
// likewise yields an empty ledger rather than aborting the run. Entries that
// fail structural validation (missing fields, malformed dates) are dropped
// individually so one corrupt entry does not take the rest down with it.
func (s *Store) Load() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("ledger unreadable, starting empty", "path", s.path, "err", err)
		}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn("ledger corrupt, starting empty", "path", s.path, "err", err)
		return nil
	}

	records := make([]Record, 0, len(raw))
	for i, entry := range raw {
		var r Record
		if err := json.Unmarshal(entry, &r); err != nil || !r.valid() {
			s.log.Warn("dropping invalid ledger entry", "index", i, "err", err)
			continue
		}
		records = append(records, r)
	}
	return records
}

// Save overwrites the ledger with the given records. The write goes through a
// temp file in the same directory plus a rename, so a crash mid-write leaves
// the previous ledger intact.
func (s *Store) Save(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode ledger")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create ledger temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write ledger")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close ledger temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace ledger")
	}
	return nil
}
