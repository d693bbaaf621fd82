package snapshot

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"chainstd/db"
	"chainstd/errors"
	"chainstd/jsonx"
	"chainstd/logx"
)

// FileName is the single snapshot file kept per directory.
const FileName = "snapshot-latest.json"

// Entry is one stored pair inside a namespace. Keys are relative to the
// namespace prefix, values are hex-encoded bytes.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Namespace is the full dump of one contract namespace, event journal
// included.
type Namespace struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// File is the on-disk snapshot form. The digest binds the namespace
// contents; the timestamp stays outside it, so re-exporting unchanged state
// reproduces the digest.
type File struct {
	CreatedAt  time.Time   `json:"created_at"`
	Digest     string      `json:"digest"`
	Namespaces []Namespace `json:"namespaces"`
}

// ComputeDigest hashes the namespaces in file order, each name, key and
// value length-prefixed so adjacent fields cannot alias.
func ComputeDigest(namespaces []Namespace) string {
	h := sha256.New()
	buf := make([]byte, 8)
	for _, ns := range namespaces {
		binary.BigEndian.PutUint64(buf, uint64(len(ns.Name)))
		h.Write(buf)
		h.Write([]byte(ns.Name))
		for _, e := range ns.Entries {
			binary.BigEndian.PutUint64(buf, uint64(len(e.Key)))
			h.Write(buf)
			h.Write([]byte(e.Key))
			binary.BigEndian.PutUint64(buf, uint64(len(e.Value)))
			h.Write(buf)
			h.Write([]byte(e.Value))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Export dumps the named namespaces from the provider. Namespaces and
// entries come out sorted, so equal state always yields an equal digest.
func Export(provider db.DatabaseProvider, namespaces ...string) (*File, error) {
	iterable, ok := provider.(db.IterableProvider)
	if !ok {
		return nil, errors.NewError(errors.ErrCodeStoreUnavailable, "snapshot: provider does not support iteration")
	}

	sorted := append([]string(nil), namespaces...)
	sort.Strings(sorted)

	file := &File{CreatedAt: time.Now().UTC()}
	for i, name := range sorted {
		if i > 0 && name == sorted[i-1] {
			continue
		}
		prefix := name + "/"
		ns := Namespace{Name: name}
		err := iterable.IteratePrefix([]byte(prefix), func(key, value []byte) bool {
			ns.Entries = append(ns.Entries, Entry{
				Key:   strings.TrimPrefix(string(key), prefix),
				Value: hex.EncodeToString(value),
			})
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("iterate namespace %s: %w", name, err)
		}
		sort.Slice(ns.Entries, func(i, j int) bool { return ns.Entries[i].Key < ns.Entries[j].Key })
		file.Namespaces = append(file.Namespaces, ns)
	}
	file.Digest = ComputeDigest(file.Namespaces)
	return file, nil
}

// Verify recomputes the digest over the file's contents.
func Verify(f *File) error {
	if f.Digest != ComputeDigest(f.Namespaces) {
		return errors.NewError(errors.ErrCodeCorruptState, "snapshot: digest mismatch")
	}
	return nil
}

// Restore writes the snapshot's namespaces back into the provider after
// verifying the digest. Each namespace is cleared and rewritten in one
// atomic batch, so a namespace never ends up half-restored.
func Restore(provider db.DatabaseProvider, f *File) error {
	if err := Verify(f); err != nil {
		return err
	}
	iterable, ok := provider.(db.IterableProvider)
	if !ok {
		return errors.NewError(errors.ErrCodeStoreUnavailable, "snapshot: provider does not support iteration")
	}

	for _, ns := range f.Namespaces {
		prefix := ns.Name + "/"
		var stale [][]byte
		err := iterable.IteratePrefix([]byte(prefix), func(key, value []byte) bool {
			k := make([]byte, len(key))
			copy(k, key)
			stale = append(stale, k)
			return true
		})
		if err != nil {
			return fmt.Errorf("iterate namespace %s: %w", ns.Name, err)
		}

		err = db.WithBatch(provider, func(batch db.DatabaseBatch) error {
			for _, key := range stale {
				batch.Delete(key)
			}
			for _, e := range ns.Entries {
				value, decErr := hex.DecodeString(e.Value)
				if decErr != nil {
					return errors.NewError(errors.ErrCodeCorruptState,
						fmt.Sprintf("snapshot: entry %s/%s is not hex", ns.Name, e.Key))
				}
				batch.Put([]byte(prefix+e.Key), value)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("restore namespace %s: %w", ns.Name, err)
		}
		logx.Info("SNAPSHOT", fmt.Sprintf("Restored namespace %s (%d entries)", ns.Name, len(ns.Entries)))
	}
	return nil
}

// Write marshals the snapshot into dir under FileName, then removes any
// other snapshot JSONs so only the latest lingers.
func Write(dir string, f *File) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := jsonx.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot file: %w", err)
	}

	if err := cleanupOldSnapshots(dir, path); err != nil {
		logx.Error("SNAPSHOT", "Failed to cleanup old snapshots:", err)
	}
	return path, nil
}

// Read loads a snapshot file from disk without verifying it.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := jsonx.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &f, nil
}

func cleanupOldSnapshots(dir, latestPath string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read snapshot dir: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		filePath := filepath.Join(dir, file.Name())
		if filePath != latestPath {
			if err := os.Remove(filePath); err != nil {
				logx.Error("SNAPSHOT", "Failed to remove old snapshot:", filePath, err)
			}
		}
	}
	return nil
}
