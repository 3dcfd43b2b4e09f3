// Package entryio implements the Entry export/import form (spec.md
// §6): one YAML file per entry, filename "<uuid>.yaml", under an
// entries/ directory inside a caller-chosen export directory. Entry
// extraction and archive management stay external collaborators; this
// package only (de)serializes the already-assembled Entry.
package entryio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/rarian/internal/entrystore"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
	"github.com/Aman-CERP/rarian/internal/uid"
)

// importParallelism bounds how many entry files ImportAll decodes at
// once. Decoding is CPU/IO bound per file and independent across
// files, so it parallelizes cleanly; the caller still serializes the
// resulting inserts onto a single write transaction.
const importParallelism = 8

type yamlFileRef struct {
	Key    string            `yaml:"key"`
	Format map[string]string `yaml:"format,omitempty"`
}

type yamlTaggedValue struct {
	Key     string   `yaml:"key"`
	Str     string   `yaml:"str,omitempty"`
	Int     *int64   `yaml:"int,omitempty"`
	StrList []string `yaml:"strlist,omitempty"`
}

type yamlEntry struct {
	Files    []yamlFileRef     `yaml:"files"`
	Metadata []yamlTaggedValue `yaml:"metadata"`
}

// entriesDirName is the fixed subdirectory name every export directory
// carries its per-entry YAML files under.
const entriesDirName = "entries"

func entryPath(exportDir string, u uid.UID) string {
	return filepath.Join(exportDir, entriesDirName, u.String()+".yaml")
}

// Export writes entry to "<exportDir>/entries/<uuid>.yaml", creating
// the entries directory if needed, via a crash-safe rename-into-place
// write so a reader never observes a partially written file.
func Export(exportDir string, u uid.UID, entry entrystore.Entry) error {
	dir := filepath.Join(exportDir, entriesDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rarianerrors.IOError("failed to create entries directory", err)
	}

	data, err := ToYAML(entry)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(entryPath(exportDir, u), strings.NewReader(string(data))); err != nil {
		return rarianerrors.IOError("failed to write entry yaml", err)
	}
	return nil
}

// Import reads and decodes "<exportDir>/entries/<uuid>.yaml".
func Import(exportDir string, u uid.UID) (entrystore.Entry, error) {
	data, err := os.ReadFile(entryPath(exportDir, u))
	if err != nil {
		return entrystore.Entry{}, rarianerrors.IOError("failed to read entry yaml", err)
	}
	return FromYAML(data)
}

// ImportAll reads every "<uuid>.yaml" file under exportDir/entries,
// returning the parsed (uuid, entry) pairs. Files are decoded
// concurrently (bounded by importParallelism); the returned slice
// preserves directory listing order regardless of completion order.
func ImportAll(exportDir string) ([]ImportedEntry, error) {
	dir := filepath.Join(exportDir, entriesDirName)
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, rarianerrors.IOError("failed to list entries directory", err)
	}

	type slot struct {
		set bool
		ie  ImportedEntry
	}
	slots := make([]slot, 0, len(files))
	var idxs []int

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		idStr := strings.TrimSuffix(f.Name(), ".yaml")
		u, err := uid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot{ie: ImportedEntry{UID: u}})
		idxs = append(idxs, len(slots)-1)
	}

	g, ctx := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, importParallelism)
	var mu sync.Mutex

	for _, idx := range idxs {
		idx := idx
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return ctx.Err()
			}

			entry, err := Import(exportDir, slots[idx].ie.UID)
			if err != nil {
				return err
			}

			mu.Lock()
			slots[idx].ie.Entry = entry
			slots[idx].set = true
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]ImportedEntry, 0, len(slots))
	for _, s := range slots {
		if s.set {
			out = append(out, s.ie)
		}
	}
	return out, nil
}

// ImportedEntry pairs a parsed UUID with its decoded Entry.
type ImportedEntry struct {
	UID   uid.UID
	Entry entrystore.Entry
}

// ToYAML renders entry in the export form.
func ToYAML(entry entrystore.Entry) ([]byte, error) {
	y := yamlEntry{
		Files:    make([]yamlFileRef, 0, len(entry.Files)),
		Metadata: make([]yamlTaggedValue, 0, len(entry.Metadata)),
	}

	for _, f := range entry.Files {
		format := make(map[string]string, len(f.Format))
		for k, v := range f.Format {
			format[k.String()] = v
		}
		y.Files = append(y.Files, yamlFileRef{Key: f.Filekey, Format: format})
	}

	for _, v := range entry.Metadata {
		tv := yamlTaggedValue{Key: v.Key.String()}
		switch v.Kind {
		case metadata.KindString:
			tv.Str = v.Str
		case metadata.KindInt:
			n := v.Int
			tv.Int = &n
		case metadata.KindStringList:
			tv.StrList = v.StrList
		}
		y.Metadata = append(y.Metadata, tv)
	}

	data, err := yaml.Marshal(y)
	if err != nil {
		return nil, rarianerrors.Wrap(rarianerrors.ErrCodeYAMLDecode, err)
	}
	return data, nil
}

// FromYAML parses the export form back into an Entry.
func FromYAML(data []byte) (entrystore.Entry, error) {
	var y yamlEntry
	if err := yaml.Unmarshal(data, &y); err != nil {
		return entrystore.Entry{}, rarianerrors.New(rarianerrors.ErrCodeYAMLDecode, "failed to parse entry YAML", err)
	}

	files := make([]entrystore.FileRef, 0, len(y.Files))
	for _, f := range y.Files {
		format := make(map[entrystore.FormatKey]string, len(f.Format))
		for k, v := range f.Format {
			key, err := parseFormatKey(k)
			if err != nil {
				return entrystore.Entry{}, err
			}
			format[key] = v
		}
		files = append(files, entrystore.FileRef{Filekey: f.Key, Format: format})
	}

	m := metadata.Map{}
	for _, tv := range y.Metadata {
		key, err := metadata.ParseAttributeKey(tv.Key)
		if err != nil {
			return entrystore.Entry{}, err
		}

		var value metadata.Value
		switch {
		case tv.Int != nil:
			value, err = metadata.NewInt(key, *tv.Int)
		case tv.StrList != nil:
			value, err = metadata.NewStringList(key, tv.StrList)
		default:
			value, err = metadata.NewString(key, tv.Str)
		}
		if err != nil {
			return entrystore.Entry{}, err
		}
		m.Set(value)
	}

	return entrystore.Entry{Files: files, Metadata: m}, nil
}

func parseFormatKey(name string) (entrystore.FormatKey, error) {
	if name == entrystore.MimeType.String() {
		return entrystore.MimeType, nil
	}
	return 0, rarianerrors.New(rarianerrors.ErrCodeBadMetakey, "unknown format key: "+name, nil)
}
