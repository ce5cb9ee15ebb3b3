// Package artifact persists and loads the ingestion output: the chunk metadata,
// the flat vector index, and the fitted TF-IDF model. The three files are only
// meaningful together and are written and validated as one unit.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/embeddings/tfidf"
	"github.com/papercomputeco/policyqa/pkg/index"
)

// SchemaVersion is written into every metadata file. Load rejects other versions.
const SchemaVersion = 1

const (
	DefaultMetadataFile = "meta.json"
	DefaultIndexFile    = "index.bin"
	DefaultModelFile    = "model.bin"
)

// Paths locates the three artifact files.
type Paths struct {
	Metadata string
	Index    string
	Model    string
}

// DefaultPaths places the default file names in dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Metadata: filepath.Join(dir, DefaultMetadataFile),
		Index:    filepath.Join(dir, DefaultIndexFile),
		Model:    filepath.Join(dir, DefaultModelFile),
	}
}

// Set is a loaded or freshly built artifact set. Chunk i corresponds to index
// position i.
type Set struct {
	Chunks []corpus.Chunk
	Index  *index.Flat
	Model  *tfidf.Vectorizer
}

// Metadata is the JSON layout of the metadata file.
type Metadata struct {
	SchemaVersion int            `json:"schema_version"`
	CorpusSize    int            `json:"corpus_size"`
	Dimensions    int            `json:"dimensions"`
	IndexSHA256   string         `json:"index_sha256"`
	ModelSHA256   string         `json:"model_sha256"`
	Chunks        []corpus.Chunk `json:"chunks"`
}

// Validate checks the in-memory invariants of the set.
func (s *Set) Validate() error {
	if s.Index == nil || s.Model == nil {
		return errors.New("artifact set is incomplete")
	}
	if len(s.Chunks) == 0 {
		return corpus.ErrEmptyCorpus
	}
	if s.Index.Size() != len(s.Chunks) {
		return fmt.Errorf("index holds %d vectors but corpus has %d chunks", s.Index.Size(), len(s.Chunks))
	}
	if s.Model.Dimension() != s.Index.Dimension() {
		return fmt.Errorf("model has %d dimensions but index has %d", s.Model.Dimension(), s.Index.Dimension())
	}
	return nil
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Persist encodes the set and writes all three files. Each file is written to a
// temporary sibling first; existing files are moved aside and restored if any
// rename fails, so a failed Persist leaves the previous set in place.
func Persist(s *Set, p Paths) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("persisting artifacts: %w", err)
	}

	indexBytes, err := s.Index.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	modelBytes, err := s.Model.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	metaBytes, err := json.MarshalIndent(Metadata{
		SchemaVersion: SchemaVersion,
		CorpusSize:    len(s.Chunks),
		Dimensions:    s.Index.Dimension(),
		IndexSHA256:   digest(indexBytes),
		ModelSHA256:   digest(modelBytes),
		Chunks:        s.Chunks,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	// metadata last: a reader that sees the new metadata sees the new digests
	return writeAll([]pendingFile{
		{path: p.Index, data: indexBytes},
		{path: p.Model, data: modelBytes},
		{path: p.Metadata, data: metaBytes},
	})
}

type pendingFile struct {
	path   string
	data   []byte
	tmp    string
	backup string
}

func writeAll(files []pendingFile) (err error) {
	defer func() {
		for _, f := range files {
			if f.tmp != "" {
				os.Remove(f.tmp)
			}
		}
	}()

	for i := range files {
		f := &files[i]
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return fmt.Errorf("creating artifact dir: %w", err)
		}
		if f.tmp, err = writeTemp(f.path, f.data); err != nil {
			return err
		}
	}

	var committed []*pendingFile
	rollback := func() {
		for j := len(committed) - 1; j >= 0; j-- {
			f := committed[j]
			if f.backup != "" {
				os.Rename(f.backup, f.path)
			} else {
				os.Remove(f.path)
			}
		}
	}

	for i := range files {
		f := &files[i]
		if _, statErr := os.Stat(f.path); statErr == nil {
			f.backup = f.path + ".bak"
			if err := os.Rename(f.path, f.backup); err != nil {
				f.backup = ""
				rollback()
				return fmt.Errorf("backing up %s: %w", f.path, err)
			}
		}
		committed = append(committed, f)

		if err := os.Rename(f.tmp, f.path); err != nil {
			rollback()
			return fmt.Errorf("replacing %s: %w", f.path, err)
		}
		f.tmp = ""
	}

	for _, f := range committed {
		if f.backup != "" {
			os.Remove(f.backup)
		}
	}
	return nil
}

func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("syncing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	return name, nil
}

// Load reads and cross-checks an artifact set. A missing metadata file is
// returned as the underlying fs error; every other inconsistency is a
// *CorruptError.
func Load(p Paths) (*Set, error) {
	metaBytes, err := os.ReadFile(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, &CorruptError{Path: p.Metadata, Reason: "invalid metadata JSON", Err: err}
	}
	if meta.SchemaVersion != SchemaVersion {
		return nil, &CorruptError{
			Path:   p.Metadata,
			Reason: fmt.Sprintf("schema version %d, want %d", meta.SchemaVersion, SchemaVersion),
		}
	}
	if meta.CorpusSize != len(meta.Chunks) {
		return nil, &CorruptError{
			Path:   p.Metadata,
			Reason: fmt.Sprintf("header declares %d chunks, file holds %d", meta.CorpusSize, len(meta.Chunks)),
		}
	}

	indexBytes, err := readChecked(p.Index, meta.IndexSHA256)
	if err != nil {
		return nil, err
	}
	modelBytes, err := readChecked(p.Model, meta.ModelSHA256)
	if err != nil {
		return nil, err
	}

	flat := &index.Flat{}
	if err := flat.UnmarshalBinary(indexBytes); err != nil {
		return nil, &CorruptError{Path: p.Index, Reason: "undecodable index", Err: err}
	}
	model := tfidf.New()
	if err := model.UnmarshalBinary(modelBytes); err != nil {
		return nil, &CorruptError{Path: p.Model, Reason: "undecodable model", Err: err}
	}

	if flat.Size() != len(meta.Chunks) {
		return nil, &CorruptError{
			Path:   p.Index,
			Reason: fmt.Sprintf("index holds %d vectors, metadata has %d chunks", flat.Size(), len(meta.Chunks)),
		}
	}
	if flat.Dimension() != meta.Dimensions || model.Dimension() != meta.Dimensions {
		return nil, &CorruptError{
			Path: p.Model,
			Reason: fmt.Sprintf("dimensions disagree: metadata %d, index %d, model %d",
				meta.Dimensions, flat.Dimension(), model.Dimension()),
		}
	}

	return &Set{Chunks: meta.Chunks, Index: flat, Model: model}, nil
}

func readChecked(path, want string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &CorruptError{Path: path, Reason: "unreadable", Err: err}
	}
	if got := digest(b); got != want {
		return nil, &CorruptError{Path: path, Reason: fmt.Sprintf("sha256 %s does not match metadata %s", got, want)}
	}
	return b, nil
}
