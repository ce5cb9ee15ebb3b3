package dotdir_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/dotdir"
)

var _ = Describe("dotdir.Manager ingest state", func() {
	var (
		tmpDir string
		m      *dotdir.Manager
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		m = dotdir.NewManager()
	})

	It("returns nil when nothing was ingested", func() {
		state, err := m.LoadIngestState(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(BeNil())
	})

	It("round-trips the last run", func() {
		saved := &dotdir.IngestState{
			DataDir:     "data",
			Metadata:    "meta.json",
			Index:       "index.bin",
			Model:       "model.bin",
			Documents:   2,
			Chunks:      9,
			Dimensions:  300,
			FailedFiles: []string{"broken.pdf"},
			CompletedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		Expect(m.SaveIngestState(saved, tmpDir)).To(Succeed())

		loaded, err := m.LoadIngestState(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(saved))
	})

	It("rejects nil state", func() {
		Expect(m.SaveIngestState(nil, tmpDir)).To(HaveOccurred())
	})

	It("reports malformed state files", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "last_ingest.json"), []byte("{"), 0o600)).To(Succeed())
		_, err := m.LoadIngestState(tmpDir)
		Expect(err).To(MatchError(ContainSubstring("parsing ingest state")))
	})

	It("clears idempotently", func() {
		Expect(m.SaveIngestState(&dotdir.IngestState{Chunks: 1}, tmpDir)).To(Succeed())
		Expect(m.ClearIngestState(tmpDir)).To(Succeed())
		Expect(m.ClearIngestState(tmpDir)).To(Succeed())
		state, err := m.LoadIngestState(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(BeNil())
	})
})
