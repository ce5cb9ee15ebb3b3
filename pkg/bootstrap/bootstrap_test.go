package bootstrap_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/bootstrap"
	"github.com/papercomputeco/policyqa/pkg/config"
	"github.com/papercomputeco/policyqa/pkg/logger"
)

func TestBootstrap(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bootstrap Suite")
}

var _ = Describe("ArtifactPaths", func() {
	It("joins relative names onto the artifact dir", func() {
		p := bootstrap.ArtifactPaths(config.ArtifactsConfig{
			Dir: "/srv/a", MetadataFile: "meta.json", IndexFile: "/abs/index.bin", ModelFile: "model.bin",
		})
		Expect(p.Metadata).To(Equal("/srv/a/meta.json"))
		Expect(p.Index).To(Equal("/abs/index.bin"))
		Expect(p.Model).To(Equal("/srv/a/model.bin"))
	})
})

var _ = Describe("Brokers", func() {
	It("splits and trims", func() {
		Expect(bootstrap.Brokers(" k1:9092, ,k2:9092 ")).To(Equal([]string{"k1:9092", "k2:9092"}))
		Expect(bootstrap.Brokers("")).To(BeEmpty())
	})
})

var _ = Describe("ingest then query", func() {
	var (
		ctx context.Context
		cfg *config.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		root := GinkgoT().TempDir()
		dataDir := filepath.Join(root, "data")
		Expect(os.MkdirAll(dataDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dataDir, "leave.txt"),
			[]byte("Employees accrue fifteen vacation days per year. Vacation requests need manager approval."), 0o600)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dataDir, "conduct.md"),
			[]byte("Remote work is allowed two days per week with team lead approval."), 0o600)).To(Succeed())

		cfg = config.NewDefaultConfig()
		cfg.Ingest.DataDir = dataDir
		cfg.Artifacts.Dir = filepath.Join(root, "artifacts")
		Expect(os.MkdirAll(cfg.Artifacts.Dir, 0o755)).To(Succeed())
		cfg.Cache.Provider = "memory"
		cfg.Generator.Provider = "ollama"
	})

	It("reports missing artifacts", func() {
		_, err := bootstrap.LoadQuery(ctx, cfg, logger.Nop())
		Expect(err).To(MatchError(bootstrap.ErrNoArtifacts))
	})

	It("serves searches from freshly ingested artifacts", func() {
		ing, pub, err := bootstrap.NewIngester(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer pub.Close()

		res, err := ing.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Documents).To(HaveLen(2))

		q, err := bootstrap.LoadQuery(ctx, cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer q.Close()

		chunks, err := q.Retriever.Search(ctx, "vacation days", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].Source).To(Equal("leave.txt"))

		answering, err := bootstrap.NewAnswering(ctx, cfg, q.Retriever, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(answering.Close()).To(Succeed())
	})

	It("mirrors into sqlite-vec when configured", func() {
		ing, pub, err := bootstrap.NewIngester(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer pub.Close()
		_, err = ing.Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		cfg.VectorStore.Provider = "sqlite"
		q, err := bootstrap.LoadQuery(ctx, cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		defer q.Close()

		chunks, err := q.Retriever.Search(ctx, "remote work", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks[0].Source).To(Equal("conduct.md"))
	})

	It("rejects an invalid chunker configuration", func() {
		cfg.Ingest.ChunkOverlap = cfg.Ingest.ChunkSize
		_, _, err := bootstrap.NewIngester(cfg, logger.Nop())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewAnswering", func() {
	It("names the API key variable when the key is missing", func() {
		cfg := config.NewDefaultConfig()
		cfg.Generator.APIKeyEnv = "POLICYQA_TEST_UNSET_KEY"
		_, err := bootstrap.NewAnswering(context.Background(), cfg, nil, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("POLICYQA_TEST_UNSET_KEY")))
	})
})
