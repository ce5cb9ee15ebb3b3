package retrieval_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/embeddings"
	"github.com/papercomputeco/policyqa/pkg/embeddings/tfidf"
	"github.com/papercomputeco/policyqa/pkg/index"
	"github.com/papercomputeco/policyqa/pkg/logger"
	"github.com/papercomputeco/policyqa/pkg/retrieval"
	testutils "github.com/papercomputeco/policyqa/pkg/utils/test"
)

func newRetriever(chunks []corpus.Chunk) *retrieval.Retriever {
	model := tfidf.New()
	vecs, err := model.FitTransform(corpus.Texts(chunks))
	Expect(err).NotTo(HaveOccurred())
	flat, err := index.Build(vecs)
	Expect(err).NotTo(HaveOccurred())

	r, err := retrieval.NewRetriever(retrieval.Config{
		Embedder: model,
		Searcher: flat,
		Chunks:   chunks,
		Logger:   logger.Nop(),
	})
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Retriever", func() {
	var (
		ctx    context.Context
		chunks []corpus.Chunk
	)

	BeforeEach(func() {
		ctx = context.Background()
		chunks = []corpus.Chunk{
			{Text: "Employees accrue 15 vacation days per year.", Source: "leave.pdf"},
			{Text: "Sick leave requires a doctor's note after 3 days.", Source: "leave.pdf"},
		}
	})

	Describe("NewRetriever", func() {
		It("requires an embedding model", func() {
			_, err := retrieval.NewRetriever(retrieval.Config{
				Searcher: testutils.NewMockSearcher(),
				Logger:   logger.Nop(),
			})
			Expect(err).To(MatchError(embeddings.ErrNotFitted))
		})

		It("requires a searcher", func() {
			_, err := retrieval.NewRetriever(retrieval.Config{
				Embedder: testutils.NewMockEmbedder(),
				Logger:   logger.Nop(),
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Search", func() {
		It("ranks the vacation chunk first for a vacation question", func() {
			r := newRetriever(chunks)
			got, err := r.Search(ctx, "vacation days", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(chunks[:1]))
		})

		It("returns the whole corpus when top_k exceeds it", func() {
			r := newRetriever(chunks)
			got, err := r.Search(ctx, "vacation days", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
			Expect(got[0]).To(Equal(chunks[0]))
		})

		It("rejects blank queries and non-positive top_k", func() {
			r := newRetriever(chunks)
			_, err := r.Search(ctx, "   ", 3)
			Expect(err).To(MatchError(retrieval.ErrInvalidQuery))
			_, err = r.Search(ctx, "vacation", 0)
			Expect(err).To(MatchError(retrieval.ErrInvalidQuery))
		})

		It("fails fast on an empty corpus", func() {
			r, err := retrieval.NewRetriever(retrieval.Config{
				Embedder: testutils.NewMockEmbedder(),
				Searcher: testutils.NewMockSearcher(),
				Logger:   logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = r.Search(ctx, "vacation", 3)
			Expect(err).To(MatchError(corpus.ErrEmptyCorpus))
		})

		It("propagates NotFitted from an unfitted model", func() {
			r, err := retrieval.NewRetriever(retrieval.Config{
				Embedder: tfidf.New(),
				Searcher: testutils.NewMockSearcher(),
				Chunks:   chunks,
				Logger:   logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = r.Search(ctx, "vacation", 3)
			Expect(err).To(MatchError(embeddings.ErrNotFitted))
		})

		It("propagates embedding failures without searching", func() {
			embedder := testutils.NewMockEmbedder()
			embedder.Err = embeddings.ErrNotFitted
			searcher := testutils.NewMockSearcher()
			r, err := retrieval.NewRetriever(retrieval.Config{
				Embedder: embedder,
				Searcher: searcher,
				Chunks:   chunks,
				Logger:   logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = r.Search(ctx, "vacation", 3)
			Expect(err).To(MatchError(embeddings.ErrNotFitted))
			Expect(embedder.Texts).To(Equal([]string{"vacation"}))
			Expect(searcher.Queries).To(BeEmpty())
		})

		It("propagates searcher failures", func() {
			searcher := testutils.NewMockSearcher()
			searcher.Err = errors.New("boom")
			r, err := retrieval.NewRetriever(retrieval.Config{
				Embedder: testutils.NewMockEmbedder(),
				Searcher: searcher,
				Chunks:   chunks,
				Logger:   logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = r.Search(ctx, "vacation", 3)
			Expect(err).To(MatchError(ContainSubstring("boom")))
		})

		Context("with a misbehaving searcher", func() {
			var r *retrieval.Retriever

			BeforeEach(func() {
				searcher := testutils.NewMockSearcher(
					index.Neighbor{Position: 7},
					index.Neighbor{Position: 1},
					index.Neighbor{Position: 1},
					index.Neighbor{Position: -1},
					index.Neighbor{Position: 0},
				)
				var err error
				r, err = retrieval.NewRetriever(retrieval.Config{
					Embedder: testutils.NewMockEmbedder(),
					Searcher: searcher,
					Chunks:   chunks,
					Reranker: retrieval.Passthrough{},
					Logger:   logger.Nop(),
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("drops out of range and duplicate positions", func() {
				got, err := r.Search(ctx, "anything", 5)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal([]corpus.Chunk{chunks[1], chunks[0]}))
			})

			It("never returns more than top_k", func() {
				got, err := r.Search(ctx, "anything", 2)
				Expect(err).NotTo(HaveOccurred())
				Expect(len(got)).To(BeNumerically("<=", 2))
			})
		})

		It("serves concurrent callers", func() {
			r := newRetriever(chunks)
			var wg sync.WaitGroup
			for range 16 {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					got, err := r.Search(ctx, "sick leave", 1)
					Expect(err).NotTo(HaveOccurred())
					Expect(got[0]).To(Equal(chunks[1]))
				}()
			}
			wg.Wait()
		})
	})
})
