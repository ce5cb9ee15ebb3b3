package search_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/api/search"
	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/logger"
)

func TestSearch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Search Suite")
}

type fakeSearcher struct {
	chunks []corpus.Chunk
	err    error
	topK   int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, topK int) ([]corpus.Chunk, error) {
	f.topK = topK
	if f.err != nil {
		return nil, f.err
	}
	if len(f.chunks) > topK {
		return f.chunks[:topK], nil
	}
	return f.chunks, nil
}

var _ = Describe("Search", func() {
	It("ranks results from 1 in searcher order", func() {
		s := &fakeSearcher{chunks: []corpus.Chunk{{Text: "a", Source: "x.pdf"}, {Text: "b", Source: "y.pdf"}}}
		out, err := search.Search(context.Background(), s, "q", 2, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Count).To(Equal(2))
		Expect(out.Results[0]).To(Equal(search.Result{Rank: 1, Source: "x.pdf", Text: "a"}))
		Expect(out.Results[1].Rank).To(Equal(2))
		Expect(out.Chunks()).To(Equal(s.chunks))
	})

	It("defaults top k", func() {
		s := &fakeSearcher{}
		out, err := search.Search(context.Background(), s, "q", 0, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(s.topK).To(Equal(search.DefaultTopK))
		Expect(out.Results).To(BeEmpty())
	})

	It("wraps searcher failures", func() {
		s := &fakeSearcher{err: errors.New("boom")}
		_, err := search.Search(context.Background(), s, "q", 1, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})
})
