package sqlitevec_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/index"
	"github.com/papercomputeco/policyqa/pkg/index/sqlitevec"
	"github.com/papercomputeco/policyqa/pkg/logger"
)

var _ = Describe("Searcher", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewSearcher", func() {
		It("requires a database path", func() {
			_, err := sqlitevec.NewSearcher(sqlitevec.Config{Dimensions: 2, Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("database path is required")))
		})

		It("requires dimensions", func() {
			_, err := sqlitevec.NewSearcher(sqlitevec.Config{DBPath: ":memory:", Logger: logger.Nop()})
			Expect(err).To(HaveOccurred())
		})

		It("implements index.Searcher", func() {
			var _ index.Searcher = (*sqlitevec.Searcher)(nil)
		})
	})

	Describe("Search", func() {
		var s *sqlitevec.Searcher

		BeforeEach(func() {
			var err error
			s, err = sqlitevec.NewSearcher(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 2,
				Logger:     logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Load(ctx, [][]float32{{0, 0}, {1, 0}, {0, 3}})).To(Succeed())
		})

		AfterEach(func() {
			Expect(s.Close()).To(Succeed())
		})

		It("returns corpus positions with squared distances", func() {
			got, err := s.Search(ctx, []float32{0, 2}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
			Expect(got[0].Position).To(Equal(2))
			Expect(got[0].Distance).To(BeNumerically("~", 1, 1e-4))
			Expect(got[1].Position).To(Equal(0))
			Expect(got[1].Distance).To(BeNumerically("~", 4, 1e-4))
		})

		It("caps k at the number of vectors", func() {
			got, err := s.Search(ctx, []float32{0, 0}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(3))
			Expect(s.Size()).To(Equal(3))
		})

		It("rejects a query of the wrong dimension", func() {
			_, err := s.Search(ctx, []float32{1}, 1)
			Expect(err).To(MatchError(index.ErrDimensionMismatch))
		})
	})
})
