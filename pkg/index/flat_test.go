package index_test

import (
	"context"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/index"
)

var _ = Describe("Flat", func() {
	var (
		ctx     context.Context
		vectors [][]float32
	)

	BeforeEach(func() {
		ctx = context.Background()
		vectors = [][]float32{
			{0, 0},
			{1, 0},
			{0, 3},
			{1, 0},
		}
	})

	Describe("Build", func() {
		It("rejects an empty corpus", func() {
			_, err := index.Build(nil)
			Expect(err).To(MatchError(corpus.ErrEmptyCorpus))
		})

		It("rejects ragged vectors", func() {
			_, err := index.Build([][]float32{{1, 2}, {1}})
			Expect(err).To(MatchError(index.ErrDimensionMismatch))
		})

		It("reports size and dimension", func() {
			f, err := index.Build(vectors)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Size()).To(Equal(4))
			Expect(f.Dimension()).To(Equal(2))
			Expect(f.Vector(2)).To(Equal([]float32{0, 3}))
		})
	})

	Describe("Search", func() {
		var f *index.Flat

		BeforeEach(func() {
			var err error
			f, err = index.Build(vectors)
			Expect(err).NotTo(HaveOccurred())
		})

		It("orders by squared euclidean distance", func() {
			got, err := f.Search(ctx, []float32{0, 2}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]index.Neighbor{
				{Position: 2, Distance: 1},
				{Position: 0, Distance: 4},
			}))
		})

		It("breaks ties by position", func() {
			got, err := f.Search(ctx, []float32{1, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(got[0].Position).To(Equal(1))
			Expect(got[1].Position).To(Equal(3))
			Expect(got[2].Position).To(Equal(0))
		})

		It("returns every vector when k exceeds the size", func() {
			got, err := f.Search(ctx, []float32{0, 0}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(4))
		})

		It("rejects a query of the wrong dimension", func() {
			_, err := f.Search(ctx, []float32{0, 0, 0}, 1)
			Expect(err).To(MatchError(index.ErrDimensionMismatch))
		})
	})

	Describe("MarshalBinary", func() {
		It("round trips", func() {
			f, err := index.Build(vectors)
			Expect(err).NotTo(HaveOccurred())
			data, err := f.MarshalBinary()
			Expect(err).NotTo(HaveOccurred())

			var restored index.Flat
			Expect(restored.UnmarshalBinary(data)).To(Succeed())
			Expect(restored.Size()).To(Equal(4))

			want, _ := f.Search(ctx, []float32{0.5, 1}, 4)
			got, err := restored.Search(ctx, []float32{0.5, 1}, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		})

		It("rejects truncated data", func() {
			f, _ := index.Build(vectors)
			data, _ := f.MarshalBinary()

			var restored index.Flat
			Expect(restored.UnmarshalBinary(data[:len(data)-2])).To(MatchError(index.ErrCorrupt))
			Expect(restored.UnmarshalBinary([]byte("junk"))).To(MatchError(index.ErrCorrupt))
		})

		It("rejects headers whose declared size overflows", func() {
			header := make([]byte, 24)
			copy(header, "PQFI")
			binary.LittleEndian.PutUint32(header[4:8], 1)
			binary.LittleEndian.PutUint64(header[8:16], 1<<62)
			binary.LittleEndian.PutUint64(header[16:24], 2)

			var restored index.Flat
			Expect(func() {
				Expect(restored.UnmarshalBinary(header)).To(MatchError(index.ErrCorrupt))
			}).NotTo(Panic())
			Expect(restored.Size()).To(BeZero())
		})
	})
})
