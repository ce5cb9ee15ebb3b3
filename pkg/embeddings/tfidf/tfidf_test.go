package tfidf_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/embeddings"
	"github.com/papercomputeco/policyqa/pkg/embeddings/tfidf"
)

var policyTexts = []string{
	"Employees accrue 15 vacation days per year.",
	"Sick leave requires a doctor's note after 3 days.",
}

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

var _ = Describe("Vectorizer", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("refuses to embed before fitting", func() {
		_, err := tfidf.New().Embed(ctx, "vacation")
		Expect(err).To(MatchError(embeddings.ErrNotFitted))
	})

	It("fails on an empty corpus", func() {
		_, err := tfidf.New().FitTransform(nil)
		Expect(err).To(MatchError(corpus.ErrEmptyCorpus))
	})

	It("fails when every term is a stop word", func() {
		_, err := tfidf.New().FitTransform([]string{"the and of", "a it is"})
		Expect(err).To(MatchError(corpus.ErrEmptyCorpus))
	})

	It("drops stop words and single characters", func() {
		Expect(tfidf.New().Tokenize("The Employee is a doctor's note, x 15")).
			To(Equal([]string{"employee", "doctor", "note", "15"}))
	})

	It("orders the vocabulary alphabetically", func() {
		v := tfidf.New()
		_, err := v.FitTransform(policyTexts)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Vocabulary()).To(Equal([]string{
			"15", "accrue", "days", "doctor", "employees", "leave",
			"note", "requires", "sick", "vacation", "year",
		}))
		Expect(v.Dimension()).To(Equal(11))
	})

	It("keeps the most frequent terms when capped", func() {
		v := tfidf.New(tfidf.WithMaxFeatures(2))
		_, err := v.FitTransform([]string{"alpha alpha beta", "alpha gamma gamma gamma"})
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Vocabulary()).To(Equal([]string{"alpha", "gamma"}))
	})

	It("returns one unit vector per text", func() {
		v := tfidf.New()
		vecs, err := v.FitTransform(policyTexts)
		Expect(err).NotTo(HaveOccurred())
		Expect(vecs).To(HaveLen(2))
		for _, vec := range vecs {
			Expect(vec).To(HaveLen(v.Dimension()))
			Expect(norm(vec)).To(BeNumerically("~", 1.0, 1e-5))
		}
	})

	It("is deterministic for the same corpus", func() {
		a, err := tfidf.New().FitTransform(policyTexts)
		Expect(err).NotTo(HaveOccurred())
		b, err := tfidf.New().FitTransform(policyTexts)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("embeds a query the same way as a corpus text", func() {
		v := tfidf.New()
		vecs, err := v.FitTransform(policyTexts)
		Expect(err).NotTo(HaveOccurred())

		q, err := v.Embed(ctx, policyTexts[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(q).To(Equal(vecs[0]))
	})

	It("returns a zero vector for out-of-vocabulary queries", func() {
		v := tfidf.New()
		_, err := v.FitTransform(policyTexts)
		Expect(err).NotTo(HaveOccurred())

		q, err := v.Embed(ctx, "parking garage")
		Expect(err).NotTo(HaveOccurred())
		Expect(norm(q)).To(BeZero())
	})

	It("round trips through MarshalBinary", func() {
		v := tfidf.New()
		_, err := v.FitTransform(policyTexts)
		Expect(err).NotTo(HaveOccurred())

		data, err := v.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())

		restored := tfidf.New()
		Expect(restored.UnmarshalBinary(data)).To(Succeed())
		Expect(restored.Vocabulary()).To(Equal(v.Vocabulary()))

		want, _ := v.Embed(ctx, "vacation days")
		got, err := restored.Embed(ctx, "vacation days")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("rejects garbage model bytes", func() {
		Expect(tfidf.New().UnmarshalBinary([]byte("nope"))).NotTo(Succeed())
	})
})
