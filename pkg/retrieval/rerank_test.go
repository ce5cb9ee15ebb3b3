package retrieval_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/retrieval"
)

var _ = Describe("TermFrequency", func() {
	var tf retrieval.TermFrequency

	It("counts every lowercased query term as a substring", func() {
		Expect(tf.Score([]string{"vacation", "days"}, "Employees accrue 15 vacation days per year.")).To(Equal(2))
		Expect(tf.Score([]string{"vacation", "days"}, "Sick leave requires a doctor's note after 3 days.")).To(Equal(1))
		Expect(tf.Score([]string{"day"}, "Days and days")).To(Equal(2))
		Expect(tf.Score([]string{"aa"}, "aaa")).To(Equal(1))
	})

	It("sorts by descending score", func() {
		in := []corpus.Chunk{
			{Text: "nothing relevant", Source: "a"},
			{Text: "Vacation vacation", Source: "b"},
			{Text: "one vacation", Source: "c"},
		}
		out := tf.Rerank("VACATION", in)
		Expect(out[0].Source).To(Equal("b"))
		Expect(out[1].Source).To(Equal("c"))
		Expect(out[2].Source).To(Equal("a"))
	})

	It("keeps the incoming order on ties", func() {
		in := []corpus.Chunk{
			{Text: "policy one", Source: "1"},
			{Text: "remote work", Source: "2"},
			{Text: "policy two", Source: "3"},
			{Text: "remote again", Source: "4"},
		}
		out := tf.Rerank("policy", in)
		Expect([]string{out[0].Source, out[1].Source, out[2].Source, out[3].Source}).
			To(Equal([]string{"1", "3", "2", "4"}))
	})

	It("never adds candidates", func() {
		Expect(tf.Rerank("anything", nil)).To(BeEmpty())
	})
})
