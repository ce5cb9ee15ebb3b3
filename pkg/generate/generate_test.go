package generate_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/generate"
)

func TestGenerate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Generate Suite")
}

var _ = Describe("Prompt", func() {
	It("joins chunk texts with blank lines between instructions and question", func() {
		p := generate.Prompt("How many vacation days?", []corpus.Chunk{
			{Text: "first chunk", Source: "a.pdf"},
			{Text: "second chunk", Source: "b.pdf"},
		})
		Expect(p).To(HavePrefix("You are an HR assistant. Answer the question based only on the provided context."))
		Expect(p).To(ContainSubstring(generate.FallbackAnswer))
		Expect(p).To(ContainSubstring("\n\nContext:\nfirst chunk\n\nsecond chunk\n\nQuestion: How many vacation days?"))
		Expect(p).To(HaveSuffix("\n\nAnswer:"))
	})

	It("leaves the context empty without chunks", func() {
		Expect(generate.Prompt("q", nil)).To(ContainSubstring("Context:\n\n\nQuestion: q"))
	})
})
