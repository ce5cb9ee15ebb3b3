package generateutils_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/generate/ollama"
	"github.com/papercomputeco/policyqa/pkg/generate/openai"
	generateutils "github.com/papercomputeco/policyqa/pkg/generate/utils"
)

func TestGenerateUtils(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Generate Utils Suite")
}

var _ = Describe("NewGenerator", func() {
	It("defaults to the OpenAI-compatible provider", func() {
		g, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(g).To(BeAssignableToTypeOf(&openai.Generator{}))
	})

	It("propagates a missing api key", func() {
		_, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{ProviderType: "openai"})
		Expect(err).To(HaveOccurred())
	})

	It("builds ollama without a key", func() {
		g, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{ProviderType: "ollama"})
		Expect(err).NotTo(HaveOccurred())
		Expect(g).To(BeAssignableToTypeOf(&ollama.Generator{}))
	})

	It("rejects unknown providers", func() {
		_, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{ProviderType: "bard"})
		Expect(err).To(MatchError(ContainSubstring("unsupported generator provider")))
	})
})
