package chunker_test

import (
	"fmt"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/chunker"
)

func TestChunker(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chunker Suite")
}

// numberedWords returns "w0 w1 ... w(n-1)".
func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

var _ = Describe("Chunker", func() {
	Describe("New", func() {
		It("accepts the default configuration", func() {
			c, err := chunker.New(chunker.DefaultSize, chunker.DefaultOverlap)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Size()).To(Equal(500))
			Expect(c.Overlap()).To(Equal(50))
		})

		It("rejects an overlap equal to the size", func() {
			_, err := chunker.New(10, 10)
			Expect(err).To(MatchError(chunker.ErrInvalidConfig))
		})

		It("rejects an overlap larger than the size", func() {
			_, err := chunker.New(10, 11)
			Expect(err).To(MatchError(chunker.ErrInvalidConfig))
		})

		It("rejects a non-positive size", func() {
			_, err := chunker.New(0, 0)
			Expect(err).To(MatchError(chunker.ErrInvalidConfig))
		})

		It("rejects a negative overlap", func() {
			_, err := chunker.New(10, -1)
			Expect(err).To(MatchError(chunker.ErrInvalidConfig))
		})
	})

	Describe("Clean", func() {
		It("collapses whitespace runs", func() {
			Expect(chunker.Clean("  a\n\nb \t c  ")).To(Equal("a b c"))
		})

		It("returns an empty string for blank text", func() {
			Expect(chunker.Clean(" \n\t ")).To(BeEmpty())
		})
	})

	Describe("Split", func() {
		var c *chunker.Chunker

		BeforeEach(func() {
			var err error
			c, err = chunker.New(chunker.DefaultSize, chunker.DefaultOverlap)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns nothing for empty text", func() {
			Expect(c.Split("")).To(BeEmpty())
		})

		It("returns a single chunk for text shorter than the window", func() {
			chunks := c.Split("Employees accrue 15 vacation days per year.")
			Expect(chunks).To(Equal([]string{"Employees accrue 15 vacation days per year."}))
		})

		It("returns a single chunk for text exactly one window long", func() {
			chunks := c.Split(numberedWords(500))
			Expect(chunks).To(HaveLen(1))
		})

		It("overlaps consecutive chunks by exactly 50 words", func() {
			chunks := c.Split(numberedWords(1234))
			Expect(len(chunks)).To(BeNumerically(">", 2))

			for i := 1; i < len(chunks); i++ {
				prev := strings.Fields(chunks[i-1])
				cur := strings.Fields(chunks[i])
				Expect(prev).To(HaveLen(500))
				Expect(cur[:50]).To(Equal(prev[450:]))
			}
		})

		It("keeps every word in at least one chunk", func() {
			text := numberedWords(1234)
			seen := map[string]bool{}
			for _, chunk := range c.Split(text) {
				for _, w := range strings.Fields(chunk) {
					seen[w] = true
				}
			}
			for _, w := range strings.Fields(text) {
				Expect(seen).To(HaveKey(w))
			}
		})

		It("stops at the window that reaches the end", func() {
			// 950 words: windows start at 0 and 450; the second ends at 950.
			chunks := c.Split(numberedWords(950))
			Expect(chunks).To(HaveLen(2))
			last := strings.Fields(chunks[1])
			Expect(last[0]).To(Equal("w450"))
			Expect(last[len(last)-1]).To(Equal("w949"))
		})

		It("emits a short final window", func() {
			chunks := c.Split(numberedWords(1000))
			Expect(chunks).To(HaveLen(3))
			Expect(strings.Fields(chunks[2])).To(HaveLen(100))
		})
	})

	Describe("Chunk", func() {
		It("cleans the text and tags each chunk with its source", func() {
			c, err := chunker.New(3, 1)
			Expect(err).NotTo(HaveOccurred())

			chunks := c.Chunk("handbook.pdf", "one\ntwo   three\n\nfour five")
			Expect(chunks).To(HaveLen(2))
			Expect(chunks[0].Text).To(Equal("one two three"))
			Expect(chunks[1].Text).To(Equal("three four five"))
			for _, ch := range chunks {
				Expect(ch.Source).To(Equal("handbook.pdf"))
			}
		})
	})
})
