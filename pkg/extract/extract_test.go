package extract_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/extract"
)

// writePDF writes a minimal PDF with one page per entry. An empty entry
// produces a page whose content stream draws nothing.
func writePDF(path string, pages ...string) {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	kids := make([]string, 0, len(pages))
	for _, text := range pages {
		pageNum := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))

		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageNum+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	Expect(os.WriteFile(path, buf.Bytes(), 0o600)).To(Succeed())
}

var _ = Describe("Registry", func() {
	var (
		reg *extract.Registry
		dir string
		ctx context.Context
	)

	BeforeEach(func() {
		reg = extract.NewRegistry()
		dir = GinkgoT().TempDir()
		ctx = context.Background()
	})

	It("supports pdf, txt, and md regardless of case", func() {
		Expect(reg.Supports("handbook.pdf")).To(BeTrue())
		Expect(reg.Supports("HANDBOOK.PDF")).To(BeTrue())
		Expect(reg.Supports("notes.txt")).To(BeTrue())
		Expect(reg.Supports("README.md")).To(BeTrue())
		Expect(reg.Supports("image.png")).To(BeFalse())
		Expect(reg.Supports("noext")).To(BeFalse())
	})

	It("registers extensions without a leading dot", func() {
		reg.Register("RST", &extract.Text{})
		Expect(reg.Supports("guide.rst")).To(BeTrue())
	})

	It("reads text files whole", func() {
		path := filepath.Join(dir, "policy.txt")
		Expect(os.WriteFile(path, []byte("Employees accrue 15 vacation days.\nSecond line."), 0o600)).To(Succeed())

		text, err := reg.Extract(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Employees accrue 15 vacation days.\nSecond line."))
	})

	It("reports unsupported files as extraction errors", func() {
		_, err := reg.Extract(ctx, filepath.Join(dir, "image.png"))

		var extErr *extract.Error
		Expect(errors.As(err, &extErr)).To(BeTrue())
		Expect(extErr.Path).To(HaveSuffix("image.png"))
		Expect(err).To(MatchError(extract.ErrUnsupported))
	})

	It("reports missing files as extraction errors", func() {
		_, err := reg.Extract(ctx, filepath.Join(dir, "missing.txt"))

		var extErr *extract.Error
		Expect(errors.As(err, &extErr)).To(BeTrue())
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("joins pdf page text with newlines and skips pages without text", func() {
		path := filepath.Join(dir, "handbook.pdf")
		writePDF(path, "Vacation policy", "", "Sick leave")

		text, err := reg.Extract(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Vacation policy\nSick leave"))
	})

	It("returns no text for a pdf without any text", func() {
		path := filepath.Join(dir, "scan.pdf")
		writePDF(path, "", "")

		text, err := reg.Extract(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(BeEmpty())
	})

	It("reports corrupt pdfs as extraction errors", func() {
		path := filepath.Join(dir, "broken.pdf")
		Expect(os.WriteFile(path, []byte("this is not a pdf"), 0o600)).To(Succeed())

		_, err := reg.Extract(ctx, path)

		var extErr *extract.Error
		Expect(errors.As(err, &extErr)).To(BeTrue())
		Expect(extErr.Path).To(Equal(path))
	})
})
