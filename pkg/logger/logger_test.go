package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/policyqa/pkg/logger"
)

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	Expect(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("writes text records with their fields", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf))
			l.Info("ingestion finished", "chunks", 42, "skipped", 1)

			Expect(buf.String()).To(ContainSubstring("ingestion finished"))
			Expect(buf.String()).To(ContainSubstring("chunks=42"))
			Expect(buf.String()).To(ContainSubstring("skipped=1"))
		})

		It("logs debug records only with debug on", func() {
			var on, off bytes.Buffer
			logger.New(logger.WithWriter(&on), logger.WithDebug(true)).Debug("cache hit", "key", "abc")
			logger.New(logger.WithWriter(&off), logger.WithDebug(false)).Debug("cache hit", "key", "abc")

			Expect(on.String()).To(ContainSubstring("cache hit"))
			Expect(off.String()).To(BeEmpty())
		})

		It("writes one JSON object per record", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.Info("serving policy corpus", "listen", ":8000", "chunks", 12)

			parsed := decodeLine(&buf)
			Expect(parsed["msg"]).To(Equal("serving policy corpus"))
			Expect(parsed["listen"]).To(Equal(":8000"))
			Expect(parsed["chunks"]).To(BeNumerically("==", 12))
		})

		It("adds the caller with source on", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithSource(true))
			l.Warn("cache lookup failed")

			Expect(decodeLine(&buf)).To(HaveKey(slog.SourceKey))
		})

		It("renders pretty output", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true))
			l.Info("extracting documents", "dir", "data")

			Expect(buf.String()).To(ContainSubstring("extracting documents"))
			Expect(buf.String()).To(ContainSubstring("data"))
		})

		It("tees to every writer", func() {
			var a, b bytes.Buffer
			logger.New(logger.WithWriters(&a, &b)).Info("index built")

			Expect(a.String()).To(ContainSubstring("index built"))
			Expect(b.String()).To(ContainSubstring("index built"))
		})

		It("nests grouped fields", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.WithGroup("query").Info("search complete", "top_k", 3)

			group, ok := decodeLine(&buf)["query"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(group["top_k"]).To(BeNumerically("==", 3))
		})
	})

	Describe("Nop", func() {
		It("is disabled at every level and tolerates derived loggers", func() {
			l := logger.Nop()
			Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
			Expect(func() {
				l.With("component", "answer").WithGroup("cache").Error("write failed")
			}).NotTo(Panic())
		})
	})

	Describe("Multi", func() {
		var console, file bytes.Buffer

		BeforeEach(func() {
			console.Reset()
			file.Reset()
		})

		It("sends each record to every logger at its own level", func() {
			multi := logger.Multi(
				logger.New(logger.WithWriter(&console)),
				logger.New(logger.WithWriter(&file), logger.WithJSON(true), logger.WithDebug(true)),
			)

			multi.Debug("retrieved chunks", "count", 3)
			Expect(console.String()).To(BeEmpty())
			Expect(decodeLine(&file)["msg"]).To(Equal("retrieved chunks"))

			file.Reset()
			multi.Info("serving policy corpus")
			Expect(console.String()).To(ContainSubstring("serving policy corpus"))
			Expect(decodeLine(&file)["msg"]).To(Equal("serving policy corpus"))
		})

		It("carries With fields to every logger", func() {
			multi := logger.Multi(
				logger.New(logger.WithWriter(&console), logger.WithJSON(true)),
				logger.New(logger.WithWriter(&file), logger.WithJSON(true)),
			)
			multi.With("component", "api").Info("request failed")

			Expect(decodeLine(&console)["component"]).To(Equal("api"))
			Expect(decodeLine(&file)["component"]).To(Equal("api"))
		})

		It("keeps writing when one destination fails", func() {
			multi := logger.Multi(
				logger.New(logger.WithWriter(brokenWriter{}), logger.WithJSON(true)),
				logger.New(logger.WithWriter(&console)),
			)

			err := multi.Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "cache write queued", 0))
			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(console.String()).To(ContainSubstring("cache write queued"))
		})
	})
})
