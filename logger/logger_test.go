package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tikz/exposure/logger"
)

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("creates a text logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf))
			l.Info("computed exposure", "residues", 12)

			Expect(buf.String()).To(ContainSubstring("computed exposure"))
			Expect(buf.String()).To(ContainSubstring("residues=12"))
		})

		It("filters debug unless enabled", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf)).Debug("hidden")
			Expect(buf.String()).To(BeEmpty())

			logger.New(logger.WithWriter(&buf), logger.WithDebug(true)).Debug("shown")
			Expect(buf.String()).To(ContainSubstring("shown"))
		})

		It("prefers JSON over pretty output", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithJSON(true))
			l.Info("structured", "atoms", 1042)

			var parsed map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &parsed)).To(Succeed())
			Expect(parsed["msg"]).To(Equal("structured"))
			Expect(parsed["atoms"]).To(BeNumerically("==", 1042))
		})

		It("creates a pretty logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithDebug(true))
			l.Debug("pretty output")

			Expect(buf.String()).To(ContainSubstring("pretty output"))
		})

		It("writes to every writer", func() {
			var buf1, buf2 bytes.Buffer
			logger.New(logger.WithWriters(&buf1, &buf2)).Warn("multi")

			Expect(buf1.String()).To(ContainSubstring("multi"))
			Expect(buf2.String()).To(ContainSubstring("multi"))
		})
	})
})
