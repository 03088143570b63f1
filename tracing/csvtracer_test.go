package tracing

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mcmc/sampler"
)

var _ = Describe("CSVTracer", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "steps")
	})

	It("should write a header and one line per step", func() {
		t := NewCSVTracer(path)
		Expect(t.Path()).To(Equal(path + ".csv"))

		t.TraceStep("A", sampler.StepRecord{Index: 1, BurnIn: true})
		t.TraceStep("A", sampler.StepRecord{
			Index:     1,
			Current:   0.5,
			Candidate: 1.5,
			Ratio:     0.25,
			Uniform:   0.75,
			Value:     0.5,
		})
		Expect(t.Close()).To(Succeed())
		Expect(t.Close()).To(Succeed())

		content, err := os.ReadFile(t.Path())
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		Expect(lines).To(Equal([]string{
			"Chain, Step, Current, Candidate, Ratio, Uniform, Accepted, Value",
			"A, 1, 0.5, 1.5, 0.25, 0.75, false, 0.5",
		}))
	})

	It("should refuse to overwrite a file", func() {
		t := NewCSVTracer(path)
		Expect(t.Close()).To(Succeed())

		Expect(func() { NewCSVTracer(path) }).To(Panic())
	})

	It("should panic on steps after close", func() {
		t := NewCSVTracer(path)
		Expect(t.Close()).To(Succeed())

		Expect(func() {
			t.TraceStep("A", sampler.StepRecord{Index: 1})
		}).To(Panic())
	})
})
