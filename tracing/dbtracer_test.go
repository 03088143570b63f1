package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/mcmc/sampler"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl *gomock.Controller
		backend  *MockDataRecorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		backend = NewMockDataRecorder(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should create the step table once", func() {
		backend.EXPECT().ListTables().Return(nil)
		backend.EXPECT().CreateTable(StepTable, StepEntry{})

		NewDBTracer(backend)

		backend.EXPECT().ListTables().Return([]string{StepTable})

		NewDBTracer(backend)
	})

	It("should store steps and drop burn-in by default", func() {
		backend.EXPECT().ListTables().Return([]string{StepTable})
		t := NewDBTracer(backend)

		backend.EXPECT().InsertData(StepTable, StepEntry{
			Chain:     "Chain[1]",
			Step:      3,
			Current:   1,
			Candidate: 2,
			Ratio:     0.4,
			Uniform:   0.1,
			Accepted:  true,
			Value:     2,
		})

		t.TraceStep("Chain[1]", sampler.StepRecord{Index: 1, BurnIn: true})
		t.TraceStep("Chain[1]", sampler.StepRecord{
			Index:     3,
			Current:   1,
			Candidate: 2,
			Ratio:     0.4,
			Uniform:   0.1,
			Accepted:  true,
			Value:     2,
		})
	})

	It("should keep burn-in steps when asked", func() {
		backend.EXPECT().ListTables().Return([]string{StepTable})
		t := NewDBTracer(backend).KeepBurnIn()

		backend.EXPECT().InsertData(StepTable, StepEntry{
			Chain:  "Chain[1]",
			Step:   1,
			BurnIn: true,
		})

		t.TraceStep("Chain[1]", sampler.StepRecord{Index: 1, BurnIn: true})
	})

	It("should observe a sampler through its hook", func() {
		backend.EXPECT().ListTables().Return([]string{StepTable})
		t := NewDBTracer(backend).KeepBurnIn()

		backend.EXPECT().InsertData(StepTable, gomock.Any()).Times(5)

		s, err := sampler.MakeBuilder().
			WithSeed(1).
			WithBurnIn(2).
			WithHook(NewTraceHook(t)).
			Build("Chain")
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Step(3)
		Expect(err).NotTo(HaveOccurred())
	})
})
