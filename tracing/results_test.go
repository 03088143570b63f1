package tracing

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/mcmc/autocorr"
	"github.com/sarchlab/mcmc/datarecording"
	"github.com/sarchlab/mcmc/sampler"
)

var _ = Describe("Results", func() {
	It("should store a profile one row per lag", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		backend := NewMockDataRecorder(mockCtrl)

		backend.EXPECT().ListTables().Return(nil)
		backend.EXPECT().CreateTable(ProfileTable, ProfileEntry{})
		gomock.InOrder(
			backend.EXPECT().InsertData(ProfileTable,
				ProfileEntry{Chain: "C", Lag: -1, Value: 0.5}),
			backend.EXPECT().InsertData(ProfileTable,
				ProfileEntry{Chain: "C", Lag: 0, Value: 1}),
			backend.EXPECT().InsertData(ProfileTable,
				ProfileEntry{Chain: "C", Lag: 1, Value: 0.5}),
		)

		RecordProfile(backend, "C", []float64{0.5, 1, 0.5})
	})

	It("should round trip a run through SQLite", func() {
		dbPath := filepath.Join(GinkgoT().TempDir(), "run")
		backend := datarecording.New(dbPath)

		s, err := sampler.MakeBuilder().
			WithSigma(3).
			WithSeed(8).
			WithBurnIn(20).
			Build("Chain[1]")
		Expect(err).NotTo(HaveOccurred())

		CollectTrace(s, NewDBTracer(backend))

		x, err := s.Step(300)
		Expect(err).NotTo(HaveOccurred())

		profile, err := autocorr.Autocorrelation(x, 10)
		Expect(err).NotTo(HaveOccurred())

		RecordSummary(backend, s.Summary())
		RecordProfile(backend, s.Name(), profile)
		Expect(backend.Close()).To(Succeed())

		reader, err := datarecording.NewReader(dbPath + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		ctx := context.Background()

		chains, err := ReadChains(ctx, reader)
		Expect(err).NotTo(HaveOccurred())
		Expect(chains).To(Equal([]string{"Chain[1]"}))

		got, err := ReadRealization(ctx, reader, "Chain[1]")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(x))

		reader.MapTable(ProfileTable, ProfileEntry{})
		rows, total, err := reader.Query(ctx, ProfileTable,
			datarecording.QueryParams{Where: "Lag = 0"})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(1))
		Expect(rows[0].(ProfileEntry).Value).To(Equal(1.0))

		_, err = ReadRealization(ctx, reader, "Chain[2]")
		Expect(err).To(HaveOccurred())
	})

	It("should list chains whose summaries were never written", func() {
		dbPath := filepath.Join(GinkgoT().TempDir(), "aborted")
		backend := datarecording.New(dbPath)
		tracer := NewDBTracer(backend)

		for _, name := range []string{"Chain[2]", "Chain[1]"} {
			s, err := sampler.MakeBuilder().WithSeed(3).Build(name)
			Expect(err).NotTo(HaveOccurred())

			CollectTrace(s, tracer)
			_, err = s.Step(5)
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(backend.Close()).To(Succeed())

		reader, err := datarecording.NewReader(dbPath + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		chains, err := ReadChains(context.Background(), reader)
		Expect(err).NotTo(HaveOccurred())
		Expect(chains).To(Equal([]string{"Chain[1]", "Chain[2]"}))

		tables, err := reader.ListTables(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(tables).NotTo(ContainElement(SummaryTable))
	})
})
