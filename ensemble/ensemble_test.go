package ensemble_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mcmc"
	"github.com/sarchlab/mcmc/ensemble"
	"github.com/sarchlab/mcmc/idgen"
	"github.com/sarchlab/mcmc/sampler"
)

var _ = Describe("Ensemble", func() {
	var builder sampler.Builder

	BeforeEach(func() {
		builder = sampler.MakeBuilder().WithSigma(3).WithBurnIn(100)
	})

	It("should name and seed chains independently", func() {
		chains, err := ensemble.Build(builder, 3, 40, idgen.NewSequential())

		Expect(err).NotTo(HaveOccurred())
		Expect(chains).To(HaveLen(3))
		Expect(chains[0].Name()).To(Equal("Chain[1]"))
		Expect(chains[2].Name()).To(Equal("Chain[3]"))
		Expect(chains[0].State().Value).NotTo(Equal(chains[1].State().Value))
	})

	It("should reject a non-positive chain count", func() {
		_, err := ensemble.Build(builder, 0, 1, idgen.NewSequential())

		Expect(err).To(MatchError(mcmc.ErrInvalidParameter))
	})

	It("should propagate builder errors", func() {
		_, err := ensemble.Build(builder.WithSigma(-1), 2, 1, idgen.NewSequential())

		Expect(err).To(MatchError(mcmc.ErrInvalidParameter))
	})

	It("should produce the same realizations as sequential chains", func() {
		chains, err := ensemble.Build(builder, 4, 7, idgen.NewSequential())
		Expect(err).NotTo(HaveOccurred())

		got, err := ensemble.Run(context.Background(), chains, 500)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(4))

		for i := range got {
			s, err := builder.WithSeed(7 + uint64(i)).Build("Reference")
			Expect(err).NotTo(HaveOccurred())

			want, _ := s.Step(500)
			Expect(got[i]).To(Equal(want))
			Expect(chains[i].State().StepCount).To(Equal(uint64(500)))
		}
	})

	It("should reject a non-positive step count", func() {
		chains, _ := ensemble.Build(builder, 2, 1, idgen.NewSequential())

		_, err := ensemble.Run(context.Background(), chains, 0)

		Expect(err).To(MatchError(mcmc.ErrInvalidParameter))
		Expect(chains[0].State().StepCount).To(BeZero())
	})

	It("should not start chains after cancellation", func() {
		chains, _ := ensemble.Build(builder, 2, 1, idgen.NewSequential())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := ensemble.Run(ctx, chains, 10)

		Expect(err).To(MatchError(context.Canceled))
		Expect(chains[0].State().StepCount).To(BeZero())
		Expect(chains[1].State().StepCount).To(BeZero())
	})
})
