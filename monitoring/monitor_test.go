package monitoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mcmc/sampler"
)

var _ = Describe("Monitor", func() {
	var (
		m       *Monitor
		handler http.Handler
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		m = NewMonitor().WithProfileDuration(10 * time.Millisecond)
		handler = m.Router()
	})

	It("should fall back to a random port for reserved ports", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))

		m.WithPortNumber(8080)
		Expect(m.portNumber).To(Equal(8080))
	})

	It("should list chains", func() {
		m.Watch("A", 10)
		m.Watch("B", 10)

		rec := get("/api/chains")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var names []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal([]string{"A", "B"}))
	})

	It("should report a chain", func() {
		w := m.Watch("Chain", 10)
		s, err := sampler.MakeBuilder().WithSeed(2).Build("Chain")
		Expect(err).NotTo(HaveOccurred())
		s.AcceptHook(w)
		_, _ = s.Step(10)

		rec := get("/api/chain/Chain")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
		Expect(rec.Body.String()).To(ContainSubstring("Chain"))
	})

	It("should return 404 for unknown chains", func() {
		rec := get("/api/chain/Missing")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should report progress", func() {
		bar := m.CreateProgressBar("Chain", 20)
		bar.IncrementFinished(5)
		bar.IncrementInProgress(3)
		bar.MoveInProgressToFinished(1)

		rec := get("/api/progress")

		var bars []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]).To(HaveKeyWithValue("name", "Chain"))
		Expect(bars[0]).To(HaveKeyWithValue("total", 20.0))
		Expect(bars[0]).To(HaveKeyWithValue("finished", 6.0))
		Expect(bars[0]).To(HaveKeyWithValue("in_progress", 2.0))

		m.CompleteProgressBar(bar)

		rec = get("/api/progress")
		Expect(rec.Body.String()).To(Equal("[]"))
	})

	It("should report resources", func() {
		rec := get("/api/resource")

		var rsp map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveKey("cpu_percent"))
		Expect(rsp["memory_size"]).To(BeNumerically(">", 0))
	})

	It("should collect a profile", func() {
		rec := get("/api/profile")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
	})

	It("should serve and stop", func() {
		Expect(m.URL()).To(BeEmpty())
		Expect(m.OpenInBrowser()).NotTo(Succeed())

		m.Watch("Chain", 1)
		m.StartServer()
		defer func() {
			Expect(m.StopServer(context.Background())).To(Succeed())
			Expect(m.URL()).To(BeEmpty())
		}()

		rsp, err := http.Get(m.URL() + "/api/chains")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal(`["Chain"]`))
	})

	It("should ignore stopping a server that never started", func() {
		Expect(m.StopServer(context.Background())).To(Succeed())
	})
})
