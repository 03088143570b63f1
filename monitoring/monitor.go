// Package monitoring serves the live state of running chains over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/mcmc/idgen"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor turns a sampling run into a server that reports its progress.
type Monitor struct {
	portNumber      int
	profileDuration time.Duration
	ids             idgen.Generator

	serverLock sync.Mutex
	server     *http.Server
	addr       *net.TCPAddr

	chainsLock sync.Mutex
	chains     []*ChainWatcher

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		ids:             idgen.NewSequential(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// Watch creates a watcher for the named chain. The watcher must be attached
// to the sampler as a hook. The total is the number of post burn-in steps
// the chain is expected to take. They are reported as in progress until the
// chain takes them.
func (m *Monitor) Watch(name string, total uint64) *ChainWatcher {
	w := &ChainWatcher{
		bar:       m.CreateProgressBar(name, total),
		remaining: total,
		snapshot:  ChainSnapshot{Name: name},
	}
	w.bar.IncrementInProgress(total)

	m.chainsLock.Lock()
	defer m.chainsLock.Unlock()

	m.chains = append(m.chains, w)

	return w
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.ids.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the progress report, typically once
// the chain it tracks has stopped.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler that serves the monitoring API.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/chains", m.listChains)
	r.HandleFunc("/api/chain/{name}", m.chainDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// StartServer starts the monitor as a web server in the background.
func (m *Monitor) StartServer() {
	m.serverLock.Lock()
	defer m.serverLock.Unlock()

	if m.server != nil {
		panic("monitoring server already started")
	}

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	dieOnErr(err)

	m.addr = listener.Addr().(*net.TCPAddr)
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Monitoring chains with %s\n", m.url())

	server := m.server
	go func() {
		err := server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.Panic(err)
		}
	}()
}

// URL returns the address of the running server, or an empty string if the
// server has not started.
func (m *Monitor) URL() string {
	m.serverLock.Lock()
	defer m.serverLock.Unlock()

	return m.url()
}

func (m *Monitor) url() string {
	if m.addr == nil {
		return ""
	}

	return fmt.Sprintf("http://localhost:%d", m.addr.Port)
}

// OpenInBrowser opens the chain list of the running server in the default
// browser.
func (m *Monitor) OpenInBrowser() error {
	url := m.URL()
	if url == "" {
		return fmt.Errorf("monitoring: server not started")
	}

	return browser.OpenURL(url + "/api/chains")
}

// StopServer shuts the server down. It does nothing if the server has not
// started.
func (m *Monitor) StopServer(ctx context.Context) error {
	m.serverLock.Lock()
	defer m.serverLock.Unlock()

	if m.server == nil {
		return nil
	}

	err := m.server.Shutdown(ctx)
	m.server = nil
	m.addr = nil

	return err
}

func (m *Monitor) listChains(w http.ResponseWriter, _ *http.Request) {
	m.chainsLock.Lock()
	names := make([]string, 0, len(m.chains))
	for _, c := range m.chains {
		names = append(names, c.Name())
	}
	m.chainsLock.Unlock()

	writeJSON(w, names)
}

func (m *Monitor) chainDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	watcher := m.findChainOr404(w, name)
	if watcher == nil {
		return
	}

	snapshot := watcher.Snapshot()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&snapshot)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findChainOr404(
	w http.ResponseWriter,
	name string,
) *ChainWatcher {
	m.chainsLock.Lock()
	defer m.chainsLock.Unlock()

	for _, c := range m.chains {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Chain not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.report())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
