package tracing

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/mcmc/sampler"
)

// CSVTracer stores the post burn-in steps of chains into a CSV file.
type CSVTracer struct {
	lock   sync.Mutex
	path   string
	file   *os.File
	writer *bufio.Writer
	closed bool
}

// NewCSVTracer creates path + ".csv" and writes the header. An empty path
// generates a unique file name. It panics if the file already exists.
func NewCSVTracer(path string) *CSVTracer {
	if path == "" {
		path = "mcmc_steps_" + xid.New().String()
	}

	filename := path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}

	t := &CSVTracer{
		path:   filename,
		file:   file,
		writer: bufio.NewWriter(file),
	}

	fmt.Fprintf(t.writer,
		"Chain, Step, Current, Candidate, Ratio, Uniform, Accepted, Value\n")

	atexit.Register(func() {
		err := t.Close()
		if err != nil {
			panic(err)
		}
	})

	return t
}

// Path returns the name of the CSV file.
func (t *CSVTracer) Path() string {
	return t.path
}

// TraceStep writes a step.
func (t *CSVTracer) TraceStep(chain string, r sampler.StepRecord) {
	if r.BurnIn {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		panic("step traced after the CSV file is closed")
	}

	fmt.Fprintf(t.writer, "%s, %d, %v, %v, %v, %v, %t, %v\n",
		chain,
		r.Index,
		r.Current,
		r.Candidate,
		r.Ratio,
		r.Uniform,
		r.Accepted,
		r.Value,
	)
}

// EndBurnIn does nothing.
func (t *CSVTracer) EndBurnIn(_ string, _ sampler.ChainState) {
}

// Close flushes the buffered rows and closes the file. Closing twice does
// nothing.
func (t *CSVTracer) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true

	if err := t.writer.Flush(); err != nil {
		t.file.Close()
		return err
	}

	return t.file.Close()
}
