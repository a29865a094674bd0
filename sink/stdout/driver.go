package stdout

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"quirk/sink"
)

/* ────────── config ────────── */
type Config struct {
	Writer       io.Writer // default os.Stdout
	PrintCounter bool      // prefix each record with its sequence number
	// JSON writes every record as one JSON line; otherwise strings are
	// written raw and only transcripts are JSON-encoded.
	JSON bool
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
	ack sink.EmitFn

	mu sync.Mutex // guards w
	w  *bufio.Writer
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Writer == nil {
		c.Writer = os.Stdout
	}
	d.cfg = c
	d.w = bufio.NewWriter(c.Writer)
	return nil
}

func (d *driver) Push(r sink.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return fmt.Errorf("stdout-sink: not configured")
	}
	if d.cfg.PrintCounter {
		fmt.Fprintf(d.w, "[%06d] ", r.Seq)
	}
	if s, ok := r.Value.(string); ok && !d.cfg.JSON {
		d.w.WriteString(s)
		d.w.WriteByte('\n')
	} else {
		b, err := json.Marshal(r.Value)
		if err != nil {
			return fmt.Errorf("stdout-sink: record %d: %w", r.Seq, err)
		}
		d.w.Write(b)
		d.w.WriteByte('\n')
	}
	if err := d.w.Flush(); err != nil {
		return err
	}
	if d.ack != nil {
		d.ack(r.Seq)
	}
	return nil
}

func (d *driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return nil
	}
	return d.w.Flush()
}

/* ────────── sink.AckAware ────────── */
func (d *driver) BindAck(fn sink.EmitFn) { d.ack = fn }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
