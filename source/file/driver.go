// Package file reads records from a file or stdin.
package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"quirk/source"
)

const maxLine = 16 << 20

// driver splits its input according to mode:
//
//	text        the whole input is one string record
//	lines       one string record per line
//	jsonl       one JSON value (string or transcript) per line
//	transcript  the whole input is one JSON transcript
type driver struct {
	mode string
	cfg  source.Config
	in   io.ReadCloser
}

func (d *driver) Configure(c source.Config) error {
	d.cfg = c
	if c.Path == "" || c.Path == "-" {
		d.in = io.NopCloser(os.Stdin)
		return nil
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("source %s: %w", d.mode, err)
	}
	d.in = f
	return nil
}

func (d *driver) Run(ctx context.Context, emit source.EmitFunc) error {
	if d.in == nil {
		return fmt.Errorf("source %s: not configured", d.mode)
	}
	switch d.mode {
	case "text", "transcript":
		raw, err := io.ReadAll(d.in)
		if err != nil {
			return err
		}
		v, err := d.decode(raw)
		if err != nil {
			return fmt.Errorf("source %s: %w", d.mode, err)
		}
		return emit(source.Record{Seq: 1, Value: v})
	}

	sc := bufio.NewScanner(d.in)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	seq := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Bytes()
		if d.mode == "jsonl" && len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		seq++
		v, err := d.decode(line)
		if err != nil {
			return fmt.Errorf("source %s: line %d: %w", d.mode, seq, err)
		}
		if err := emit(source.Record{Seq: seq, Value: v}); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (d *driver) decode(raw []byte) (any, error) {
	switch d.mode {
	case "text", "lines":
		return string(raw), nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case string, []any:
		return v, nil
	}
	return nil, fmt.Errorf("want a string or a list of turns, got %T", v)
}

func (d *driver) Close() error {
	if d.in == nil {
		return nil
	}
	return d.in.Close()
}

func init() {
	for _, mode := range []string{"text", "lines", "jsonl", "transcript"} {
		source.Register(mode, func() source.Adapter { return &driver{mode: mode} })
	}
}
