// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

// wireloom-decode decodes binary protocol frames against a protodef
// definition and prints what it finds. It is the command-line
// rendition of a protocol analyzer: feed it the dialect definition
// and captured bytes, get structured frames out.
//
// Input is hex on the command line or a binary file (stdin with
// "--in -"). The decoder applies the standard resynchronization
// policy: on a framing error it advances one byte and retries, so a
// valid frame embedded in garbage is still recovered.
//
// Usage:
//
//	wireloom-decode --def proto.yaml --hex "ab0301 0007"
//	wireloom-decode --def proto.jsonc --in capture.bin
//	wireloom-decode --def proto.yaml --in - --cbor > records.cbor
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/wireloom/wireloom/layer"
	"github.com/wireloom/wireloom/lib/capture"
	"github.com/wireloom/wireloom/lib/codec"
	"github.com/wireloom/wireloom/lib/protodef"
	"github.com/wireloom/wireloom/message"
	"github.com/wireloom/wireloom/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var defPath string
	var hexInput string
	var inPath string
	var emitCBOR bool
	var verbose bool

	flagSet := pflag.NewFlagSet("wireloom-decode", pflag.ContinueOnError)
	flagSet.StringVar(&defPath, "def", "", "protocol definition file (.yaml, .yml, .json, .jsonc)")
	flagSet.StringVar(&hexInput, "hex", "", "frame bytes as hex digits (whitespace ignored)")
	flagSet.StringVar(&inPath, "in", "", "binary input file, or - for stdin")
	flagSet.BoolVar(&emitCBOR, "cbor", false, "emit CBOR capture records to stdout instead of text")
	flagSet.BoolVar(&verbose, "verbose", false, "log resynchronization skips")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if defPath == "" {
		return fmt.Errorf("--def is required")
	}
	def, err := protodef.ReadFile(defPath)
	if err != nil {
		return err
	}
	dialect, err := def.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", defPath, err)
	}

	input, err := readInput(hexInput, inPath)
	if err != nil {
		return err
	}

	return decodeStream(dialect, input, emitCBOR, logger)
}

// readInput collects the frame bytes from --hex or --in.
func readInput(hexInput, inPath string) ([]byte, error) {
	switch {
	case hexInput != "" && inPath != "":
		return nil, fmt.Errorf("--hex and --in are mutually exclusive")
	case hexInput != "":
		cleaned := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' || r == '\n' {
				return -1
			}
			return r
		}, hexInput)
		data, err := hex.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("--hex: %w", err)
		}
		return data, nil
	case inPath == "-":
		return io.ReadAll(os.Stdin)
	case inPath != "":
		return os.ReadFile(inPath)
	default:
		return nil, fmt.Errorf("one of --hex or --in is required")
	}
}

// decodeStream walks the input, decoding frames and resynchronizing
// byte by byte across garbage.
func decodeStream(dialect *protodef.Dialect, input []byte, emitCBOR bool, logger *slog.Logger) error {
	encoder := codec.NewEncoder(os.Stdout)

	offset := 0
	frames := 0
	skipped := 0
	for offset < len(input) {
		window := input[offset:]
		reader := wire.NewReader(window)
		all := dialect.Frame.NewAllFields()

		m, missing, st := dialect.Frame.ReadFieldsCached(all, reader, len(window))
		switch st {
		case wire.Success:
			consumed := reader.Pos()
			if err := report(dialect, window[:consumed], all, m, offset, emitCBOR, encoder); err != nil {
				return err
			}
			frames++
			offset += consumed

		case wire.NotEnoughData:
			logger.Warn("input ends mid-frame",
				"offset", offset,
				"missing_at_least", missing)
			offset = len(input)

		default:
			logger.Debug("resync", "offset", offset, "status", st.String())
			skipped++
			offset++
		}
	}

	logger.Debug("decode finished", "frames", frames, "skipped_bytes", skipped)
	if frames == 0 {
		return fmt.Errorf("no frames decoded (%d bytes skipped)", skipped)
	}
	return nil
}

// report emits one decoded frame as text or as a CBOR capture record.
func report(dialect *protodef.Dialect, raw []byte, all layer.AllFields, m message.Message, offset int, emitCBOR bool, encoder *codec.Encoder) error {
	id, _ := m.GetID()
	kind := dialect.KindName(id)
	record := capture.NewRecord(dialect.Name, raw, all, m, kind)

	if emitCBOR {
		return encoder.Encode(record)
	}

	fmt.Printf("frame @%d: %s (id %d), %d bytes\n", offset, kind, record.MsgID, len(raw))
	payload, err := codec.Marshal(record.Payload)
	if err != nil {
		return err
	}
	diag, err := codec.Diagnose(payload)
	if err != nil {
		return err
	}
	fmt.Printf("  payload: %s\n", diag)
	return nil
}
