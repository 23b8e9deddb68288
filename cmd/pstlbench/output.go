package main

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/fxamacker/cbor/v2"
)

var resultSchema = arrow.NewSchema(
	[]arrow.Field{
		{Name: "algo", Type: arrow.BinaryTypes.String},
		{Name: "policy", Type: arrow.BinaryTypes.String},
		{Name: "n", Type: arrow.PrimitiveTypes.Int64},
		{Name: "run", Type: arrow.PrimitiveTypes.Int32},
		{Name: "duration", Type: arrow.FixedWidthTypes.Duration_ns},
	},
	nil,
)

// buildRecordBatch turns a result into one row per timed run.
func buildRecordBatch(mem memory.Allocator, res RunResult) arrow.RecordBatch {
	algo := array.NewStringBuilder(mem)
	defer algo.Release()
	policy := array.NewStringBuilder(mem)
	defer policy.Release()
	n := array.NewInt64Builder(mem)
	defer n.Release()
	run := array.NewInt32Builder(mem)
	defer run.Release()
	dur := array.NewDurationBuilder(mem, arrow.FixedWidthTypes.Duration_ns.(*arrow.DurationType))
	defer dur.Release()

	for i, d := range res.Durations {
		algo.Append(res.Algo)
		policy.Append(res.Policy)
		n.Append(int64(res.N))
		run.Append(int32(i))
		dur.Append(arrow.Duration(d.Nanoseconds()))
	}

	cols := []arrow.Array{algo.NewArray(), policy.NewArray(), n.NewArray(), run.NewArray(), dur.NewArray()}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecordBatch(resultSchema, cols, int64(len(res.Durations)))
}

func writeArrowStream(w io.Writer, rec arrow.RecordBatch) error {
	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()))
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func writeResult(w io.Writer, format string, res RunResult) error {
	switch format {
	case "text":
		fmt.Fprintf(w, "%s policy=%s n=%d runs=%d best=%s mean=%s checksum=%d\n",
			res.Algo, res.Policy, res.N, len(res.Durations), res.Best, res.Mean, res.Checksum)
		return nil
	case "cbor":
		return cbor.NewEncoder(w).Encode(res)
	case "arrow":
		rec := buildRecordBatch(memory.NewGoAllocator(), res)
		defer rec.Release()
		return writeArrowStream(w, rec)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
