package workload

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/idxtree/internal/idxtree"
)

// ReportVersion is the schema version written into every report.
const ReportVersion = 1

// Report builds the JSON report for res. Each report carries a fresh run id.
func Report(res Result) ([]byte, error) {
	return report(uuid.NewString(), time.Now().UTC(), res)
}

func report(runID string, at time.Time, res Result) ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"version", ReportVersion},
		{"run_id", runID},
		{"time", at.Format(time.RFC3339)},
		{"source", string(res.Source)},
		{"name", res.Name},
		{"seed", res.Seed},
		{"passed", res.Passed()},
		{"ops.total", res.Ops},
		{"ops.insert", res.Counts.Insert},
		{"ops.remove", res.Counts.Remove},
		{"ops.set", res.Counts.Set},
		{"ops.get", res.Counts.Get},
		{"ops.misses", res.Misses},
		{"checks", res.Checks},
		{"tree.final_len", res.FinalLen},
		{"tree.max_len", res.MaxLen},
		{"tree.max_height", res.MaxHeight},
		{"tree.height_bound", idxtree.HeightBound(res.MaxLen)},
		{"sequence.inserts", res.Stats.Inserts},
		{"sequence.removes", res.Stats.Removes},
		{"sequence.sets", res.Stats.Sets},
		{"sequence.lookups", res.Stats.Lookups},
		{"sequence.misses", res.Stats.Misses},
		{"duration_ms", res.Duration.Milliseconds()},
	}

	doc := []byte("{}")
	var err error
	for _, f := range fields {
		doc, err = sjson.SetBytes(doc, f.path, f.value)
		if err != nil {
			return nil, fmt.Errorf("report field %s: %w", f.path, err)
		}
	}
	if !res.Passed() {
		doc, err = sjson.SetBytes(doc, "failure", res.Failure)
		if err != nil {
			return nil, fmt.Errorf("report field failure: %w", err)
		}
	}
	return doc, nil
}

// Format indents a report for humans, colouring it when color is set.
func Format(doc []byte, color bool) []byte {
	out := pretty.Pretty(doc)
	if color {
		out = pretty.Color(out, nil)
	}
	return out
}
