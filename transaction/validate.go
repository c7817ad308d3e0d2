package transaction

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"google.golang.org/protobuf/testing/protocmp"
)

// requireBodiesMatch fails if two bodies of the same chunk differ in any field
// but the node account ID. Repeated fields are compared by position.
func requireBodiesMatch(row int, expected, actual *services.TransactionBody) error {
	reporter := &firstDiffReporter{}
	equal := cmp.Equal(expected, actual,
		protocmp.Transform(),
		protocmp.IgnoreFields(&services.TransactionBody{}, "nodeAccountID"),
		cmp.Reporter(reporter),
	)
	if equal {
		return nil
	}
	return NewStructuralMismatchError(row, reporter.diverging)
}

// firstDiffReporter records the path of the first differing field.
type firstDiffReporter struct {
	path      cmp.Path
	diverging string
}

func (r *firstDiffReporter) PushStep(step cmp.PathStep) {
	r.path = append(r.path, step)
}

func (r *firstDiffReporter) Report(result cmp.Result) {
	if !result.Equal() && r.diverging == "" {
		r.diverging = formatPath(r.path)
	}
}

func (r *firstDiffReporter) PopStep() {
	r.path = r.path[:len(r.path)-1]
}

// formatPath renders the field names and indexes of a path over transformed
// protobuf messages, such as `cryptoTransfer.transfers.accountAmounts[1].amount`.
func formatPath(path cmp.Path) string {
	var b strings.Builder
	for _, step := range path {
		switch s := step.(type) {
		case cmp.MapIndex:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			fmt.Fprintf(&b, "%v", s.Key())
		case cmp.SliceIndex:
			key := s.Key()
			if key < 0 {
				// present on one side only
				x, y := s.SplitKeys()
				key = x
				if key < 0 {
					key = y
				}
			}
			fmt.Fprintf(&b, "[%d]", key)
		}
	}
	if b.Len() == 0 {
		return "<root>"
	}
	return b.String()
}
